package zone

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingBounds = errors.New("missing reported zone bounds")
	ErrMalformedZone = errors.New("malformed zone geometry")
	ErrInvalidHeight = errors.New("invalid batter height")
)
