package source

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrBadURL    = errors.New("bad source url")
	ErrRequest   = errors.New("source request failed")
	ErrBadStatus = errors.New("source returned unexpected status")
	ErrBadCSV    = errors.New("malformed source csv")
)
