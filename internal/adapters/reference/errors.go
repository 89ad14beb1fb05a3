package reference

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrOpenTable = errors.New("open reference table failed")
	ErrBadTable  = errors.New("malformed reference table")
	ErrBadHeader = errors.New("reference table header mismatch")
)
