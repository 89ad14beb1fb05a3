package export

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrWrite = errors.New("write export failed")
)
