package app

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoFetcher   = errors.New("pipeline requires a fetcher")
	ErrNoReference = errors.New("pipeline requires both reference tables")
)
