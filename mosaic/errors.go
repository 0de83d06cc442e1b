package mosaic

import "errors"

var (
	ErrEmptyLibrary = errors.New("mosaic: no tiles in library")
	ErrBlockSize    = errors.New("mosaic: block size must be positive")
)
