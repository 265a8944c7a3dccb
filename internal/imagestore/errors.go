package imagestore

import "errors"

// Domain errors. The scripting bridge folds these into its
// failure-return convention; callers branch with errors.Is.
var (
	ErrHandleNotFound       = errors.New("image handle doesn't exist")
	ErrInvalidDimensions    = errors.New("dimensions must be greater than zero")
	ErrCoordinateOutOfRange = errors.New("coordinates are outside the image")
	ErrFileNotFound         = errors.New("file not found")
	ErrDecode               = errors.New("couldn't decode image")
	ErrUnsupportedFormat    = errors.New("unsupported image format")
	ErrIO                   = errors.New("i/o error")
	ErrNoActiveTraversal    = errors.New("no traversal is in progress")
)
