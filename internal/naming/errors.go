package naming

import "errors"

var (
	ErrMalformedTimestamp   = errors.New("malformed timestamp")
	ErrUnrecognizedFilename = errors.New("unrecognized filename")
	ErrNotImageLike         = errors.New("not an image")
)
