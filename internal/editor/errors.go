package editor

import "errors"

var (
	ErrInvalidTrackPolicy = errors.New("invalid track policy")
	ErrInvalidProject     = errors.New("invalid project file")
)
