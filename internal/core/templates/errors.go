package templates

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrUnknownFormat    = errors.New("unknown catalog format")
)
