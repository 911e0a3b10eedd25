package events

import "errors"

var (
	ErrEmptyEventType = errors.New("event type is empty")
	ErrNilHandler     = errors.New("handler is nil")
)
