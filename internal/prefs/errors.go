package prefs

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown preference backend")
	ErrEmptyKey       = errors.New("preference key is empty")
	ErrClosed         = errors.New("preference store is closed")
)
