package config

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown config format")
	ErrInvalidConfig = errors.New("invalid configuration")
)
