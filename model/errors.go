package model

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	ErrInvalidDuration = errors.New("invalid duration")
	ErrEmptyRule       = errors.New("rule text is empty")
	ErrEmpty           = errors.New("no rules stored for chat")
	ErrOutOfRange      = errors.New("rule position out of range")

	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrMissingArguments    = errors.New("missing arguments")
	ErrTransportFailure    = errors.New("transport failure")
)
