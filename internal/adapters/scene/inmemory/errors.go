package inmemory

import "errors"

var (
	ErrUnknownHandler    = errors.New("unknown event handler kind")
	ErrDuplicateBlock    = errors.New("duplicate block name")
	ErrInvalidDefinition = errors.New("invalid scene definition")
)
