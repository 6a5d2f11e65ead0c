package savedata

import "errors"

var (
	ErrUnknownTypeTag = errors.New("no decoder registered for save data type")
	ErrDecodeFailed   = errors.New("failed to decode save data")
	ErrTypeMismatch   = errors.New("save data decoded to unexpected type")
)
