package snapshot

import "errors"

var (
	ErrEmptyFlowchartName   = errors.New("flowchart name is required")
	ErrEmptyVarKey          = errors.New("variable key is required")
	ErrDuplicateVarKey      = errors.New("duplicate variable key within type group")
	ErrEmptyBlockName       = errors.New("block name is required")
	ErrNegativeCommandIndex = errors.New("command index cannot be negative")
)
