package dialogue

import "errors"

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrDuplicateNode   = errors.New("duplicate node id")
	ErrUnknownHook     = errors.New("unknown gameplay hook")
	ErrUnknownOperator = errors.New("unknown condition operator")
	ErrUnknownEffect   = errors.New("unknown effect type")
	ErrUnknownTrigger  = errors.New("unknown ride trigger type")
)
