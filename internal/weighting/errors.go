package weighting

import "errors"

var (
	ErrNoPumpMode        = errors.New("pump mode is off")
	ErrNoDragMode        = errors.New("drag mode is off")
	ErrGestureDetached   = errors.New("drag gesture detached")
	ErrDividerOutOfRange = errors.New("divider out of range")
)
