package preference

import "errors"

var (
	ErrElementNotFound           = errors.New("element not found")
	ErrImmutableScoreFunction    = errors.New("score function is immutable")
	ErrInvalidInterpolationRange = errors.New("interpolation anchors must be strictly increasing")
	ErrEmptyObjectiveSet         = errors.New("objective set is empty")
	ErrDuplicateElement          = errors.New("duplicate domain element")
	ErrDuplicateObjective        = errors.New("duplicate objective id")
	ErrObjectiveNotFound         = errors.New("objective not found")
	ErrNotPrimitive              = errors.New("objective is not primitive")
	ErrInvalidObjective          = errors.New("invalid objective")
)
