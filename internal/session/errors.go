package session

import "errors"

var (
	ErrChartNotFound      = errors.New("chart not found")
	ErrInvalidRanking     = errors.New("ranking must list every primitive objective exactly once")
	ErrInvalidOrder       = errors.New("order must list every alternative exactly once")
	ErrInvalidWeight      = errors.New("invalid weight")
	ErrNotCreator         = errors.New("only the chart creator can edit objectives")
	ErrInvalidPreferences = errors.New("preferences failed validation")
)
