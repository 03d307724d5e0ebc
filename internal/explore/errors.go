package explore

import "errors"

// Sentinel errors returned by the explorer service.
var (
	// ErrNotStarted is returned when the pipeline runs before Start.
	ErrNotStarted = errors.New("explorer service not started")

	// ErrBadSelection is returned for selections the pipeline cannot
	// aggregate, such as an unknown grouping column or metric.
	ErrBadSelection = errors.New("invalid selection")
)
