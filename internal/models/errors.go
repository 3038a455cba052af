package models

import "errors"

var (
	// ErrFrequencyRange is returned when a habit frequency falls outside
	// the allowed 1..7 days per week.
	ErrFrequencyRange = errors.New("frequency must be between 1 and 7")

	// ErrInvalidDay is returned when a calendar day is not in YYYY-MM-DD
	// form.
	ErrInvalidDay = errors.New("day must be in YYYY-MM-DD format")

	// ErrUnorderedActivities is returned when an activity list breaks the
	// ascending-by-day, one-entry-per-day contract. Merging such a list
	// would silently corrupt the completion grid, so it is rejected.
	ErrUnorderedActivities = errors.New("activity list is not ascending with unique days")
)
