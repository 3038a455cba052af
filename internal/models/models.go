package models

import (
	"time"

	"github.com/habitdeck/habitdeck/internal/constants"
)

// Habit represents a recurring goal with a target weekly frequency. The
// field names match the service's JSON encoding.
type Habit struct {
	Id          string
	Owner       string
	SharedWith  map[string]struct{}
	Name        string
	Frequency   int
	Description string
	Archived    bool
}

// Activity is one day's recorded completion status for a habit. Logged is a
// calendar day in YYYY-MM-DD form; lexicographic order is chronological
// order, which the ordered-collection code relies on.
type Activity struct {
	Id      string
	HabitId string
	Logged  string
	Status  Status
}

// Local reports whether the activity was created optimistically and has not
// yet been assigned an id by the server.
func (a Activity) Local() bool {
	return a.Id == constants.LocalActivityID
}

// Status is a day's completion state.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusMinimum Status = "MINIMUM"
	StatusNotDone Status = "NOT_DONE"
)

// Next returns the status a single click advances to. The cycle is fixed:
// NOT_DONE -> SUCCESS -> MINIMUM -> NOT_DONE.
func (s Status) Next() Status {
	switch s {
	case StatusNotDone:
		return StatusSuccess
	case StatusSuccess:
		return StatusMinimum
	default:
		return StatusNotDone
	}
}

// Active reports whether the status counts toward the weekly total.
func (s Status) Active() bool {
	return s != StatusNotDone && s != ""
}

// Valid reports whether s is one of the three recognized statuses.
func (s Status) Valid() bool {
	return s == StatusSuccess || s == StatusMinimum || s == StatusNotDone
}

// WeekStart selects the calendar convention for the start of a week.
type WeekStart string

const (
	WeekStartSunday WeekStart = "sunday"
	WeekStartMonday WeekStart = "monday"
)

// ValidateFrequency rejects a weekly frequency outside [1,7]. Callers must
// check before applying any local mutation or remote call.
func ValidateFrequency(frequency int) error {
	if frequency < constants.MinFrequency || frequency > constants.MaxFrequency {
		return ErrFrequencyRange
	}
	return nil
}

// ValidateDay rejects strings that are not calendar days in YYYY-MM-DD form.
func ValidateDay(day string) error {
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return ErrInvalidDay
	}
	return nil
}
