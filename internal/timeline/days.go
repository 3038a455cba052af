// Package timeline holds the pure day-window logic behind a habit card: it
// merges sparse activity records onto a fixed span of calendar days, applies
// status toggles without re-sorting, and keeps the running weekly count.
// Nothing here reads the wall clock; "today" is always passed in.
package timeline

import (
	"time"

	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/models"
)

func parseDay(day string) (time.Time, error) {
	return time.Parse(constants.DateFormat, day)
}

// AddDays shifts a calendar day by n days (n may be negative).
func AddDays(day string, n int) (string, error) {
	t, err := parseDay(day)
	if err != nil {
		return "", models.ErrInvalidDay
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// MinDay returns the earlier of two calendar days. Days compare
// lexicographically in YYYY-MM-DD form.
func MinDay(a, b string) string {
	if a < b {
		return a
	}
	return b
}

// CheckAscending verifies the contract every merge in this package depends
// on: activities strictly ascending by logged day, so at most one entry per
// day. Violations mean a corrupt server response or a bookkeeping bug and
// must be rejected before the list is used.
func CheckAscending(activities []models.Activity) error {
	for i := 1; i < len(activities); i++ {
		if activities[i-1].Logged >= activities[i].Logged {
			return models.ErrUnorderedActivities
		}
	}
	return nil
}
