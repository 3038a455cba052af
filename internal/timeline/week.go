package timeline

import (
	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/models"
)

// StartOfWeek returns the first day of the week containing today under the
// given convention. Monday weeks use the original display arithmetic: the
// most recent calendar Sunday plus one day, so on a Sunday the Monday week
// has not started yet and the count resets.
func StartOfWeek(today string, weekStart models.WeekStart) (string, error) {
	t, err := parseDay(today)
	if err != nil {
		return "", models.ErrInvalidDay
	}

	sunday := t.AddDate(0, 0, -int(t.Weekday()))
	if weekStart == models.WeekStartMonday {
		sunday = sunday.AddDate(0, 0, 1)
	}
	return sunday.Format(constants.DateFormat), nil
}

// WeekCount counts the days with an active status (anything but NOT_DONE)
// inside the seven-day week beginning at weekStart. It scans the loaded
// window from the most recent record backward and stops at the first day
// before the boundary, relying on the list's ascending order; records
// beyond the week's last day (logged in advance) are skipped, not counted.
// Days outside the loaded window are treated as absent, so the caller must
// load at least back to weekStart.
func WeekCount(activities []models.Activity, weekStart string) int {
	weekEnd, err := AddDays(weekStart, 6)
	if err != nil {
		return 0
	}

	count := 0
	for i := len(activities) - 1; i >= 0; i-- {
		day := activities[i].Logged
		if day < weekStart {
			break
		}
		if day > weekEnd {
			continue
		}
		if activities[i].Status.Active() {
			count++
		}
	}
	return count
}

// CountDelta adjusts a running weekly count for one status change. Only
// crossing the NOT_DONE boundary moves the count; MINIMUM and SUCCESS are
// both "active" days. Applied after every toggle, the result always matches
// a full WeekCount recount over the same window.
func CountDelta(count int, oldStatus, newStatus models.Status) int {
	switch {
	case !oldStatus.Active() && newStatus.Active():
		return count + 1
	case oldStatus.Active() && !newStatus.Active():
		return count - 1
	default:
		return count
	}
}
