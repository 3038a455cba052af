package timeline

import (
	"fmt"

	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/models"
)

// Anchor selects the most recent day of the rendered window.
type Anchor string

const (
	// AnchorToday ends the window on the current day.
	AnchorToday Anchor = "today"

	// AnchorWeek ends the window on the Sunday that closes the
	// Monday-start week containing today: the most recent calendar Sunday
	// shifted seven days forward. This keeps a seven-day window aligned
	// Monday through Sunday.
	AnchorWeek Anchor = "week"
)

// WindowOptions configures the merged day window.
type WindowOptions struct {
	Days   int
	Anchor Anchor
}

// DayStatus is one cell of the completion grid.
type DayStatus struct {
	Day    string
	Status models.Status
}

// AnchorDay resolves the most recent day of a window anchored at today.
func AnchorDay(today string, anchor Anchor) (string, error) {
	t, err := parseDay(today)
	if err != nil {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidDay, today)
	}
	if anchor == AnchorWeek {
		// Most recent Sunday, then one week forward.
		t = t.AddDate(0, 0, -int(t.Weekday())+7)
	}
	return t.Format(constants.DateFormat), nil
}

// Window merges a sparse ascending activity list onto the Days consecutive
// calendar days ending at the anchor, oldest day first. Days without a
// record are NOT_DONE. The walk runs newest-to-oldest with one pointer into
// each sequence; an activity is consumed only on an exact day match, which
// is correct because both sequences descend and activities carry at most
// one entry per day — CheckAscending enforces that up front.
func Window(activities []models.Activity, today string, opts WindowOptions) ([]DayStatus, error) {
	if opts.Days <= 0 {
		opts.Days = constants.WindowDays
	}
	if err := CheckAscending(activities); err != nil {
		return nil, err
	}

	anchor, err := AnchorDay(today, opts.Anchor)
	if err != nil {
		return nil, err
	}
	first, _ := parseDay(anchor)

	days := make([]DayStatus, opts.Days)
	i := len(activities) - 1
	// records logged after the anchor fall outside the window; consume
	// them first or the pointer stalls and every older day reads NOT_DONE
	for i >= 0 && activities[i].Logged > anchor {
		i--
	}
	for d := 0; d < opts.Days; d++ {
		day := first.AddDate(0, 0, -d).Format(constants.DateFormat)
		status := models.StatusNotDone
		if i >= 0 && activities[i].Logged == day {
			status = activities[i].Status
			i--
		}
		// oldest-first for display
		days[opts.Days-1-d] = DayStatus{Day: day, Status: status}
	}

	return days, nil
}
