package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/habitdeck/habitdeck/internal/client"
	"github.com/habitdeck/habitdeck/internal/models"
)

// Context carries what every command needs: the remote service, the
// current day, and the week convention. Today is resolved once at startup
// so the whole run sees one consistent day.
type Context struct {
	Service   client.Service
	Today     string
	WeekStart models.WeekStart
}

// ParseWeekStart maps a flag value to a week convention.
func ParseWeekStart(s string) (models.WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monday", "mon":
		return models.WeekStartMonday, nil
	case "sunday", "sun":
		return models.WeekStartSunday, nil
	default:
		return "", fmt.Errorf("invalid week start: %s (use monday or sunday)", s)
	}
}

// ParseStatus maps a flag value to an activity status.
func ParseStatus(s string) (models.Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SUCCESS", "DONE":
		return models.StatusSuccess, nil
	case "MINIMUM", "MIN":
		return models.StatusMinimum, nil
	case "NOT_DONE", "SKIP", "NONE":
		return models.StatusNotDone, nil
	default:
		return "", fmt.Errorf("invalid status: %s (use success, minimum or not_done)", s)
	}
}

// StatusGlyph is the single-character rendering of a day's status in text
// output.
func StatusGlyph(status models.Status) string {
	switch status {
	case models.StatusSuccess:
		return "✓"
	case models.StatusMinimum:
		return "~"
	default:
		return "·"
	}
}

// FindMyHabit resolves a habit the user owns by exact name.
func FindMyHabit(ctx *Context, name string) (models.Habit, error) {
	habits, err := ctx.Service.MyHabits(context.Background())
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", name)
}
