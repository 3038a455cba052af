// Package client talks to the remote habit service. The Service interface
// is the complete boundary the rest of the application depends on; every
// component that needs the network takes a Service, never a concrete
// client, so tests can substitute a fake.
package client

import (
	"context"

	"github.com/habitdeck/habitdeck/internal/models"
)

// ActivityQuery bounds an activity listing. After and Before are exclusive
// calendar days; zero values mean unbounded. Limit caps the number of
// records returned (0 for the server default).
type ActivityQuery struct {
	After  string
	Before string
	Limit  int
}

// ActivityPage is one page of a habit's activity history, ascending by
// logged day with at most one entry per day. HasMore signals that older
// records exist beyond the page.
type ActivityPage struct {
	Activities []models.Activity
	HasMore    bool
}

// Service is the remote habit/activity/score API. Habit lists come back in
// server-determined order; callers re-sort for display. Activity lists are
// checked against the ascending/unique-day contract before being returned.
// Score values are point-in-time reads with no staleness guarantee.
type Service interface {
	MyHabits(ctx context.Context) ([]models.Habit, error)
	SharedHabits(ctx context.Context) ([]models.Habit, error)
	Activities(ctx context.Context, habitID string, q ActivityQuery) (ActivityPage, error)
	Score(ctx context.Context, habitID string) (int, error)

	// LogActivity records or overwrites the status for one day and
	// returns the server-assigned activity id.
	LogActivity(ctx context.Context, habitID, day string, status models.Status) (string, error)

	CreateHabit(ctx context.Context, name string, frequency int) (string, error)
	UpdateHabit(ctx context.Context, habitID, name string, frequency int) error
	ArchiveHabit(ctx context.Context, habitID string) error
	UnarchiveHabit(ctx context.Context, habitID string) error
	ShareHabit(ctx context.Context, habitID, userID string) error
	UnshareHabit(ctx context.Context, habitID, userID string) error
}
