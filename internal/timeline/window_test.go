package timeline

import (
	"errors"
	"testing"

	"github.com/habitdeck/habitdeck/internal/models"
)

func activity(day string, status models.Status) models.Activity {
	return models.Activity{Id: "srv-" + day, HabitId: "h1", Logged: day, Status: status}
}

func TestWindow_SparseWeek(t *testing.T) {
	today := "2025-03-12"
	activities := []models.Activity{
		activity("2025-03-07", models.StatusMinimum), // today-5
		activity("2025-03-10", models.StatusSuccess), // today-2
		activity("2025-03-12", models.StatusSuccess), // today
	}

	days, err := Window(activities, today, WindowOptions{Days: 7, Anchor: AnchorToday})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	want := []DayStatus{
		{Day: "2025-03-06", Status: models.StatusNotDone},
		{Day: "2025-03-07", Status: models.StatusMinimum},
		{Day: "2025-03-08", Status: models.StatusNotDone},
		{Day: "2025-03-09", Status: models.StatusNotDone},
		{Day: "2025-03-10", Status: models.StatusSuccess},
		{Day: "2025-03-11", Status: models.StatusNotDone},
		{Day: "2025-03-12", Status: models.StatusSuccess},
	}

	if len(days) != len(want) {
		t.Fatalf("Window returned %d days, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, days[i], want[i])
		}
	}
}

func TestWindow_RecordsAfterAnchorDontHideOlderDays(t *testing.T) {
	// A record logged beyond the anchor (e.g. a day marked in advance)
	// must not shadow the in-window records behind it.
	today := "2025-03-12"
	activities := []models.Activity{
		activity("2025-03-10", models.StatusSuccess),
		activity("2025-04-01", models.StatusSuccess), // after the anchor
	}

	days, err := Window(activities, today, WindowOptions{Days: 7, Anchor: AnchorToday})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	for _, d := range days {
		switch d.Day {
		case "2025-03-10":
			if d.Status != models.StatusSuccess {
				t.Errorf("2025-03-10 = %s, want SUCCESS", d.Status)
			}
		case "2025-04-01":
			t.Errorf("out-of-window day %s rendered", d.Day)
		}
	}
}

func TestWindow_WeekAnchorCoversMondayThroughSunday(t *testing.T) {
	// 2025-03-12 is a Wednesday; the Monday-start week around it runs
	// 2025-03-10 through 2025-03-16.
	days, err := Window(nil, "2025-03-12", WindowOptions{Days: 7, Anchor: AnchorWeek})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	if days[0].Day != "2025-03-10" {
		t.Errorf("first day = %s, want 2025-03-10", days[0].Day)
	}
	if days[6].Day != "2025-03-16" {
		t.Errorf("last day = %s, want 2025-03-16", days[6].Day)
	}
}

func TestWindow_EmptyActivities(t *testing.T) {
	days, err := Window(nil, "2025-03-12", WindowOptions{Days: 3, Anchor: AnchorToday})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	for _, d := range days {
		if d.Status != models.StatusNotDone {
			t.Errorf("day %s = %s, want NOT_DONE", d.Day, d.Status)
		}
	}
}

func TestWindow_RejectsUnsortedInput(t *testing.T) {
	tests := []struct {
		name       string
		activities []models.Activity
	}{
		{
			name: "descending",
			activities: []models.Activity{
				activity("2025-03-12", models.StatusSuccess),
				activity("2025-03-10", models.StatusSuccess),
			},
		},
		{
			name: "duplicate day",
			activities: []models.Activity{
				activity("2025-03-10", models.StatusSuccess),
				activity("2025-03-10", models.StatusMinimum),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Window(tt.activities, "2025-03-12", WindowOptions{Days: 7})
			if !errors.Is(err, models.ErrUnorderedActivities) {
				t.Errorf("Window error = %v, want ErrUnorderedActivities", err)
			}
		})
	}
}

func TestWindow_RejectsBadToday(t *testing.T) {
	if _, err := Window(nil, "12/03/2025", WindowOptions{Days: 7}); !errors.Is(err, models.ErrInvalidDay) {
		t.Errorf("Window error = %v, want ErrInvalidDay", err)
	}
}
