package timeline

import (
	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/models"
)

// Apply records a status for one day and returns the updated list, keeping
// it ascending with a single forward scan rather than a re-sort. The input
// slice is never modified; when the toggle is a no-op (same status already
// recorded) the input is returned unchanged so callers comparing values see
// no difference.
func Apply(activities []models.Activity, habitID, day string, status models.Status) []models.Activity {
	for i, activity := range activities {
		if activity.Logged == day {
			if activity.Status == status {
				return activities
			}
			out := make([]models.Activity, len(activities))
			copy(out, activities)
			out[i].Status = status
			return out
		}
		if activity.Logged > day {
			// day falls before this record; splice a new local one in
			out := make([]models.Activity, 0, len(activities)+1)
			out = append(out, activities[:i]...)
			out = append(out, localActivity(habitID, day, status))
			out = append(out, activities[i:]...)
			return out
		}
	}

	// day is the most recent of all records
	out := make([]models.Activity, 0, len(activities)+1)
	out = append(out, activities...)
	out = append(out, localActivity(habitID, day, status))
	return out
}

// StatusOn looks up the recorded status for a day; a day with no record is
// NOT_DONE.
func StatusOn(activities []models.Activity, day string) models.Status {
	for _, activity := range activities {
		if activity.Logged == day {
			return activity.Status
		}
		if activity.Logged > day {
			break
		}
	}
	return models.StatusNotDone
}

func localActivity(habitID, day string, status models.Status) models.Activity {
	return models.Activity{
		Id:      constants.LocalActivityID,
		HabitId: habitID,
		Logged:  day,
		Status:  status,
	}
}
