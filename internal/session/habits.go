package session

import (
	"github.com/mitchellh/hashstructure/v2"

	"github.com/habitdeck/habitdeck/internal/collection"
	"github.com/habitdeck/habitdeck/internal/logger"
	"github.com/habitdeck/habitdeck/internal/models"
)

func habitName(h models.Habit) string { return h.Name }

// HabitList keeps the session's habits ascending by name. Server order is
// not a contract, so loads re-sort; names need not be unique. The backing
// slice is replaced wholesale on every change and never mutated in place.
type HabitList struct {
	habits      []models.Habit
	fingerprint uint64
}

// NewHabitList returns an empty list.
func NewHabitList() *HabitList {
	return &HabitList{}
}

// Load replaces the list with a fetched set of habits, sorted by name.
func (l *HabitList) Load(habits []models.Habit) {
	sorted := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		sorted = collection.Insert(sorted, habitName, h)
	}
	l.habits = sorted
	l.fingerprint = fingerprint(sorted)
}

// Refresh re-loads from a fetch but skips the swap when the data is
// unchanged, so an unchanged list keeps its identity and the view layer
// sees no difference. Reports whether the list changed.
func (l *HabitList) Refresh(habits []models.Habit) bool {
	sorted := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		sorted = collection.Insert(sorted, habitName, h)
	}

	fp := fingerprint(sorted)
	if fp != 0 && fp == l.fingerprint {
		return false
	}
	l.habits = sorted
	l.fingerprint = fp
	return true
}

// Habits returns the sorted habits. Callers must treat the slice as
// read-only.
func (l *HabitList) Habits() []models.Habit { return l.habits }

// Len is the number of habits held.
func (l *HabitList) Len() int { return len(l.habits) }

// IndexOf finds a habit by id, -1 when absent.
func (l *HabitList) IndexOf(id string) int {
	for i, h := range l.habits {
		if h.Id == id {
			return i
		}
	}
	return -1
}

// Insert adds a habit at its sorted position.
func (l *HabitList) Insert(h models.Habit) {
	l.habits = collection.Insert(l.habits, habitName, h)
	l.fingerprint = fingerprint(l.habits)
}

// Remove drops a habit by id, e.g. after archiving. Reports whether it was
// present.
func (l *HabitList) Remove(id string) bool {
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	l.habits = collection.Remove(l.habits, i)
	l.fingerprint = fingerprint(l.habits)
	return true
}

// Replace swaps a habit for an edited version, re-sorting since the name
// may have changed. Reports whether the habit was present.
func (l *HabitList) Replace(h models.Habit) bool {
	i := l.IndexOf(h.Id)
	if i < 0 {
		return false
	}
	l.habits = collection.Replace(l.habits, habitName, i, h)
	l.fingerprint = fingerprint(l.habits)
	return true
}

func fingerprint(habits []models.Habit) uint64 {
	fp, err := hashstructure.Hash(habits, hashstructure.FormatV2, nil)
	if err != nil {
		// 0 never matches, forcing a rebuild
		logger.Warn("Habit fingerprint failed", "error", err)
		return 0
	}
	return fp
}
