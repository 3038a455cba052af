package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/habitdeck/habitdeck/internal/client"
	"github.com/habitdeck/habitdeck/internal/models"
	"github.com/habitdeck/habitdeck/internal/session"
)

const requestTimeout = 10 * time.Second

type myHabitsMsg struct {
	habits []models.Habit
	err    error
}

type sharedHabitsMsg struct {
	habits []models.Habit
	err    error
}

type activitiesMsg struct {
	habitID string
	page    client.ActivityPage
	err     error
}

// scoreMsg carries the write sequence the fetch was issued for, so the
// card can drop it if a newer toggle has happened since.
type scoreMsg struct {
	habitID string
	seq     uint64
	score   int
	err     error
}

type writeResultMsg struct {
	habitID string
	write   session.Write
	id      string
	err     error
}

type habitSavedMsg struct {
	err error
}

type habitArchivedMsg struct {
	habitID string
	err     error
}

type habitSharedMsg struct {
	habitID string
	userID  string
	removed bool
	err     error
}

func fetchMyHabits(svc client.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		habits, err := svc.MyHabits(ctx)
		return myHabitsMsg{habits: habits, err: err}
	}
}

func fetchSharedHabits(svc client.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		habits, err := svc.SharedHabits(ctx)
		return sharedHabitsMsg{habits: habits, err: err}
	}
}

func fetchActivities(svc client.Service, habitID string, q client.ActivityQuery) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := svc.Activities(ctx, habitID, q)
		return activitiesMsg{habitID: habitID, page: page, err: err}
	}
}

func fetchScore(svc client.Service, habitID string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		score, err := svc.Score(ctx, habitID)
		return scoreMsg{habitID: habitID, seq: seq, score: score, err: err}
	}
}

func postWrite(svc client.Service, w session.Write) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		id, err := svc.LogActivity(ctx, w.HabitID, w.Day, w.Status)
		return writeResultMsg{habitID: w.HabitID, write: w, id: id, err: err}
	}
}

// saveHabit creates when habitID is empty, updates otherwise.
func saveHabit(svc client.Service, habitID, name string, frequency int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if habitID == "" {
			_, err := svc.CreateHabit(ctx, name, frequency)
			return habitSavedMsg{err: err}
		}
		return habitSavedMsg{err: svc.UpdateHabit(ctx, habitID, name, frequency)}
	}
}

func archiveHabit(svc client.Service, habitID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return habitArchivedMsg{habitID: habitID, err: svc.ArchiveHabit(ctx, habitID)}
	}
}

func setShare(svc client.Service, habitID, userID string, remove bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var err error
		if remove {
			err = svc.UnshareHabit(ctx, habitID, userID)
		} else {
			err = svc.ShareHabit(ctx, habitID, userID)
		}
		return habitSharedMsg{habitID: habitID, userID: userID, removed: remove, err: err}
	}
}
