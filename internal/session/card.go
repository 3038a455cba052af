// Package session owns the in-memory state of one viewing session: the
// sorted habit list and, per habit, a card reconciling optimistic local
// toggles against the remote service. All methods run on the caller's
// event loop; remote calls happen elsewhere and report back through
// ApplyScore, ConfirmWrite and WriteFailed. Every write is stamped with a
// monotonic sequence number so responses arriving out of order can be
// recognized as stale and dropped instead of overwriting fresher state.
package session

import (
	"errors"

	"github.com/habitdeck/habitdeck/internal/client"
	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/models"
	"github.com/habitdeck/habitdeck/internal/timeline"
)

// ScoreUnknown is the sentinel shown while the server-computed score is in
// flight.
const ScoreUnknown = -1

// ErrNotReady is returned when a card is toggled before its activities
// have loaded.
var ErrNotReady = errors.New("activities not loaded yet")

// Options fixes a card's view parameters. Today is threaded in explicitly;
// nothing in the session reads the wall clock.
type Options struct {
	Today      string
	WindowDays int
	Anchor     timeline.Anchor
	WeekStart  models.WeekStart
}

// Write is a sequence-stamped remote mutation the caller must execute
// against the service and report back on.
type Write struct {
	Seq     uint64
	HabitID string
	Day     string
	Status  models.Status
}

// Card is the per-habit session state: the activity window, the running
// weekly count, and the last known score.
type Card struct {
	Habit models.Habit

	opts      Options
	weekStart string
	weekEnd   string

	activities []models.Activity
	weekCount  int
	ready      bool

	score    int
	seq      uint64            // latest issued write
	daySeq   map[string]uint64 // newest write per day
	pending  []Write           // failed writes awaiting retry
	writeErr error
}

// NewCard builds the session state for one habit. Activities arrive later
// through Load.
func NewCard(habit models.Habit, opts Options) (*Card, error) {
	if opts.WindowDays <= 0 {
		opts.WindowDays = constants.WindowDays
	}
	if opts.Anchor == "" {
		opts.Anchor = timeline.AnchorWeek
	}
	if opts.WeekStart == "" {
		opts.WeekStart = models.WeekStartMonday
	}

	weekStart, err := timeline.StartOfWeek(opts.Today, opts.WeekStart)
	if err != nil {
		return nil, err
	}
	weekEnd, err := timeline.AddDays(weekStart, 6)
	if err != nil {
		return nil, err
	}

	return &Card{
		Habit:     habit,
		opts:      opts,
		weekStart: weekStart,
		weekEnd:   weekEnd,
		score:     ScoreUnknown,
		daySeq:    make(map[string]uint64),
	}, nil
}

// FetchQuery is the activity range the card needs: back to the start of
// the display window or the start of the current week, whichever is
// earlier. Stopping at the window used to undercount the week whenever the
// week boundary fell outside the loaded days.
func (c *Card) FetchQuery() (client.ActivityQuery, error) {
	anchor, err := timeline.AnchorDay(c.opts.Today, c.opts.Anchor)
	if err != nil {
		return client.ActivityQuery{}, err
	}
	windowStart, err := timeline.AddDays(anchor, -(c.opts.WindowDays - 1))
	if err != nil {
		return client.ActivityQuery{}, err
	}
	// after is exclusive
	after, err := timeline.AddDays(timeline.MinDay(windowStart, c.weekStart), -1)
	if err != nil {
		return client.ActivityQuery{}, err
	}
	return client.ActivityQuery{After: after}, nil
}

// Load installs a fetched activity page and recomputes the weekly count
// from scratch. The ascending/unique-day contract is re-checked here so a
// bad list can never reach the merge.
func (c *Card) Load(page client.ActivityPage) error {
	if err := timeline.CheckAscending(page.Activities); err != nil {
		return err
	}
	c.activities = page.Activities
	c.weekCount = timeline.WeekCount(c.activities, c.weekStart)
	c.ready = true
	return nil
}

// Ready reports whether activities have loaded.
func (c *Card) Ready() bool { return c.ready }

// Score returns the last applied server score, or ScoreUnknown while a
// fetch is outstanding.
func (c *Card) Score() int { return c.score }

// ScoreLoading reports whether the score sentinel is showing.
func (c *Card) ScoreLoading() bool { return c.score == ScoreUnknown }

// Seq is the sequence number of the latest issued write, for stamping
// score fetches triggered outside SetStatus.
func (c *Card) Seq() uint64 { return c.seq }

// WeekCount is the number of active days so far this week among the loaded
// records.
func (c *Card) WeekCount() int { return c.weekCount }

// Window renders the card's completion grid, oldest day first.
func (c *Card) Window() ([]timeline.DayStatus, error) {
	return timeline.Window(c.activities, c.opts.Today, timeline.WindowOptions{
		Days:   c.opts.WindowDays,
		Anchor: c.opts.Anchor,
	})
}

// Activities returns a copy of the loaded list, ascending by day.
func (c *Card) Activities() []models.Activity {
	out := make([]models.Activity, len(c.activities))
	copy(out, c.activities)
	return out
}

// StatusOn is the displayed status for one day.
func (c *Card) StatusOn(day string) models.Status {
	return timeline.StatusOn(c.activities, day)
}

// Toggle advances the day's status one step around the fixed cycle and
// returns the write to send.
func (c *Card) Toggle(day string) (Write, error) {
	return c.SetStatus(day, c.StatusOn(day).Next())
}

// SetStatus applies a status to local state synchronously — list, weekly
// count, score sentinel — and returns the sequence-stamped remote write.
// The UI shows the result immediately; the server catches up later.
func (c *Card) SetStatus(day string, status models.Status) (Write, error) {
	if !c.ready {
		return Write{}, ErrNotReady
	}
	if err := models.ValidateDay(day); err != nil {
		return Write{}, err
	}

	old := c.StatusOn(day)
	c.activities = timeline.Apply(c.activities, c.Habit.Id, day, status)
	if day >= c.weekStart && day <= c.weekEnd {
		c.weekCount = timeline.CountDelta(c.weekCount, old, status)
	}
	c.score = ScoreUnknown

	c.seq++
	c.daySeq[day] = c.seq
	return Write{Seq: c.seq, HabitID: c.Habit.Id, Day: day, Status: status}, nil
}

// ApplyScore installs a fetched score unless a newer write has been issued
// since the fetch was triggered, in which case the stale value is dropped
// and the sentinel stays up until the newer fetch lands.
func (c *Card) ApplyScore(seq uint64, score int) bool {
	if seq < c.seq {
		return false
	}
	c.score = score
	return true
}

// ConfirmWrite swaps the optimistic local id for the server-assigned one,
// but only when the write is still the newest for its day.
func (c *Card) ConfirmWrite(w Write, id string) bool {
	if c.daySeq[w.Day] != w.Seq {
		return false
	}
	for i, activity := range c.activities {
		if activity.Logged == w.Day {
			if !activity.Local() {
				return false
			}
			out := make([]models.Activity, len(c.activities))
			copy(out, c.activities)
			out[i].Id = id
			c.activities = out
			return true
		}
	}
	return false
}

// WriteFailed records a failed remote write. The optimistic local state
// stays; the write is kept for RetryFailed unless a newer toggle has
// already superseded it for the same day.
func (c *Card) WriteFailed(w Write, err error) {
	if c.daySeq[w.Day] != w.Seq {
		// a newer toggle owns the day now; surfacing this failure would
		// offer a retry with nothing to retry
		return
	}
	c.writeErr = err
	for i, p := range c.pending {
		if p.Day == w.Day {
			c.pending[i] = w
			return
		}
	}
	c.pending = append(c.pending, w)
}

// Pending lists failed writes awaiting retry.
func (c *Card) Pending() []Write {
	out := make([]Write, len(c.pending))
	copy(out, c.pending)
	return out
}

// LastWriteError is the most recent remote write failure, surfaced so the
// view can show a recoverable condition instead of silently diverging.
func (c *Card) LastWriteError() error { return c.writeErr }

// RetryFailed re-stamps every pending write with a fresh sequence number
// and hands them back for re-sending. The score sentinel goes back up
// since the retries will trigger new fetches.
func (c *Card) RetryFailed() []Write {
	if len(c.pending) == 0 {
		return nil
	}

	writes := make([]Write, 0, len(c.pending))
	for _, w := range c.pending {
		c.seq++
		c.daySeq[w.Day] = c.seq
		w.Seq = c.seq
		writes = append(writes, w)
	}
	c.pending = nil
	c.writeErr = nil
	c.score = ScoreUnknown
	return writes
}
