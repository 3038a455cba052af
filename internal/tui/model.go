package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/habitdeck/habitdeck/internal/client"
	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/models"
	"github.com/habitdeck/habitdeck/internal/session"
)

type SessionState int

const (
	StateCards SessionState = iota
	StateAddHabit
	StateEditHabit
	StateShareHabit
	StateConfirmArchive
)

type HabitFormModel struct {
	Name      string
	Frequency string
}

type ShareFormModel struct {
	UserID string
}

// Model drives the interactive session. All habit and card state lives in
// the session package and is only touched from Update; the network happens
// in commands that report back as messages.
type Model struct {
	svc  client.Service
	opts session.Options

	state   SessionState
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	mine   *session.HabitList
	shared *session.HabitList
	cards  map[string]*session.Card

	showShared bool
	selected   int
	cursor     int // day offset in the window, rightmost is today

	form      *huh.Form
	habitForm *HabitFormModel
	shareForm *ShareFormModel
	editingID string
	archiveID string
	unsharing bool

	statusMsg string
	quitting  bool
	width     int
	height    int
}

func NewModel(svc client.Service, opts session.Options) Model {
	if opts.WindowDays <= 0 {
		opts.WindowDays = constants.WindowDays
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		svc:     svc,
		opts:    opts,
		state:   StateCards,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		mine:    session.NewHabitList(),
		shared:  session.NewHabitList(),
		cards:   make(map[string]*session.Card),
		cursor:  opts.WindowDays - 1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchMyHabits(m.svc),
		fetchSharedHabits(m.svc),
	)
}

func (m Model) currentList() *session.HabitList {
	if m.showShared {
		return m.shared
	}
	return m.mine
}

func (m Model) currentHabit() (models.Habit, bool) {
	habits := m.currentList().Habits()
	if m.selected < 0 || m.selected >= len(habits) {
		return models.Habit{}, false
	}
	return habits[m.selected], true
}

func (m Model) currentCard() *session.Card {
	habit, ok := m.currentHabit()
	if !ok {
		return nil
	}
	return m.cards[habit.Id]
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Toggle, m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.hasFailedWrites() {
		keys = append([]key.Binding{m.keys.Retry}, keys...)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Toggle},
		{m.keys.Add, m.keys.Edit, m.keys.Archive, m.keys.Share, m.keys.Unshare},
		{m.keys.Retry, m.keys.Refresh, m.keys.Tab, m.keys.Help, m.keys.Quit},
	}
}

func (m Model) hasFailedWrites() bool {
	for _, card := range m.cards {
		if len(card.Pending()) > 0 {
			return true
		}
	}
	return false
}
