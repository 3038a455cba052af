package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/habitdeck/habitdeck/internal/logger"
	"github.com/habitdeck/habitdeck/internal/models"
	"github.com/habitdeck/habitdeck/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case myHabitsMsg:
		return m.handleMyHabits(msg)
	case sharedHabitsMsg:
		return m.handleSharedHabits(msg)
	case activitiesMsg:
		return m.handleActivities(msg)
	case scoreMsg:
		return m.handleScore(msg)
	case writeResultMsg:
		return m.handleWriteResult(msg)
	case habitSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}
		m.statusMsg = ""
		return m, fetchMyHabits(m.svc)
	case habitArchivedMsg:
		return m.handleArchived(msg)
	case habitSharedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Share change failed: %v", msg.err)
			return m, nil
		}
		if msg.removed {
			m.statusMsg = fmt.Sprintf("No longer shared with %s", msg.userID)
		} else {
			m.statusMsg = fmt.Sprintf("Shared with %s", msg.userID)
		}
		return m, fetchMyHabits(m.svc)
	}

	switch m.state {
	case StateAddHabit, StateEditHabit:
		return m.updateHabitForm(msg)
	case StateShareHabit:
		return m.updateShareForm(msg)
	case StateConfirmArchive:
		return m.updateConfirmArchive(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleCardKeys(keyMsg)
	}
	return m, nil
}

func (m Model) handleCardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.showShared = !m.showShared
		m.selected = clamp(m.selected, m.currentList().Len())
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.currentList().Len()-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.cursor < m.opts.WindowDays-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()

	case key.Matches(msg, m.keys.Add):
		if m.showShared {
			return m, nil
		}
		m.habitForm = &HabitFormModel{Frequency: "1"}
		m.form = NewHabitForm(m.habitForm)
		m.editingID = ""
		m.state = StateAddHabit
		m.statusMsg = ""
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		habit, ok := m.currentHabit()
		if !ok || m.showShared {
			return m, nil
		}
		m.habitForm = &HabitFormModel{
			Name:      habit.Name,
			Frequency: strconv.Itoa(habit.Frequency),
		}
		m.form = NewHabitForm(m.habitForm)
		m.editingID = habit.Id
		m.state = StateEditHabit
		m.statusMsg = ""
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Archive):
		habit, ok := m.currentHabit()
		if !ok || m.showShared {
			return m, nil
		}
		m.archiveID = habit.Id
		m.state = StateConfirmArchive
		return m, nil

	case key.Matches(msg, m.keys.Share), key.Matches(msg, m.keys.Unshare):
		habit, ok := m.currentHabit()
		if !ok || m.showShared {
			return m, nil
		}
		m.shareForm = &ShareFormModel{}
		m.unsharing = key.Matches(msg, m.keys.Unshare)
		m.form = NewShareForm(m.shareForm, m.unsharing)
		m.editingID = habit.Id
		m.state = StateShareHabit
		m.statusMsg = ""
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Retry):
		return m.retryFailedWrites()

	case key.Matches(msg, m.keys.Refresh):
		return m.refreshAll()
	}
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	if m.showShared {
		m.statusMsg = "Shared habits are read-only here"
		return m, nil
	}
	card := m.currentCard()
	if card == nil || !card.Ready() {
		return m, nil
	}

	window, err := card.Window()
	if err != nil || m.cursor >= len(window) {
		return m, nil
	}
	day := window[m.cursor].Day

	w, err := card.Toggle(day)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Toggle failed: %v", err)
		return m, nil
	}
	m.statusMsg = ""
	return m, postWrite(m.svc, w)
}

func (m Model) retryFailedWrites() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, card := range m.cards {
		for _, w := range card.RetryFailed() {
			cmds = append(cmds, postWrite(m.svc, w))
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	m.statusMsg = "Retrying failed writes…"
	return m, tea.Batch(cmds...)
}

// refreshAll re-fetches both lists and every loaded card. Unconfirmed
// optimistic entries are replaced by whatever the server returns.
func (m Model) refreshAll() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{fetchMyHabits(m.svc), fetchSharedHabits(m.svc)}
	for id, card := range m.cards {
		q, err := card.FetchQuery()
		if err != nil {
			continue
		}
		cmds = append(cmds, fetchActivities(m.svc, id, q))
		cmds = append(cmds, fetchScore(m.svc, id, card.Seq()))
	}
	m.statusMsg = "Refreshing…"
	return m, tea.Batch(cmds...)
}

func (m Model) updateHabitForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateCards
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateCards
		cmds = append(cmds, saveHabit(m.svc, m.editingID, m.habitForm.Name, m.habitForm.frequency()))
	case huh.StateAborted:
		m.state = StateCards
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateShareForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateCards
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateCards
		cmds = append(cmds, setShare(m.svc, m.editingID, m.shareForm.UserID, m.unsharing))
	case huh.StateAborted:
		m.state = StateCards
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirmArchive(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.state = StateCards
		return m, archiveHabit(m.svc, m.archiveID)
	case "n", "N", "esc", "q":
		m.state = StateCards
		m.archiveID = ""
	}
	return m, nil
}

func (m Model) handleMyHabits(msg myHabitsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = fmt.Sprintf("Could not load habits: %v", msg.err)
		return m, nil
	}
	m.mine.Refresh(msg.habits)
	m.selected = clamp(m.selected, m.currentList().Len())
	return m, tea.Batch(m.ensureCards(msg.habits)...)
}

func (m Model) handleSharedHabits(msg sharedHabitsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = fmt.Sprintf("Could not load shared habits: %v", msg.err)
		return m, nil
	}
	m.shared.Refresh(msg.habits)
	m.selected = clamp(m.selected, m.currentList().Len())
	return m, tea.Batch(m.ensureCards(msg.habits)...)
}

// ensureCards builds a card for every habit that doesn't have one and
// kicks off its activity and score fetches. Existing cards get their habit
// metadata refreshed in place.
func (m *Model) ensureCards(habits []models.Habit) []tea.Cmd {
	var cmds []tea.Cmd
	for _, h := range habits {
		if card, ok := m.cards[h.Id]; ok {
			card.Habit = h
			continue
		}

		card, err := session.NewCard(h, m.opts)
		if err != nil {
			logger.Error("Card setup failed", "habit", h.Id, "error", err)
			continue
		}
		q, err := card.FetchQuery()
		if err != nil {
			logger.Error("Fetch query failed", "habit", h.Id, "error", err)
			continue
		}
		m.cards[h.Id] = card
		cmds = append(cmds, fetchActivities(m.svc, h.Id, q))
		cmds = append(cmds, fetchScore(m.svc, h.Id, 0))
	}
	return cmds
}

func (m Model) handleActivities(msg activitiesMsg) (tea.Model, tea.Cmd) {
	card, ok := m.cards[msg.habitID]
	if !ok {
		return m, nil
	}
	if msg.err != nil {
		m.statusMsg = fmt.Sprintf("Could not load activities: %v", msg.err)
		return m, nil
	}
	if err := card.Load(msg.page); err != nil {
		m.statusMsg = fmt.Sprintf("Bad activity data: %v", err)
	}
	return m, nil
}

func (m Model) handleScore(msg scoreMsg) (tea.Model, tea.Cmd) {
	card, ok := m.cards[msg.habitID]
	if !ok || msg.err != nil {
		// the sentinel stays up; the next confirmed write refetches
		return m, nil
	}
	card.ApplyScore(msg.seq, msg.score)
	return m, nil
}

func (m Model) handleWriteResult(msg writeResultMsg) (tea.Model, tea.Cmd) {
	card, ok := m.cards[msg.habitID]
	if !ok {
		return m, nil
	}
	if msg.err != nil {
		card.WriteFailed(msg.write, msg.err)
		m.statusMsg = fmt.Sprintf("Write failed: %v (press R to retry)", msg.err)
		return m, nil
	}
	if !card.ConfirmWrite(msg.write, msg.id) {
		// a newer write for the day is still in flight; its own
		// completion triggers the score fetch
		return m, nil
	}
	// stamped with the write's sequence, not the card's latest: a score
	// fetched now cannot reflect any newer in-flight write
	return m, fetchScore(m.svc, msg.habitID, msg.write.Seq)
}

func (m Model) handleArchived(msg habitArchivedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = fmt.Sprintf("Archive failed: %v", msg.err)
		return m, nil
	}
	m.mine.Remove(msg.habitID)
	delete(m.cards, msg.habitID)
	m.selected = clamp(m.selected, m.currentList().Len())
	m.statusMsg = "Habit archived"
	return m, nil
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
