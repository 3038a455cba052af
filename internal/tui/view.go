package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/models"
	"github.com/habitdeck/habitdeck/internal/session"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit, StateEditHabit, StateShareHabit:
		content = m.form.View()
	case StateConfirmArchive:
		content = m.viewConfirmArchive()
	default:
		content = m.viewCards()
	}

	var status string
	if m.statusMsg != "" {
		status = warningStyle.Render(m.statusMsg)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	mine, shared := activeTabStyle, inactiveTabStyle
	if m.showShared {
		mine, shared = inactiveTabStyle, activeTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		mine.Render("My Habits"),
		shared.Render("Shared With Me"),
	)
}

func (m Model) viewCards() string {
	habits := m.currentList().Habits()
	if len(habits) == 0 {
		hint := "No habits yet. Press 'a' to add one."
		if m.showShared {
			hint = "Nothing has been shared with you."
		}
		return docStyle.Render(dimStyle.Render(hint))
	}

	var cards []string
	for i, habit := range habits {
		cards = append(cards, m.viewCard(habit, i == m.selected))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, cards...))
}

func (m Model) viewCard(habit models.Habit, selected bool) string {
	card := m.cards[habit.Id]

	title := titleStyle.Render(habit.Name)
	freq := dimStyle.Render(fmt.Sprintf("%dx/week", habit.Frequency))
	header := title + "  " + freq

	if card == nil || !card.Ready() {
		body := lipgloss.JoinVertical(lipgloss.Left,
			header,
			m.spinner.View()+" loading",
		)
		return m.cardFrame(selected).Render(body)
	}

	grid := m.viewGrid(card, selected)

	week := fmt.Sprintf("This Week: %d/%d", card.WeekCount(), habit.Frequency)
	var score string
	if card.ScoreLoading() {
		score = "Score: " + m.spinner.View()
	} else {
		score = fmt.Sprintf("Score: %d", card.Score())
	}
	stats := week + "   " + dimStyle.Render(score)

	lines := []string{header, grid, stats}
	if n := len(card.Pending()); n > 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("%d unsaved change(s), press R to retry", n)))
	}
	return m.cardFrame(selected).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) cardFrame(selected bool) lipgloss.Style {
	if selected {
		return selectedCardStyle
	}
	return cardStyle
}

// viewGrid renders the day-letter header row and the glyph row. The cursor
// is only drawn on the selected card.
func (m Model) viewGrid(card *session.Card, selected bool) string {
	window, err := card.Window()
	if err != nil {
		return dimStyle.Render("window unavailable")
	}

	var labels, glyphs []string
	for i, ds := range window {
		labels = append(labels, dimStyle.Render(dayLetter(ds.Day)))
		g := statusGlyph(ds.Status)
		if selected && i == m.cursor {
			g = cursorStyle.Render(plainGlyph(ds.Status))
		}
		glyphs = append(glyphs, g)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(labels, "  "),
		strings.Join(glyphs, "  "),
	)
}

func (m Model) viewConfirmArchive() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Archive this habit?"),
			"It disappears from your list but keeps its history.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func statusGlyph(s models.Status) string {
	switch s {
	case models.StatusSuccess:
		return successStyle.Render("✓")
	case models.StatusMinimum:
		return minimumStyle.Render("~")
	default:
		return missedStyle.Render("·")
	}
}

func plainGlyph(s models.Status) string {
	switch s {
	case models.StatusSuccess:
		return "✓"
	case models.StatusMinimum:
		return "~"
	default:
		return "·"
	}
}

func dayLetter(day string) string {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "?"
	}
	return t.Weekday().String()[:1]
}
