package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/habitdeck/habitdeck/internal/models"
)

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Times per week (1-7)").
				Value(&fm.Frequency).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("frequency must be a number")
					}
					return models.ValidateFrequency(i)
				}),
		),
	)
}

func NewShareForm(fm *ShareFormModel, remove bool) *huh.Form {
	title := "Share with (user id)"
	if remove {
		title = "Stop sharing with (user id)"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&fm.UserID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("user id cannot be empty")
					}
					return nil
				}),
		),
	)
}

func (fm *HabitFormModel) frequency() int {
	i, err := strconv.Atoi(strings.TrimSpace(fm.Frequency))
	if err != nil {
		return 0
	}
	return i
}
