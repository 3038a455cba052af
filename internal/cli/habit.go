package cli

import (
	"context"
	"fmt"

	"github.com/habitdeck/habitdeck/internal/models"
	"github.com/habitdeck/habitdeck/internal/session"
	"github.com/habitdeck/habitdeck/internal/timeline"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Create a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Edit      HabitEditCmd      `cmd:"" help:"Rename a habit or change its frequency."`
	Mark      HabitMarkCmd      `cmd:"" help:"Toggle or set a day's status."`
	Log       HabitLogCmd       `cmd:"" help:"Show the weekly completion grid."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Unarchive a habit."`
	Share     HabitShareCmd     `cmd:"" help:"Share a habit with another user."`
	Unshare   HabitUnshareCmd   `cmd:"" help:"Stop sharing a habit with a user."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Frequency int    `help:"Target days per week (1-7)." default:"7"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := models.ValidateFrequency(c.Frequency); err != nil {
		return err
	}

	id, err := ctx.Service.CreateHabit(context.Background(), c.Name, c.Frequency)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit %q (%s)\n", c.Name, id)
	return nil
}

type HabitListCmd struct {
	Shared bool `help:"List habits shared with you instead of your own."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	var habits []models.Habit
	var err error
	if c.Shared {
		habits, err = ctx.Service.SharedHabits(context.Background())
	} else {
		habits, err = ctx.Service.MyHabits(context.Background())
	}
	if err != nil {
		return err
	}

	list := session.NewHabitList()
	list.Load(habits)

	if list.Len() == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range list.Habits() {
		owner := ""
		if c.Shared {
			owner = fmt.Sprintf("  (owner: %s)", habit.Owner)
		}
		fmt.Printf("%s  %d/week%s\n", habit.Name, habit.Frequency, owner)
	}
	return nil
}

type HabitEditCmd struct {
	Name      string `arg:"" help:"Habit name."`
	NewName   string `help:"New name for the habit."`
	Frequency int    `help:"New target days per week (1-7)." default:"0"`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := FindMyHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	name := habit.Name
	if c.NewName != "" {
		name = c.NewName
	}
	frequency := habit.Frequency
	if c.Frequency != 0 {
		frequency = c.Frequency
	}
	if err := models.ValidateFrequency(frequency); err != nil {
		return err
	}

	if err := ctx.Service.UpdateHabit(context.Background(), habit.Id, name, frequency); err != nil {
		return err
	}

	fmt.Printf("Updated habit %q\n", name)
	return nil
}

type HabitMarkCmd struct {
	Name   string `arg:"" help:"Habit name."`
	Date   string `help:"Day in YYYY-MM-DD format (default: today)." default:""`
	Status string `help:"Set an explicit status (success, minimum, not_done) instead of cycling."`
}

func (c *HabitMarkCmd) Run(ctx *Context) error {
	habit, err := FindMyHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = ctx.Today
	}
	if err := models.ValidateDay(day); err != nil {
		return err
	}

	card, err := loadCard(ctx, habit)
	if err != nil {
		return err
	}

	var write session.Write
	if c.Status != "" {
		status, err := ParseStatus(c.Status)
		if err != nil {
			return err
		}
		write, err = card.SetStatus(day, status)
		if err != nil {
			return err
		}
	} else {
		write, err = card.Toggle(day)
		if err != nil {
			return err
		}
	}

	id, err := ctx.Service.LogActivity(context.Background(), habit.Id, write.Day, write.Status)
	if err != nil {
		card.WriteFailed(write, err)
		return fmt.Errorf("recording %s for %s: %w", write.Status, write.Day, err)
	}
	card.ConfirmWrite(write, id)

	fmt.Printf("Marked %q %s for %s (this week: %d/%d)\n",
		habit.Name, write.Status, write.Day, card.WeekCount(), habit.Frequency)

	if score, err := ctx.Service.Score(context.Background(), habit.Id); err == nil {
		card.ApplyScore(write.Seq, score)
		fmt.Printf("Score: %d\n", card.Score())
	}
	return nil
}

type HabitLogCmd struct {
	Habit string `help:"Show the grid for one habit only."`
	Today bool   `help:"Anchor the window on today instead of the current week."`
}

func (c *HabitLogCmd) Run(ctx *Context) error {
	habits, err := ctx.Service.MyHabits(context.Background())
	if err != nil {
		return err
	}

	list := session.NewHabitList()
	list.Load(habits)

	selected := list.Habits()
	if c.Habit != "" {
		i := -1
		for j, h := range selected {
			if h.Name == c.Habit {
				i = j
				break
			}
		}
		if i < 0 {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
		selected = selected[i : i+1]
	}
	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	anchor := timeline.AnchorWeek
	if c.Today {
		anchor = timeline.AnchorToday
	}

	printedHeader := false
	for _, habit := range selected {
		card, err := loadCardAnchored(ctx, habit, anchor)
		if err != nil {
			return err
		}
		window, err := card.Window()
		if err != nil {
			return err
		}

		if !printedHeader {
			fmt.Printf("%-20s", "Habit")
			for _, d := range window {
				fmt.Printf(" %5s", d.Day[5:]) // MM-DD
			}
			fmt.Printf("  week\n")
			printedHeader = true
		}

		name := habit.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Printf("%-20s", name)
		for _, d := range window {
			fmt.Printf(" %5s", StatusGlyph(d.Status))
		}
		fmt.Printf("  %d/%d\n", card.WeekCount(), habit.Frequency)
	}
	return nil
}

type HabitArchiveCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, err := FindMyHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Service.ArchiveHabit(context.Background(), habit.Id); err != nil {
		return err
	}
	fmt.Printf("Archived habit %q (%s)\n", habit.Name, habit.Id)
	return nil
}

// Archived habits drop out of the owned listing, so unarchive takes the id
// (printed by `habit archive`) rather than a name lookup.
type HabitUnarchiveCmd struct {
	ID string `arg:"" help:"Habit id."`
}

func (c *HabitUnarchiveCmd) Run(ctx *Context) error {
	if err := ctx.Service.UnarchiveHabit(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Unarchived habit %s\n", c.ID)
	return nil
}

type HabitShareCmd struct {
	Name string `arg:"" help:"Habit name."`
	User string `arg:"" help:"User id to share with."`
}

func (c *HabitShareCmd) Run(ctx *Context) error {
	habit, err := FindMyHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Service.ShareHabit(context.Background(), habit.Id, c.User); err != nil {
		return err
	}
	fmt.Printf("Shared habit %q with %s\n", habit.Name, c.User)
	return nil
}

type HabitUnshareCmd struct {
	Name string `arg:"" help:"Habit name."`
	User string `arg:"" help:"User id to stop sharing with."`
}

func (c *HabitUnshareCmd) Run(ctx *Context) error {
	habit, err := FindMyHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Service.UnshareHabit(context.Background(), habit.Id, c.User); err != nil {
		return err
	}
	fmt.Printf("Stopped sharing habit %q with %s\n", habit.Name, c.User)
	return nil
}

func loadCard(ctx *Context, habit models.Habit) (*session.Card, error) {
	return loadCardAnchored(ctx, habit, timeline.AnchorToday)
}

func loadCardAnchored(ctx *Context, habit models.Habit, anchor timeline.Anchor) (*session.Card, error) {
	card, err := session.NewCard(habit, session.Options{
		Today:     ctx.Today,
		Anchor:    anchor,
		WeekStart: ctx.WeekStart,
	})
	if err != nil {
		return nil, err
	}

	query, err := card.FetchQuery()
	if err != nil {
		return nil, err
	}
	page, err := ctx.Service.Activities(context.Background(), habit.Id, query)
	if err != nil {
		return nil, err
	}
	if err := card.Load(page); err != nil {
		return nil, err
	}
	return card, nil
}
