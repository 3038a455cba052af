package cli

import (
	"context"
	"fmt"
)

type ScoreCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *ScoreCmd) Run(ctx *Context) error {
	habit, err := FindMyHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	score, err := ctx.Service.Score(context.Background(), habit.Id)
	if err != nil {
		return err
	}

	fmt.Printf("%d\n", score)
	return nil
}
