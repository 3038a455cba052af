package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/habitdeck/habitdeck/internal/cli"
	"github.com/habitdeck/habitdeck/internal/client"
	"github.com/habitdeck/habitdeck/internal/constants"
	"github.com/habitdeck/habitdeck/internal/keyring"
	"github.com/habitdeck/habitdeck/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	Server    string `help:"Habit service base URL." env:"HABITDECK_SERVER" default:"${server}"`
	WeekStart string `help:"First day of the week (monday or sunday)." env:"HABITDECK_WEEK_START" default:"monday"`
	Debug     bool   `help:"Enable debug logging to stderr."`

	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit  cli.HabitCmd  `cmd:"" help:"Manage habits and day-by-day tracking."`
	Score  cli.ScoreCmd  `cmd:"" help:"Show a habit's server-computed score."`
	Login  cli.LoginCmd  `cmd:"" help:"Store the API token in the OS keyring."`
	Logout cli.LogoutCmd `cmd:"" help:"Remove the stored API token."`
}

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker client with optimistic day-by-day logging"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"server":  constants.DefaultServerURL,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	weekStart, err := cli.ParseWeekStart(CLI.WeekStart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	token, err := keyring.GetToken()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Keyring unavailable", "error", err)
	}

	appCtx := &cli.Context{
		Service:   client.NewHTTPClient(CLI.Server, token),
		Today:     time.Now().Format(constants.DateFormat),
		WeekStart: weekStart,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppName)
	}
	return "." + constants.AppName
}
