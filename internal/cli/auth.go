package cli

import (
	"fmt"

	"github.com/habitdeck/habitdeck/internal/keyring"
)

type LoginCmd struct {
	Token string `arg:"" help:"API token for the habit service."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	if err := keyring.SetToken(c.Token); err != nil {
		return err
	}
	fmt.Println("Token stored in OS keyring.")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := keyring.DeleteToken(); err != nil {
		return err
	}
	fmt.Println("Token removed from OS keyring.")
	return nil
}
