package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mchmarny/benford/pkg/auth"
	urfave "github.com/urfave/cli/v3"
)

const (
	saveTokenFlagName  = "token"
	clearTokenFlagName = "clear"
)

func newAuthCmd() *urfave.Command {
	return &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Save the bearer token used to fetch remote datasets",
		UsageText: `benford auth --token "$API_TOKEN"   # save token to OS keychain
   benford auth --clear                # remove saved token`,
		Action: cmdAuth,
		Flags: []urfave.Flag{
			&urfave.StringFlag{
				Name:  saveTokenFlagName,
				Usage: "Bearer token to save for remote datasets",
			},
			&urfave.BoolFlag{
				Name:  clearTokenFlagName,
				Usage: "Remove the saved token",
			},
		},
	}
}

func cmdAuth(_ context.Context, cmd *urfave.Command) error {
	store := auth.NewTokenStore(getConfig(cmd).Dir)
	w := writer(cmd)

	if cmd.Bool(clearTokenFlagName) {
		if err := store.Delete(); err != nil {
			return fmt.Errorf("removing token: %w", err)
		}
		return say(w, "Token removed")
	}

	token := cmd.String(saveTokenFlagName)
	if token == "" {
		return urfave.ShowSubcommandHelp(cmd)
	}

	if err := store.Save(token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return say(w, "Token saved")
}

func say(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}
