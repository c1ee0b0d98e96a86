package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/session"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/internal/config"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the account session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logout(cmd.Context(), cfg, cmd.OutOrStdout())
		return nil
	},
}

func logout(ctx context.Context, cfg *config.Config, out io.Writer) {
	client := newSessionClient(cfg, session.NewHTTPClient())
	client.Logout(ctx, func() {
		fmt.Fprintln(out, "Logged out.")
	})
}
