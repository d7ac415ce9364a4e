package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/muhammadolammi/resumeclone/internal/config"
)

func newContextCmd(cfg *config.Config, logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Print the system context sent with every question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), *cfg, *logger)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.Session.Context())
			return nil
		},
	}
}
