package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/muhammadolammi/resumeclone/internal/config"
)

func newAskCmd(cfg *config.Config, logger *zerolog.Logger) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), *cfg, *logger)
			if err != nil {
				return err
			}

			answer := app.Session.Respond(cmd.Context(), strings.Join(args, " "), nil)
			if !raw {
				answer = renderTerminal(answer)
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the answer without markdown rendering")
	return cmd
}

// renderTerminal formats markdown for the terminal, falling back to the raw
// text when rendering fails.
func renderTerminal(markdown string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return markdown
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}
