package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lungchat/internal/app"
)

// runApp wires dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	return app.Run(s.deps)
}
