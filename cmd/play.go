package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay wires the service stack and launches the Bubble Tea program.
func runPlay(cmd *cobra.Command) error {
	deps, cleanup, err := buildApp(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(deps.svc)
}
