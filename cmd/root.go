package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/config"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "bavuga",
	Short: "Conversational Kinyarwanda quiz game",
	Long:  "Bavuga Nti-bavuga — a Kinyarwanda language game: proverbs, sakwe sakwe riddles, stories and image challenges, scored with three lives.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BAVUGA_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(riddlesCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the BAVUGA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
