package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/config"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/riddle"
)

var riddlesCmd = &cobra.Command{
	Use:   "riddles",
	Short: "Inspect the sakwe sakwe riddle bank",
}

// riddleFile resolves the bank path from --file or BAVUGA_RIDDLES.
func riddleFile(cmd *cobra.Command) (string, error) {
	if f, _ := cmd.Flags().GetString("file"); f != "" {
		return f, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.RiddleFile, nil
}

var riddlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the riddles in the bank file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := riddleFile(cmd)
		if err != nil {
			return err
		}
		riddles, err := riddle.ReadFile(path)
		if err != nil {
			return err
		}

		if len(riddles) == 0 {
			fmt.Println("The riddle bank is empty.")
			return nil
		}

		fmt.Printf("%-50s  %s\n", "Riddle", "Answer")
		fmt.Println(strings.Repeat("─", 72))
		for _, r := range riddles {
			fmt.Printf("%-50s  %s\n", truncate(r.Riddle, 50), r.Answer)
		}
		fmt.Printf("\n%d riddles in %s\n", len(riddles), path)
		return nil
	},
}

var riddlesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the riddle bank file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := riddleFile(cmd)
		if err != nil {
			return err
		}
		riddles, err := riddle.ReadFile(path)
		if err != nil {
			return err
		}

		var bad int
		for i, r := range riddles {
			if strings.TrimSpace(r.Riddle) == "" || strings.TrimSpace(r.Answer) == "" {
				fmt.Printf("entry %d: missing riddle or answer\n", i)
				bad++
			}
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d entries are invalid", bad, len(riddles))
		}

		fmt.Printf("%s: %d riddles, all valid\n", path, len(riddles))
		return nil
	},
}

func init() {
	riddlesCmd.PersistentFlags().StringP("file", "f", "", "Riddle bank file (overrides BAVUGA_RIDDLES)")

	riddlesCmd.AddCommand(riddlesListCmd)
	riddlesCmd.AddCommand(riddlesCheckCmd)
}
