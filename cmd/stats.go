package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show play statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		st, err := s.Submissions().Stats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		if st.Attempts == 0 {
			fmt.Println("No answers recorded yet. Run `bavuga play` to start.")
			return nil
		}

		pct := float64(st.Correct) / float64(st.Attempts) * 100

		fmt.Printf("Sessions:  %d\n", st.Sessions)
		fmt.Printf("Answers:   %d (%d correct, %.0f%%)\n", st.Attempts, st.Correct, pct)
		fmt.Printf("Score:     %d points earned\n", st.ScoreAwarded)

		byType, err := s.Submissions().StatsByType(ctx)
		if err != nil {
			return fmt.Errorf("query stats by type: %w", err)
		}
		if len(byType) > 0 {
			fmt.Println()
			fmt.Printf("%-24s  %8s  %8s\n", "Challenge Type", "Answers", "Correct")
			fmt.Println(strings.Repeat("─", 44))
			for _, ts := range byType {
				fmt.Printf("%-24s  %8d  %8d\n", ts.Type, ts.Attempts, ts.Correct)
			}
		}
		return nil
	},
}
