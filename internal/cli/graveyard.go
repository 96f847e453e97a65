package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var graveyardLimit int

var graveyardCmd = &cobra.Command{
	Use:   "graveyard",
	Short: "List archived concepts",
	Long: `List archived concepts across all sessions, newest first, with the
phase and reason each one died for.

Examples:
  ideaforge graveyard
  ideaforge graveyard --limit 50`,
	RunE: runGraveyard,
}

func init() {
	graveyardCmd.Flags().IntVar(&graveyardLimit, "limit", 20, "maximum entries to show")
}

func runGraveyard(cmd *cobra.Command, args []string) error {
	if err := requireDB(); err != nil {
		return err
	}

	entries, err := dbClient.Graveyard(context.Background(), graveyardLimit)
	if err != nil {
		return fmt.Errorf("graveyard: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("The graveyard is empty.")
		return nil
	}

	theme := defaultTheme
	for _, e := range entries {
		fmt.Printf("%s  %s\n",
			theme.errorStyle().Render("✗"),
			theme.statusStyle().Render(e.ConceptName))
		fmt.Printf("   %s\n", e.ElevatorPitch)
		fmt.Printf("   died in %s (%s, score %d) on %s\n",
			e.FailurePhase, e.FailureReason, e.JudgeScore, e.ArchivedAt.Format("2006-01-02"))
		if e.FailureDetail != "" {
			fmt.Printf("   %s\n", theme.hintStyle().Render(e.FailureDetail))
		}
		if len(e.SalvagedComponents) > 0 {
			fmt.Printf("   salvaged: %v\n", e.SalvagedComponents)
		}
		fmt.Println()
	}
	return nil
}
