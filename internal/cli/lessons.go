package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var lessonsLimit int

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List recorded lessons",
	Long: `List the most recent lessons from the institutional memory, with
their category, confidence, and validation status.

Examples:
  ideaforge lessons
  ideaforge lessons --limit 50`,
	RunE: runLessons,
}

func init() {
	lessonsCmd.Flags().IntVar(&lessonsLimit, "limit", 20, "maximum lessons to show")
}

func runLessons(cmd *cobra.Command, args []string) error {
	if err := requireDB(); err != nil {
		return err
	}

	lessons, err := dbClient.Lessons(context.Background(), lessonsLimit)
	if err != nil {
		return fmt.Errorf("lessons: %w", err)
	}
	if len(lessons) == 0 {
		fmt.Println("No lessons recorded.")
		return nil
	}

	theme := defaultTheme
	for _, l := range lessons {
		header := fmt.Sprintf("[%s] %s (%.0f%% confidence, %s)",
			l.Category, l.Phase, l.Confidence*100, l.ValidationStatus)
		fmt.Println(theme.statusStyle().Render(header))
		fmt.Printf("  %s\n", l.Observation)
		if l.Evidence != "" {
			fmt.Printf("  %s\n", theme.hintStyle().Render("evidence: "+l.Evidence))
		}
		fmt.Println()
	}
	return nil
}
