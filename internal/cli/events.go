package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events <session-id>",
	Short: "Show a session's safety event log",
	Long: `Show a session's safety events in order: pauses, resumes, loop
detections, budget breaches, and kills. The log alone is enough to
reconstruct why a run stopped.

Examples:
  ideaforge events 3f2a9c81d04e`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	if err := requireDB(); err != nil {
		return err
	}

	events, err := dbClient.SessionEvents(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("session events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No safety events for this session.")
		return nil
	}

	theme := defaultTheme
	for _, e := range events {
		line := fmt.Sprintf("%s  %-24s %-10s %s",
			e.Timestamp.Format("15:04:05"), e.EventType, e.AgentName, e.Message)
		switch {
		case e.EventType == "killed" || e.EventType == "budget_exceeded":
			fmt.Println(theme.errorStyle().Render(line))
		case strings.HasPrefix(e.EventType, "loop_detected"):
			fmt.Println(theme.statusStyle().Render(line))
		default:
			fmt.Println(line)
		}
	}
	return nil
}
