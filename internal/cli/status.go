package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [session-id]",
	Short: "Show a session's pipeline, safety, and cost summary",
	Long: `Show where a session ended up: its status and phase, total spend,
and the safety events that shaped the run. Defaults to the most
recent session.

Examples:
  ideaforge status
  ideaforge status 3f2a9c81d04e`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireDB(); err != nil {
		return err
	}
	ctx := context.Background()

	var sessionID, status, phase string
	if len(args) == 1 {
		sessionID = args[0]
		sessions, err := dbClient.RecentSessions(ctx, 100)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		for _, s := range sessions {
			if s.SessionID() == sessionID {
				status, phase = s.Status, s.Phase
				break
			}
		}
	} else {
		sessions, err := dbClient.RecentSessions(ctx, 1)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}
		sessionID, status, phase = sessions[0].SessionID(), sessions[0].Status, sessions[0].Phase
	}

	theme := defaultTheme
	fmt.Printf("Session: %s\n", sessionID)
	if status != "" {
		line := fmt.Sprintf("Status:  %s\nPhase:   %s", status, phase)
		if status == "killed" {
			fmt.Println(theme.errorStyle().Render(line))
		} else {
			fmt.Println(theme.statusStyle().Render(line))
		}
	}

	entries, err := dbClient.SessionCosts(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session costs: %w", err)
	}
	var total float64
	for _, e := range entries {
		total += e.CostUSD
	}
	fmt.Printf("Spend:   $%.4f over %d calls\n", total, len(entries))

	events, err := dbClient.SessionEvents(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session events: %w", err)
	}
	fmt.Printf("Safety events: %d\n", len(events))
	if len(events) > 0 {
		last := events[len(events)-1]
		fmt.Printf("Last event: %s — %s\n", last.EventType, last.Message)
	}
	return nil
}
