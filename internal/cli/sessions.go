package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent pipeline runs",
	Long: `List recent pipeline runs from the audit store, newest first.

Examples:
  ideaforge sessions
  ideaforge sessions --limit 25`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 10, "maximum sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) error {
	if err := requireDB(); err != nil {
		return err
	}

	sessions, err := dbClient.RecentSessions(context.Background(), sessionsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}

	fmt.Printf("%-14s %-10s %-16s %s\n", "SESSION", "STATUS", "PHASE", "STARTED")
	for _, s := range sessions {
		fmt.Printf("%-14s %-10s %-16s %s\n",
			s.SessionID(), s.Status, s.Phase, s.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
