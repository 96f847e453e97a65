package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var costsCmd = &cobra.Command{
	Use:   "costs <session-id>",
	Short: "Show a session's spend ledger",
	Long: `Show every billable call a session made, with per-agent and
per-phase totals.

Examples:
  ideaforge costs 3f2a9c81d04e`,
	Args: cobra.ExactArgs(1),
	RunE: runCosts,
}

func runCosts(cmd *cobra.Command, args []string) error {
	if err := requireDB(); err != nil {
		return err
	}

	entries, err := dbClient.SessionCosts(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("session costs: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No cost entries for this session.")
		return nil
	}

	var total float64
	byAgent := make(map[string]float64)
	fmt.Printf("%-12s %-28s %8s %8s %10s  %s\n", "AGENT", "MODEL", "IN", "OUT", "COST", "PHASE")
	for _, e := range entries {
		fmt.Printf("%-12s %-28s %8d %8d %10.4f  %s\n",
			e.AgentName, e.Model, e.InputTokens, e.OutputTokens, e.CostUSD, e.Phase)
		total += e.CostUSD
		byAgent[e.AgentName] += e.CostUSD
	}

	fmt.Printf("\nTotal: $%.4f over %d calls\n", total, len(entries))
	for agent, cost := range byAgent {
		fmt.Printf("  %s: $%.4f\n", agent, cost)
	}
	return nil
}
