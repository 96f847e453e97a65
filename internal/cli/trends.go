package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show failure trends across the graveyard",
	Long: `Aggregate the graveyard into failure patterns: how often concepts
died at each phase for each reason, most common first.

Examples:
  ideaforge trends`,
	RunE: runTrends,
}

func runTrends(cmd *cobra.Command, args []string) error {
	if err := requireDB(); err != nil {
		return err
	}

	entries, err := dbClient.Graveyard(context.Background(), 1000)
	if err != nil {
		return fmt.Errorf("graveyard: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("The graveyard is empty — no trends yet.")
		return nil
	}

	type key struct {
		phase  string
		reason string
	}
	counts := make(map[key]int)
	for _, e := range entries {
		counts[key{e.FailurePhase, string(e.FailureReason)}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		if keys[i].phase != keys[j].phase {
			return keys[i].phase < keys[j].phase
		}
		return keys[i].reason < keys[j].reason
	})

	fmt.Printf("%-18s %-24s %s\n", "PHASE", "REASON", "COUNT")
	for _, k := range keys {
		fmt.Printf("%-18s %-24s %d\n", k.phase, k.reason, counts[k])
	}
	return nil
}
