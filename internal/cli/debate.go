package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideaforge/ideaforge/internal/llm"
	"github.com/ideaforge/ideaforge/internal/models"
)

var (
	debatePitch  string
	debateRounds int
)

var debateCmd = &cobra.Command{
	Use:   "debate <idea-name>",
	Short: "Debate an idea between advocate and critic models",
	Long: `Run a structured debate about a product idea: the generator's model
argues for it, the evaluator's model challenges it, and both state a
confidence after every round.

Examples:
  ideaforge debate "DevLog" --pitch "changelog automation for small teams"
  ideaforge debate "DevLog" --pitch "..." --rounds 5`,
	Args: cobra.ExactArgs(1),
	RunE: runDebate,
}

func init() {
	debateCmd.Flags().StringVar(&debatePitch, "pitch", "", "elevator pitch for the idea (required)")
	debateCmd.Flags().IntVar(&debateRounds, "rounds", 3, "number of debate rounds")
	_ = debateCmd.MarkFlagRequired("pitch")
}

func runDebate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	advocate, critic, err := llm.NewDebaters(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init debaters: %w", err)
	}

	idea := &models.ProductIdea{
		ID:            models.NewID(),
		Name:          args[0],
		ElevatorPitch: debatePitch,
		Confidence:    0.5,
		Status:        models.IdeaDraft,
		CreatedAt:     time.Now().UTC(),
	}

	theme := defaultTheme
	fmt.Printf("Debating %q over %d rounds...\n\n", idea.Name, debateRounds)

	outcome, err := llm.RunDebate(ctx, idea, advocate, critic, debateRounds)
	if err != nil {
		return fmt.Errorf("debate: %w", err)
	}

	for _, msg := range outcome.Rounds {
		header := fmt.Sprintf("[%s — round %d, confidence %.2f]", msg.AgentName, msg.RoundNumber, msg.Confidence)
		fmt.Println(theme.statusStyle().Render(header))
		fmt.Println(strings.TrimSpace(msg.Content))
		fmt.Println()
	}

	if outcome.ConsensusReached {
		fmt.Println(theme.successStyle().Render("✓ Consensus reached"))
	} else {
		fmt.Println(theme.errorStyle().Render("✗ No consensus"))
	}
	fmt.Println(outcome.Summary)
	fmt.Println(theme.hintStyle().Render(
		fmt.Sprintf("advocate confidence moved %+.2f over the debate", outcome.ConfidenceDelta())))
	return nil
}
