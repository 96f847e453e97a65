package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/ideaforge/ideaforge/internal/config"
	"github.com/ideaforge/ideaforge/internal/models"
)

// Debater is one side of a structured debate. Any implementation with
// a single respond capability can argue either role; the concrete
// model binding is not hard-coded into the engine.
type Debater interface {
	Name() string
	Respond(ctx context.Context, prompt string) (string, error)
}

// consensusMargin is how close the two final confidences must be for
// the debate to count as consensus.
const consensusMargin = 0.2

// modelDebater argues a debate side with a langchaingo model.
type modelDebater struct {
	name string
	llm  llms.Model
}

// NewModelDebater wraps a model client as a Debater.
func NewModelDebater(name string, model llms.Model) Debater {
	return &modelDebater{name: name, llm: model}
}

func (d *modelDebater) Name() string { return d.name }

// NewDebaters builds both debate sides from configuration: the advocate
// argues on the generator's model, the critic on the evaluator's, so
// the two positions never share a provider.
func NewDebaters(ctx context.Context, cfg config.Config) (advocate, critic Debater, err error) {
	advocateModel, err := newClient(ctx, cfg.GeneratorProvider, cfg.GeneratorModel, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create advocate model: %w", err)
	}
	criticModel, err := newClient(ctx, cfg.EvaluatorProvider, cfg.EvaluatorModel, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create critic model: %w", err)
	}
	return NewModelDebater("Visionary", advocateModel), NewModelDebater("Architect", criticModel), nil
}

func (d *modelDebater) Respond(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, d.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("debate response: %w", err)
	}
	return response, nil
}

// RunDebate drives a structured back-and-forth about an idea: the
// advocate opens each round, the critic challenges, and both end their
// turns with a stated confidence. After the final round the outcome
// records whether the two sides converged.
func RunDebate(ctx context.Context, idea *models.ProductIdea, advocate, critic Debater, rounds int) (*models.DebateOutcome, error) {
	if rounds <= 0 {
		rounds = 3
	}

	var messages []models.DebateMessage
	conversationContext := fmt.Sprintf("Product idea under debate: %s\n%s\n", idea.Name, idea.ElevatorPitch)

	advocateConfidence := idea.Confidence
	criticConfidence := 0.5

	for round := 1; round <= rounds; round++ {
		var advocatePrompt string
		if round == 1 {
			advocatePrompt = conversationContext + "\n" +
				"You are the ADVOCATE. Make the strongest case for why this product idea " +
				"is worth building. Address: the problem is real, the market exists, and " +
				"this can be built. Be specific and persuasive.\n" +
				"End with your confidence (0.0-1.0) that this idea should proceed."
		} else {
			lastCritic := messages[len(messages)-1]
			advocatePrompt = fmt.Sprintf(
				"%s\nThe critic's challenge (round %d):\n%q\n\n"+
					"Respond to these specific challenges. Acknowledge valid points, "+
					"counter weak ones, and adjust your position if warranted.\n"+
					"End with your updated confidence (0.0-1.0).",
				conversationContext, round-1, lastCritic.Content)
		}

		advocateText, err := advocate.Respond(ctx, advocatePrompt)
		if err != nil {
			return nil, fmt.Errorf("advocate round %d: %w", round, err)
		}
		advocateConfidence = ExtractConfidence(advocateText, advocateConfidence)
		messages = append(messages, models.DebateMessage{
			AgentName:   advocate.Name(),
			Role:        models.RoleAdvocate,
			Content:     advocateText,
			RoundNumber: round,
			Confidence:  advocateConfidence,
			Timestamp:   time.Now().UTC(),
		})

		criticPrompt := conversationContext + "\nDebate history so far:\n"
		for _, msg := range messages {
			criticPrompt += fmt.Sprintf("\n[%s - Round %d]:\n%s\n", msg.AgentName, msg.RoundNumber, msg.Content)
		}
		if round == rounds {
			criticPrompt += "\nThis is the FINAL round. Give your definitive technical assessment. " +
				"Summarise the key risks, acknowledge strengths, and state your final " +
				"confidence (0.0-1.0) that this idea is technically feasible."
		} else {
			criticPrompt += "\nYou are the CRITIC. Challenge the advocate's claims with SPECIFIC " +
				"technical concerns. Ask pointed questions. Identify assumptions.\n" +
				"End with your confidence (0.0-1.0) that this is technically feasible."
		}

		criticText, err := critic.Respond(ctx, criticPrompt)
		if err != nil {
			return nil, fmt.Errorf("critic round %d: %w", round, err)
		}
		criticConfidence = ExtractConfidence(criticText, criticConfidence)
		messages = append(messages, models.DebateMessage{
			AgentName:   critic.Name(),
			Role:        models.RoleCritic,
			Content:     criticText,
			RoundNumber: round,
			Confidence:  criticConfidence,
			Timestamp:   time.Now().UTC(),
		})
	}

	consensus := math.Abs(advocateConfidence-criticConfidence) < consensusMargin

	verdict := "No consensus — significant disagreement remains."
	if consensus {
		verdict = "Consensus reached."
	}
	return &models.DebateOutcome{
		DebateID:                models.NewID(),
		IdeaName:                idea.Name,
		Rounds:                  messages,
		AdvocateFinalConfidence: advocateConfidence,
		CriticFinalConfidence:   criticConfidence,
		ConsensusReached:        consensus,
		Summary: fmt.Sprintf(
			"After %d rounds, the Advocate's confidence is %.0f%% and the Critic's is %.0f%%. %s",
			rounds, advocateConfidence*100, criticConfidence*100, verdict),
	}, nil
}
