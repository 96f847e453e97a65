package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/ideaforge/ideaforge/internal/config"
	"github.com/ideaforge/ideaforge/internal/models"
)

const judgeSystemPrompt = `You are an impartial product evaluator. You receive product ideas and score them
objectively. You have NO knowledge of how these ideas were generated — you judge
purely on the merit of each idea.

Score each idea on four dimensions (1-10 scale):
- Novelty: Is this genuinely new, or does a near-identical product already exist?
- Market Potential: Is the target market large enough and accessible?
- Feasibility: Can a small team realistically build an MVP in 1-3 months?
- Clarity: Is the problem, audience, and solution clearly defined?

Also provide:
- Overall score (1-10): your holistic assessment
- Reasoning: 2-3 sentences explaining your scores
- Pass Gate: true if overall >= %d, false otherwise

Be HONEST. If an idea is mediocre, say so. The system learns more from honest
low scores than inflated ones. A session where 3 of 5 ideas fail is NORMAL.

Respond with valid JSON only, matching this shape exactly:
{"scores": [{"idea_id": "...", "idea_name": "...", "novelty": 0, "market_potential": 0,
"feasibility": 0, "clarity": 0, "overall": 0, "reasoning": "...", "pass_gate": false}]}`

// Evaluator is the independent judge. It implements pipeline.Evaluator
// and deliberately runs on a DIFFERENT provider than the generator to
// avoid self-reinforcing bias.
type Evaluator struct {
	llm       llms.Model
	modelName string
}

// NewEvaluator creates the evaluation capability from configuration.
// It refuses to share a provider with the generator.
func NewEvaluator(ctx context.Context, cfg config.Config) (*Evaluator, error) {
	if cfg.EvaluatorProvider == cfg.GeneratorProvider {
		return nil, fmt.Errorf("evaluator must use a different provider than the generator (both are %q)", cfg.EvaluatorProvider)
	}
	model, err := newClient(ctx, cfg.EvaluatorProvider, cfg.EvaluatorModel, cfg)
	if err != nil {
		return nil, fmt.Errorf("create evaluator: %w", err)
	}
	return &Evaluator{llm: model, modelName: cfg.EvaluatorModel}, nil
}

// Evaluate scores a batch of ideas against the gate threshold.
func (e *Evaluator) Evaluate(ctx context.Context, batch *models.IdeaBatch, gateThreshold int) (*models.EvaluationReport, error) {
	ideasJSON, err := json.MarshalIndent(batch.Ideas, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal ideas: %w", err)
	}

	system := fmt.Sprintf(judgeSystemPrompt, gateThreshold)
	user := fmt.Sprintf("Score these product ideas:\n%s", ideasJSON)

	choice, err := generate(ctx, e.llm, system, user)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Scores []models.IdeaScore `json:"scores"`
	}
	if err := json.Unmarshal([]byte(extractJSON(choice.Content)), &payload); err != nil {
		return nil, fmt.Errorf("parse evaluation: %w", err)
	}

	return &models.EvaluationReport{
		EvaluationID:  models.NewID(),
		SessionID:     batch.SessionID,
		Scores:        payload.Scores,
		EvaluatedAt:   time.Now().UTC(),
		ModelUsed:     e.modelName,
		GateThreshold: gateThreshold,
	}, nil
}
