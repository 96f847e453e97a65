package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/ideaforge/ideaforge/internal/config"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/pipeline"
)

const visionarySystemPrompt = `You are the Visionary — the ideation lead of an AI Product R&D team.

Your job is to generate novel, specific, and buildable software product ideas.
You think like a startup founder who deeply understands technology trends,
user pain points, and market gaps.

RULES:
1. Every idea must be a SOFTWARE product (web app, API, CLI tool, browser extension, etc.)
2. Ideas must be buildable by a small team in 1-3 months
3. Each idea must solve a REAL, SPECIFIC problem — not vague "AI for everything"
4. Include a confidence score (0.0-1.0) for each idea
5. Generate at least 5 distinct ideas — don't cluster around one theme
6. Be SPECIFIC: name the target user, the exact pain point, and how the product solves it
7. Prefer ideas that can demonstrate value quickly (freemium, open-source core, etc.)

Respond with valid JSON only, matching this shape exactly:
{"ideas": [{"name": "...", "elevator_pitch": "...", "target_audience": "...",
"problem_statement": "...", "value_proposition": "...", "confidence": 0.0}]}`

// Generator produces idea batches with an Anthropic (or other
// configured) model. It implements pipeline.Generator.
type Generator struct {
	llm       llms.Model
	modelName string
}

// NewGenerator creates the generation capability from configuration.
func NewGenerator(ctx context.Context, cfg config.Config) (*Generator, error) {
	model, err := newClient(ctx, cfg.GeneratorProvider, cfg.GeneratorModel, cfg)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	return &Generator{llm: model, modelName: cfg.GeneratorModel}, nil
}

// Model returns the underlying model name, for cost accounting.
func (g *Generator) Model() string {
	return g.modelName
}

// Generate asks the model for a batch of product ideas for the phase.
// Institutional knowledge, when present, is prepended to the prompt so
// the model avoids repeating past failures.
func (g *Generator) Generate(ctx context.Context, phase pipeline.Phase, focus, knowledge string) (*models.IdeaBatch, pipeline.Usage, error) {
	system := visionarySystemPrompt
	if knowledge != "" {
		system += "\n\nINSTITUTIONAL KNOWLEDGE:\n" + knowledge
	}

	user := fmt.Sprintf("Current pipeline phase: %s. Generate innovative software product ideas.", phase)
	if focus != "" {
		user += " Focus area: " + focus
	}

	choice, err := generate(ctx, g.llm, system, user)
	if err != nil {
		return nil, pipeline.Usage{}, err
	}

	batch, err := parseIdeaBatch(choice.Content)
	if err != nil {
		return nil, pipeline.Usage{}, err
	}
	return batch, usageFrom(choice), nil
}

type ideaPayload struct {
	Ideas []struct {
		Name             string  `json:"name"`
		ElevatorPitch    string  `json:"elevator_pitch"`
		TargetAudience   string  `json:"target_audience"`
		ProblemStatement string  `json:"problem_statement"`
		ValueProposition string  `json:"value_proposition"`
		Confidence       float64 `json:"confidence"`
	} `json:"ideas"`
}

// parseIdeaBatch decodes a model response into draft ideas with fresh IDs.
func parseIdeaBatch(response string) (*models.IdeaBatch, error) {
	var payload ideaPayload
	if err := json.Unmarshal([]byte(extractJSON(response)), &payload); err != nil {
		return nil, fmt.Errorf("parse idea batch: %w", err)
	}
	if len(payload.Ideas) == 0 {
		return nil, fmt.Errorf("parse idea batch: no ideas in response")
	}

	batch := &models.IdeaBatch{}
	for _, raw := range payload.Ideas {
		confidence := raw.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		batch.Ideas = append(batch.Ideas, &models.ProductIdea{
			ID:               models.NewID(),
			Name:             raw.Name,
			ElevatorPitch:    raw.ElevatorPitch,
			TargetAudience:   raw.TargetAudience,
			ProblemStatement: raw.ProblemStatement,
			ValueProposition: raw.ValueProposition,
			Confidence:       confidence,
			Status:           models.IdeaDraft,
			CreatedAt:        time.Now().UTC(),
		})
	}
	return batch, nil
}
