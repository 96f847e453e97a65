package llm

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ideaforge/ideaforge/internal/models"
)

// scriptedDebater returns canned responses in order.
type scriptedDebater struct {
	name      string
	responses []string
	calls     int
	err       error
}

func (d *scriptedDebater) Name() string { return d.name }

func (d *scriptedDebater) Respond(_ context.Context, _ string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	response := d.responses[d.calls%len(d.responses)]
	d.calls++
	return response, nil
}

func debateIdea() *models.ProductIdea {
	return &models.ProductIdea{
		ID:            models.NewID(),
		Name:          "DevLog",
		ElevatorPitch: "changelog automation for small teams",
		Confidence:    0.7,
	}
}

func TestRunDebateConsensus(t *testing.T) {
	advocate := &scriptedDebater{name: "Visionary", responses: []string{
		"The problem is real and underserved. Confidence: 0.8",
	}}
	critic := &scriptedDebater{name: "Architect", responses: []string{
		"Risks are manageable with existing tooling. Confidence: 0.7",
	}}

	outcome, err := RunDebate(context.Background(), debateIdea(), advocate, critic, 3)
	if err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}

	if len(outcome.Rounds) != 6 {
		t.Errorf("len(Rounds) = %d, want 6 (3 rounds, 2 sides)", len(outcome.Rounds))
	}
	if !outcome.ConsensusReached {
		t.Errorf("ConsensusReached = false with confidences %.2f / %.2f",
			outcome.AdvocateFinalConfidence, outcome.CriticFinalConfidence)
	}
	if outcome.AdvocateFinalConfidence != 0.8 {
		t.Errorf("AdvocateFinalConfidence = %v, want 0.8", outcome.AdvocateFinalConfidence)
	}
	if advocate.calls != 3 || critic.calls != 3 {
		t.Errorf("calls = %d/%d, want 3/3", advocate.calls, critic.calls)
	}
}

func TestRunDebateDisagreement(t *testing.T) {
	advocate := &scriptedDebater{name: "Visionary", responses: []string{
		"This will absolutely work. Confidence: 0.9",
	}}
	critic := &scriptedDebater{name: "Architect", responses: []string{
		"The core assumption is unproven. Confidence: 0.2",
	}}

	outcome, err := RunDebate(context.Background(), debateIdea(), advocate, critic, 2)
	if err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}
	if outcome.ConsensusReached {
		t.Error("ConsensusReached = true for 0.9 vs 0.2")
	}
}

func TestRunDebateConfidenceDelta(t *testing.T) {
	// Advocate starts at 0.9 and is argued down to 0.5.
	advocate := &scriptedDebater{name: "Visionary", responses: []string{
		"Strong case here. Confidence: 0.9",
		"Fair points, revising down. Confidence: 0.5",
	}}
	critic := &scriptedDebater{name: "Architect", responses: []string{
		"Serious gaps in the plan. Confidence: 0.4",
	}}

	outcome, err := RunDebate(context.Background(), debateIdea(), advocate, critic, 2)
	if err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}
	if got := outcome.ConfidenceDelta(); math.Abs(got-(-0.4)) > 1e-9 {
		t.Errorf("ConfidenceDelta() = %v, want -0.4", got)
	}
}

func TestRunDebateKeepsFallbackConfidence(t *testing.T) {
	// No parseable confidence anywhere: the advocate keeps the idea's
	// own confidence, the critic keeps the 0.5 prior.
	advocate := &scriptedDebater{name: "Visionary", responses: []string{"I like it a lot."}}
	critic := &scriptedDebater{name: "Architect", responses: []string{"I am not so sure."}}

	outcome, err := RunDebate(context.Background(), debateIdea(), advocate, critic, 1)
	if err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}
	if outcome.AdvocateFinalConfidence != 0.7 {
		t.Errorf("AdvocateFinalConfidence = %v, want idea confidence 0.7", outcome.AdvocateFinalConfidence)
	}
	if outcome.CriticFinalConfidence != 0.5 {
		t.Errorf("CriticFinalConfidence = %v, want prior 0.5", outcome.CriticFinalConfidence)
	}
}

func TestRunDebatePropagatesErrors(t *testing.T) {
	advocate := &scriptedDebater{name: "Visionary", err: errors.New("model unavailable")}
	critic := &scriptedDebater{name: "Architect", responses: []string{"fine. Confidence: 0.5"}}

	if _, err := RunDebate(context.Background(), debateIdea(), advocate, critic, 1); err == nil {
		t.Error("RunDebate() error = nil, want advocate failure")
	}
}
