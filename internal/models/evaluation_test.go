package models

import "testing"

func TestScoreForMatchesByIDThenName(t *testing.T) {
	report := &EvaluationReport{Scores: []IdeaScore{
		{IdeaID: "id-1", IdeaName: "Alpha", Overall: 8},
		{IdeaID: "id-2", IdeaName: "Beta", Overall: 5},
	}}

	if s := report.ScoreFor("id-2", "Alpha"); s == nil || s.Overall != 5 {
		t.Errorf("ID match returned %+v, want Beta's score", s)
	}
	// ID lookup fails, name fallback kicks in.
	if s := report.ScoreFor("missing", "Alpha"); s == nil || s.Overall != 8 {
		t.Errorf("name fallback returned %+v, want Alpha's score", s)
	}
	if s := report.ScoreFor("missing", "Gamma"); s != nil {
		t.Errorf("ScoreFor with no match = %+v, want nil", s)
	}
}

func TestScoreForNameCollisionTakesFirst(t *testing.T) {
	report := &EvaluationReport{Scores: []IdeaScore{
		{IdeaID: "id-1", IdeaName: "Twin", Overall: 9},
		{IdeaID: "id-2", IdeaName: "Twin", Overall: 2},
	}}
	if s := report.ScoreFor("missing", "Twin"); s == nil || s.Overall != 9 {
		t.Errorf("name collision returned %+v, want first in report order", s)
	}
}

func TestAverageScore(t *testing.T) {
	s := IdeaScore{Novelty: 8, MarketPotential: 6, Feasibility: 7, Clarity: 9}
	if got := s.AverageScore(); got != 7.5 {
		t.Errorf("AverageScore() = %v, want 7.5", got)
	}
}

func TestNewIDShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 12 {
			t.Fatalf("NewID() length = %d, want 12", len(id))
		}
		if seen[id] {
			t.Fatalf("NewID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}
