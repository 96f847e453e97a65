package models

import "time"

// IdeaScore is the judge's verdict on a single idea.
// Sub-scores and overall are on a 1-10 scale.
type IdeaScore struct {
	IdeaID          string `json:"idea_id"`
	IdeaName        string `json:"idea_name"`
	Novelty         int    `json:"novelty"`
	MarketPotential int    `json:"market_potential"`
	Feasibility     int    `json:"feasibility"`
	Clarity         int    `json:"clarity"`
	Overall         int    `json:"overall"`
	Reasoning       string `json:"reasoning"`
	PassGate        bool   `json:"pass_gate"`
}

// AverageScore is the mean of the four sub-scores.
func (s IdeaScore) AverageScore() float64 {
	return float64(s.Novelty+s.MarketPotential+s.Feasibility+s.Clarity) / 4
}

// EvaluationReport is the judge's output for a batch of ideas.
type EvaluationReport struct {
	EvaluationID  string      `json:"evaluation_id"`
	SessionID     string      `json:"session_id"`
	Scores        []IdeaScore `json:"scores"`
	EvaluatedAt   time.Time   `json:"evaluated_at"`
	ModelUsed     string      `json:"model_used"`
	GateThreshold int         `json:"gate_threshold"`
}

// ScoreFor finds the score for an idea, matching by ID first and
// falling back to the idea's name when the ID lookup fails. Name
// collisions resolve to the first match in report order.
func (r *EvaluationReport) ScoreFor(id, name string) *IdeaScore {
	for i := range r.Scores {
		if r.Scores[i].IdeaID == id {
			return &r.Scores[i]
		}
	}
	for i := range r.Scores {
		if r.Scores[i].IdeaName == name {
			return &r.Scores[i]
		}
	}
	return nil
}
