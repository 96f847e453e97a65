package models

import "time"

// DebateRole is the side an agent argues in a structured debate.
type DebateRole string

const (
	RoleAdvocate DebateRole = "advocate"
	RoleCritic   DebateRole = "critic"
)

// DebateMessage is a single turn within a debate.
type DebateMessage struct {
	AgentName   string     `json:"agent_name"`
	Role        DebateRole `json:"role"`
	Content     string     `json:"content"`
	RoundNumber int        `json:"round_number"`
	Confidence  float64    `json:"confidence"`
	Timestamp   time.Time  `json:"timestamp"`
}

// DebateOutcome summarises a completed debate.
type DebateOutcome struct {
	DebateID                string          `json:"debate_id"`
	IdeaName                string          `json:"idea_name"`
	Rounds                  []DebateMessage `json:"rounds"`
	AdvocateFinalConfidence float64         `json:"advocate_final_confidence"`
	CriticFinalConfidence   float64         `json:"critic_final_confidence"`
	ConsensusReached        bool            `json:"consensus_reached"`
	Summary                 string          `json:"summary"`
}

// ConfidenceDelta is how much the advocate's confidence moved over
// the course of the debate.
func (o *DebateOutcome) ConfidenceDelta() float64 {
	for _, m := range o.Rounds {
		if m.Role == RoleAdvocate {
			return o.AdvocateFinalConfidence - m.Confidence
		}
	}
	return 0
}
