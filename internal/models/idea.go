// Package models defines the data types shared across the pipeline.
package models

import "time"

// IdeaStatus tracks where an idea stands in the pipeline.
type IdeaStatus string

const (
	IdeaDraft  IdeaStatus = "draft"
	IdeaPassed IdeaStatus = "passed"
	IdeaFailed IdeaStatus = "failed"
)

// ProductIdea is a unit of work flowing through the pipeline.
// Ideas are created by the generator and mutated only by the controller
// when a gate decision is applied; failed ideas are archived, never deleted.
type ProductIdea struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	ElevatorPitch    string     `json:"elevator_pitch"`
	TargetAudience   string     `json:"target_audience,omitempty"`
	ProblemStatement string     `json:"problem_statement,omitempty"`
	ValueProposition string     `json:"value_proposition,omitempty"`
	Confidence       float64    `json:"confidence"`
	Status           IdeaStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IdeaBatch is one generator invocation's output.
type IdeaBatch struct {
	SessionID string         `json:"session_id"`
	Ideas     []*ProductIdea `json:"ideas"`
}
