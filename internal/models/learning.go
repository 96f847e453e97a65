package models

import "time"

// LessonCategory classifies a lesson by the kind of knowledge it captures.
type LessonCategory string

const (
	LessonMarketInsight      LessonCategory = "market_insight"
	LessonTechnicalDiscovery LessonCategory = "technical_discovery"
	LessonProcessImprovement LessonCategory = "process_improvement"
	LessonAntiPattern        LessonCategory = "anti_pattern"
	LessonStrategicPivot     LessonCategory = "strategic_pivot"
)

// ValidationStatus records whether later evidence supported a lesson.
// Validation happens outside the control plane; the status is only
// ever updated externally.
type ValidationStatus string

const (
	ValidationUnvalidated  ValidationStatus = "unvalidated"
	ValidationSupported    ValidationStatus = "supported"
	ValidationContradicted ValidationStatus = "contradicted"
)

// Lesson is a single falsifiable observation recorded during a session.
type Lesson struct {
	ID               string           `json:"id"`
	SessionID        string           `json:"session_id"`
	AgentName        string           `json:"agent_name"`
	Phase            string           `json:"phase"`
	Category         LessonCategory   `json:"category"`
	Observation      string           `json:"observation"`
	Evidence         string           `json:"evidence"`
	Confidence       float64          `json:"confidence"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// FailureReason is the root cause category for an archived idea.
type FailureReason string

const (
	FailMarketSaturated    FailureReason = "market_saturated"
	FailInsufficientMarket FailureReason = "insufficient_market"
	FailTechnicalBlocker   FailureReason = "technical_blocker"
	FailRegulatoryBarrier  FailureReason = "regulatory_barrier"
	FailDesignFlaw         FailureReason = "design_flaw"
	FailLowNovelty         FailureReason = "low_novelty"
	FailUnclearValueProp   FailureReason = "unclear_value_prop"
)

// GraveyardEntry is an idea archived with its failure context.
// Created exactly once at archival time, immutable thereafter.
type GraveyardEntry struct {
	ID                     string        `json:"id"`
	SessionID              string        `json:"session_id"`
	ConceptName            string        `json:"concept_name"`
	ElevatorPitch          string        `json:"elevator_pitch"`
	FailurePhase           string        `json:"failure_phase"`
	FailureReason          FailureReason `json:"failure_reason"`
	FailureDetail          string        `json:"failure_detail"`
	SalvagedComponents     []string      `json:"salvaged_components"`
	ResurrectionConditions string        `json:"resurrection_conditions"`
	JudgeScore             int           `json:"judge_score"`
	ArchivedAt             time.Time     `json:"archived_at"`
}

// FailureAnalysis is a structured post-mortem for a failed concept.
type FailureAnalysis struct {
	ID                 string        `json:"id"`
	SessionID          string        `json:"session_id"`
	ConceptName        string        `json:"concept_name"`
	RootCause          FailureReason `json:"root_cause"`
	DecisionTrace      []string      `json:"decision_trace"`
	Counterfactual     string        `json:"counterfactual"`
	SalvageableWork    []string      `json:"salvageable_work"`
	Lessons            []Lesson      `json:"lessons"`
	LearningValueScore float64       `json:"learning_value_score"`
}
