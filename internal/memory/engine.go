// Package memory accumulates the pipeline's institutional knowledge:
// lessons learned, the graveyard of failed concepts, and the failure
// trends derived from them. The digest it builds is injected into
// later generation prompts so new sessions start from accumulated
// wisdom instead of a blank slate.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ideaforge/ideaforge/internal/models"
)

// Sink persists lessons and graveyard entries beyond the process
// lifetime. Optional; failures are logged and never fail the caller.
type Sink interface {
	SaveLesson(ctx context.Context, lesson models.Lesson) error
	SaveGraveyardEntry(ctx context.Context, entry models.GraveyardEntry) error
}

// Trend is an aggregated failure pattern: how often ideas died at a
// given phase for a given reason.
type Trend struct {
	Phase  string               `json:"phase"`
	Reason models.FailureReason `json:"reason"`
	Count  int                  `json:"count"`
}

// EngineConfig configures an Engine. Both fields are optional.
type EngineConfig struct {
	Sink   Sink
	Logger *slog.Logger
}

// Engine owns all lessons and graveyard entries for the process
// lifetime. All collections are append-only.
type Engine struct {
	lessons   []models.Lesson
	graveyard []models.GraveyardEntry
	analyses  []models.FailureAnalysis
	sink      Sink
	logger    *slog.Logger
}

// NewEngine creates an empty learning engine.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{sink: cfg.Sink, logger: logger}
}

// RecordLesson stores a new lesson. Missing ID, status, and creation
// time are filled in.
func (e *Engine) RecordLesson(ctx context.Context, lesson models.Lesson) {
	if lesson.ID == "" {
		lesson.ID = models.NewID()
	}
	if lesson.ValidationStatus == "" {
		lesson.ValidationStatus = models.ValidationUnvalidated
	}
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = time.Now().UTC()
	}
	e.lessons = append(e.lessons, lesson)
	if e.sink != nil {
		if err := e.sink.SaveLesson(ctx, lesson); err != nil {
			e.logger.Warn("failed to persist lesson", "error", err)
		}
	}
}

// RecordFailureAnalysis stores a structured post-mortem.
func (e *Engine) RecordFailureAnalysis(analysis models.FailureAnalysis) {
	if analysis.ID == "" {
		analysis.ID = models.NewID()
	}
	e.analyses = append(e.analyses, analysis)
}

// Archive sends a failed idea to the graveyard with full context and
// returns the entry. Entries are created exactly once and never
// mutated afterwards.
func (e *Engine) Archive(
	ctx context.Context,
	idea *models.ProductIdea,
	sessionID, failurePhase string,
	reason models.FailureReason,
	detail string,
	judgeScore int,
	salvaged []string,
	resurrectionConditions string,
) models.GraveyardEntry {
	entry := models.GraveyardEntry{
		ID:                     models.NewID(),
		SessionID:              sessionID,
		ConceptName:            idea.Name,
		ElevatorPitch:          idea.ElevatorPitch,
		FailurePhase:           failurePhase,
		FailureReason:          reason,
		FailureDetail:          detail,
		SalvagedComponents:     salvaged,
		ResurrectionConditions: resurrectionConditions,
		JudgeScore:             judgeScore,
		ArchivedAt:             time.Now().UTC(),
	}
	if entry.SalvagedComponents == nil {
		entry.SalvagedComponents = []string{}
	}
	e.graveyard = append(e.graveyard, entry)
	if e.sink != nil {
		if err := e.sink.SaveGraveyardEntry(ctx, entry); err != nil {
			e.logger.Warn("failed to persist graveyard entry", "error", err)
		}
	}
	return entry
}

// statusRank orders validation states for lesson ranking: supported
// evidence first, contradicted last.
func statusRank(s models.ValidationStatus) int {
	switch s {
	case models.ValidationSupported:
		return 0
	case models.ValidationContradicted:
		return 2
	default:
		return 1
	}
}

// RelevantLessons retrieves lessons for the current context, filtered
// by phase and category when given. Ordering: supported before
// unvalidated before contradicted, then confidence descending, then
// recency descending; ties keep insertion order.
func (e *Engine) RelevantLessons(phase string, category models.LessonCategory, limit int) []models.Lesson {
	var filtered []models.Lesson
	for _, l := range e.lessons {
		if phase != "" && l.Phase != phase {
			continue
		}
		if category != "" && l.Category != category {
			continue
		}
		filtered = append(filtered, l)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if ra, rb := statusRank(a.ValidationStatus), statusRank(b.ValidationStatus); ra != rb {
			return ra < rb
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// Graveyard browses archived concepts, optionally filtered by failure
// reason, most recently archived first.
func (e *Engine) Graveyard(reason models.FailureReason, limit int) []models.GraveyardEntry {
	var entries []models.GraveyardEntry
	for _, g := range e.graveyard {
		if reason != "" && g.FailureReason != reason {
			continue
		}
		entries = append(entries, g)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ArchivedAt.After(entries[j].ArchivedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// FailureTrends groups graveyard entries by (phase, reason) and counts
// occurrences, most common first. Used to surface systemic patterns.
func (e *Engine) FailureTrends() []Trend {
	counts := make(map[string]*Trend)
	var order []string
	for _, g := range e.graveyard {
		key := g.FailurePhase + ":" + string(g.FailureReason)
		if t, ok := counts[key]; ok {
			t.Count++
			continue
		}
		counts[key] = &Trend{Phase: g.FailurePhase, Reason: g.FailureReason, Count: 1}
		order = append(order, key)
	}

	trends := make([]Trend, 0, len(order))
	for _, key := range order {
		trends = append(trends, *counts[key])
	}
	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].Count > trends[j].Count
	})
	return trends
}

// BuildContext composes a bounded institutional-knowledge digest for a
// phase: top lessons, recently failed concepts, and the most common
// failure patterns. Returns an empty string when there is nothing to
// report — no headers without content.
func (e *Engine) BuildContext(phase string) string {
	lessons := e.RelevantLessons(phase, "", 5)
	var recent []models.GraveyardEntry
	if n := len(e.graveyard); n > 0 {
		start := n - 5
		if start < 0 {
			start = 0
		}
		recent = e.graveyard[start:]
	}
	trends := e.FailureTrends()

	var parts []string

	if len(lessons) > 0 {
		parts = append(parts, "LESSONS FROM PREVIOUS SESSIONS:")
		for _, l := range lessons {
			parts = append(parts, fmt.Sprintf("  - [%s] %s (confidence: %.0f%%)",
				l.ValidationStatus, l.Observation, l.Confidence*100))
		}
	}

	if len(recent) > 0 {
		parts = append(parts, "\nRECENTLY FAILED CONCEPTS (avoid repeating these):")
		for _, g := range recent {
			detail := g.FailureDetail
			if len(detail) > 80 {
				detail = detail[:80]
			}
			parts = append(parts, fmt.Sprintf("  - '%s' failed at %s: %s",
				g.ConceptName, g.FailurePhase, detail))
		}
	}

	if len(trends) > 0 {
		parts = append(parts, "\nCOMMON FAILURE PATTERNS:")
		max := 3
		if len(trends) < max {
			max = len(trends)
		}
		for _, tr := range trends[:max] {
			parts = append(parts, fmt.Sprintf("  - %s:%s: %d occurrences",
				tr.Phase, tr.Reason, tr.Count))
		}
	}

	return strings.Join(parts, "\n")
}

// Lessons returns a copy of all recorded lessons.
func (e *Engine) Lessons() []models.Lesson {
	out := make([]models.Lesson, len(e.lessons))
	copy(out, e.lessons)
	return out
}

// Analyses returns a copy of all recorded failure analyses.
func (e *Engine) Analyses() []models.FailureAnalysis {
	out := make([]models.FailureAnalysis, len(e.analyses))
	copy(out, e.analyses)
	return out
}

// Summary reports the size of the institutional memory.
func (e *Engine) Summary() string {
	validated := 0
	for _, l := range e.lessons {
		if l.ValidationStatus == models.ValidationSupported {
			validated++
		}
	}
	return fmt.Sprintf(
		"Institutional Memory: %d lessons (%d validated), %d concepts in graveyard, %d failure analyses",
		len(e.lessons), validated, len(e.graveyard), len(e.analyses),
	)
}
