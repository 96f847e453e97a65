package db

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/safety"
)

// Wire records decouple the audit schema from the in-memory types: each
// row carries the session it belongs to, and record IDs live in the
// record key rather than a payload field.

// SessionRecord is one pipeline run as stored in the session table.
type SessionRecord struct {
	ID        surrealmodels.RecordID `json:"id"`
	Status    string                 `json:"status"`
	Phase     string                 `json:"phase"`
	StartedAt time.Time              `json:"started_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SessionID returns the session's string key.
func (r SessionRecord) SessionID() string {
	return recordKey(r.ID)
}

type ideaRecord struct {
	ID               surrealmodels.RecordID `json:"id,omitempty"`
	SessionID        string                 `json:"session_id"`
	Name             string                 `json:"name"`
	ElevatorPitch    string                 `json:"elevator_pitch"`
	TargetAudience   string                 `json:"target_audience,omitempty"`
	ProblemStatement string                 `json:"problem_statement,omitempty"`
	ValueProposition string                 `json:"value_proposition,omitempty"`
	Confidence       float64                `json:"confidence"`
	Status           string                 `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
}

type costEntryRecord struct {
	SessionID    string    `json:"session_id"`
	AgentName    string    `json:"agent_name"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	Phase        string    `json:"phase"`
	Timestamp    time.Time `json:"timestamp"`
}

type safetyEventRecord struct {
	SessionID string    `json:"session_id"`
	EventType string    `json:"event_type"`
	AgentName string    `json:"agent_name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type lessonRecord struct {
	ID               surrealmodels.RecordID `json:"id,omitempty"`
	SessionID        string                 `json:"session_id"`
	AgentName        string                 `json:"agent_name"`
	Phase            string                 `json:"phase"`
	Category         string                 `json:"category"`
	Observation      string                 `json:"observation"`
	Evidence         string                 `json:"evidence"`
	Confidence       float64                `json:"confidence"`
	ValidationStatus string                 `json:"validation_status"`
	CreatedAt        time.Time              `json:"created_at"`
}

type graveyardRecord struct {
	ID                     surrealmodels.RecordID `json:"id,omitempty"`
	SessionID              string                 `json:"session_id"`
	ConceptName            string                 `json:"concept_name"`
	ElevatorPitch          string                 `json:"elevator_pitch"`
	FailurePhase           string                 `json:"failure_phase"`
	FailureReason          string                 `json:"failure_reason"`
	FailureDetail          string                 `json:"failure_detail"`
	SalvagedComponents     []string               `json:"salvaged_components"`
	ResurrectionConditions string                 `json:"resurrection_conditions"`
	JudgeScore             int                    `json:"judge_score"`
	ArchivedAt             time.Time              `json:"archived_at"`
}

// recordKey extracts the string key from a record ID.
func recordKey(id surrealmodels.RecordID) string {
	if s, ok := id.ID.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", id.ID)
}

// SaveSession creates or updates the session row for a run.
// started_at is set on first write and never touched again.
func (c *Client) SaveSession(ctx context.Context, sessionID, status, phase string) error {
	sql := `UPSERT type::record("session", $id) SET status = $status, phase = $phase, updated_at = time::now()`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"id":     sessionID,
		"status": status,
		"phase":  phase,
	})
	if err != nil {
		return fmt.Errorf("save session: %w", wrapQueryError(err))
	}
	return nil
}

// SaveIdea writes an idea under its own ID. Saving the same idea again
// replaces the row, so the stored status always reflects the latest
// gate decision.
func (c *Client) SaveIdea(ctx context.Context, sessionID string, idea *models.ProductIdea) error {
	record := ideaRecord{
		SessionID:        sessionID,
		Name:             idea.Name,
		ElevatorPitch:    idea.ElevatorPitch,
		TargetAudience:   idea.TargetAudience,
		ProblemStatement: idea.ProblemStatement,
		ValueProposition: idea.ValueProposition,
		Confidence:       idea.Confidence,
		Status:           string(idea.Status),
		CreatedAt:        idea.CreatedAt,
	}
	sql := `UPSERT type::record("idea", $id) CONTENT $data RETURN NONE`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"id":   idea.ID,
		"data": record,
	})
	if err != nil {
		return fmt.Errorf("save idea: %w", wrapQueryError(err))
	}
	return nil
}

// SaveCostEntry appends one billable call to the session's ledger.
func (c *Client) SaveCostEntry(ctx context.Context, sessionID string, entry safety.CostEntry) error {
	record := costEntryRecord{
		SessionID:    sessionID,
		AgentName:    entry.AgentName,
		Model:        entry.Model,
		InputTokens:  entry.InputTokens,
		OutputTokens: entry.OutputTokens,
		CostUSD:      entry.CostUSD,
		Phase:        entry.Phase,
		Timestamp:    entry.Timestamp,
	}
	sql := `CREATE cost_entry CONTENT $data RETURN NONE`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{"data": record})
	if err != nil {
		return fmt.Errorf("save cost entry: %w", wrapQueryError(err))
	}
	return nil
}

// SaveSafetyEvent appends one audit event to the session's log.
func (c *Client) SaveSafetyEvent(ctx context.Context, sessionID string, event safety.SafetyEvent) error {
	record := safetyEventRecord{
		SessionID: sessionID,
		EventType: event.EventType,
		AgentName: event.AgentName,
		Message:   event.Message,
		Timestamp: event.Timestamp,
	}
	sql := `CREATE safety_event CONTENT $data RETURN NONE`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{"data": record})
	if err != nil {
		return fmt.Errorf("save safety event: %w", wrapQueryError(err))
	}
	return nil
}

// SaveLesson writes a lesson under its own ID.
func (c *Client) SaveLesson(ctx context.Context, lesson models.Lesson) error {
	record := lessonRecord{
		SessionID:        lesson.SessionID,
		AgentName:        lesson.AgentName,
		Phase:            lesson.Phase,
		Category:         string(lesson.Category),
		Observation:      lesson.Observation,
		Evidence:         lesson.Evidence,
		Confidence:       lesson.Confidence,
		ValidationStatus: string(lesson.ValidationStatus),
		CreatedAt:        lesson.CreatedAt,
	}
	sql := `UPSERT type::record("lesson", $id) CONTENT $data RETURN NONE`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"id":   lesson.ID,
		"data": record,
	})
	if err != nil {
		return fmt.Errorf("save lesson: %w", wrapQueryError(err))
	}
	return nil
}

// SaveGraveyardEntry writes an archived idea under its own ID.
func (c *Client) SaveGraveyardEntry(ctx context.Context, entry models.GraveyardEntry) error {
	salvaged := entry.SalvagedComponents
	if salvaged == nil {
		salvaged = []string{}
	}
	record := graveyardRecord{
		SessionID:              entry.SessionID,
		ConceptName:            entry.ConceptName,
		ElevatorPitch:          entry.ElevatorPitch,
		FailurePhase:           entry.FailurePhase,
		FailureReason:          string(entry.FailureReason),
		FailureDetail:          entry.FailureDetail,
		SalvagedComponents:     salvaged,
		ResurrectionConditions: entry.ResurrectionConditions,
		JudgeScore:             entry.JudgeScore,
		ArchivedAt:             entry.ArchivedAt,
	}
	sql := `UPSERT type::record("graveyard", $id) CONTENT $data RETURN NONE`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"id":   entry.ID,
		"data": record,
	})
	if err != nil {
		return fmt.Errorf("save graveyard entry: %w", wrapQueryError(err))
	}
	return nil
}

// SessionCosts returns a session's cost entries in chronological order.
func (c *Client) SessionCosts(ctx context.Context, sessionID string) ([]safety.CostEntry, error) {
	sql := `SELECT * FROM cost_entry WHERE session_id = $session ORDER BY timestamp ASC`
	results, err := surrealdb.Query[[]costEntryRecord](ctx, c.db, sql, map[string]any{"session": sessionID})
	if err != nil {
		return nil, fmt.Errorf("session costs: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	var entries []safety.CostEntry
	for _, r := range (*results)[0].Result {
		entries = append(entries, safety.CostEntry{
			AgentName:    r.AgentName,
			Model:        r.Model,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			CostUSD:      r.CostUSD,
			Phase:        r.Phase,
			Timestamp:    r.Timestamp,
		})
	}
	return entries, nil
}

// SessionEvents returns a session's safety events in chronological order.
func (c *Client) SessionEvents(ctx context.Context, sessionID string) ([]safety.SafetyEvent, error) {
	sql := `SELECT * FROM safety_event WHERE session_id = $session ORDER BY timestamp ASC`
	results, err := surrealdb.Query[[]safetyEventRecord](ctx, c.db, sql, map[string]any{"session": sessionID})
	if err != nil {
		return nil, fmt.Errorf("session events: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	var events []safety.SafetyEvent
	for _, r := range (*results)[0].Result {
		events = append(events, safety.SafetyEvent{
			EventType: r.EventType,
			AgentName: r.AgentName,
			Message:   r.Message,
			Timestamp: r.Timestamp,
		})
	}
	return events, nil
}

// SessionIdeas returns every idea recorded for a session.
func (c *Client) SessionIdeas(ctx context.Context, sessionID string) ([]*models.ProductIdea, error) {
	sql := `SELECT * FROM idea WHERE session_id = $session ORDER BY created_at ASC`
	results, err := surrealdb.Query[[]ideaRecord](ctx, c.db, sql, map[string]any{"session": sessionID})
	if err != nil {
		return nil, fmt.Errorf("session ideas: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	var ideas []*models.ProductIdea
	for _, r := range (*results)[0].Result {
		ideas = append(ideas, &models.ProductIdea{
			ID:               recordKey(r.ID),
			Name:             r.Name,
			ElevatorPitch:    r.ElevatorPitch,
			TargetAudience:   r.TargetAudience,
			ProblemStatement: r.ProblemStatement,
			ValueProposition: r.ValueProposition,
			Confidence:       r.Confidence,
			Status:           models.IdeaStatus(r.Status),
			CreatedAt:        r.CreatedAt,
		})
	}
	return ideas, nil
}

// Lessons returns the most recent lessons across all sessions.
func (c *Client) Lessons(ctx context.Context, limit int) ([]models.Lesson, error) {
	if limit <= 0 {
		limit = 50
	}
	sql := `SELECT * FROM lesson ORDER BY created_at DESC LIMIT $limit`
	results, err := surrealdb.Query[[]lessonRecord](ctx, c.db, sql, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("lessons: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	var lessons []models.Lesson
	for _, r := range (*results)[0].Result {
		lessons = append(lessons, models.Lesson{
			ID:               recordKey(r.ID),
			SessionID:        r.SessionID,
			AgentName:        r.AgentName,
			Phase:            r.Phase,
			Category:         models.LessonCategory(r.Category),
			Observation:      r.Observation,
			Evidence:         r.Evidence,
			Confidence:       r.Confidence,
			ValidationStatus: models.ValidationStatus(r.ValidationStatus),
			CreatedAt:        r.CreatedAt,
		})
	}
	return lessons, nil
}

// Graveyard returns the most recently archived ideas across all sessions.
func (c *Client) Graveyard(ctx context.Context, limit int) ([]models.GraveyardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	sql := `SELECT * FROM graveyard ORDER BY archived_at DESC LIMIT $limit`
	results, err := surrealdb.Query[[]graveyardRecord](ctx, c.db, sql, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("graveyard: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	var entries []models.GraveyardEntry
	for _, r := range (*results)[0].Result {
		entries = append(entries, models.GraveyardEntry{
			ID:                     recordKey(r.ID),
			SessionID:              r.SessionID,
			ConceptName:            r.ConceptName,
			ElevatorPitch:          r.ElevatorPitch,
			FailurePhase:           r.FailurePhase,
			FailureReason:          models.FailureReason(r.FailureReason),
			FailureDetail:          r.FailureDetail,
			SalvagedComponents:     r.SalvagedComponents,
			ResurrectionConditions: r.ResurrectionConditions,
			JudgeScore:             r.JudgeScore,
			ArchivedAt:             r.ArchivedAt,
		})
	}
	return entries, nil
}

// RecentSessions returns the latest pipeline runs, newest first.
func (c *Client) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	sql := `SELECT * FROM session ORDER BY updated_at DESC LIMIT $limit`
	results, err := surrealdb.Query[[]SessionRecord](ctx, c.db, sql, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}
