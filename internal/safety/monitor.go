// Package safety is the authority gating all agent activity: it combines
// budget enforcement, loop detection, pause/resume, and the kill switch
// into a single monitor the pipeline consults before and after every
// unit of work.
package safety

import (
	"context"
	"log/slog"
	"time"
)

// Status is the run state of the pipeline.
type Status string

const (
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusKilled  Status = "killed"

	// StatusCompleted is a display-only terminal state for dashboards.
	// The monitor never sets it.
	StatusCompleted Status = "completed"
)

// SafetyEvent is an audit record of a state change or notable occurrence.
// The event log alone must be enough to reconstruct what happened and why.
type SafetyEvent struct {
	EventType string    `json:"event_type"`
	AgentName string    `json:"agent_name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditSink receives safety events and cost entries as they are produced,
// keyed by session, for audit and replay beyond the process lifetime.
// Sink failures are logged and never fail the run.
type AuditSink interface {
	SaveSafetyEvent(ctx context.Context, sessionID string, event SafetyEvent) error
	SaveCostEntry(ctx context.Context, sessionID string, entry CostEntry) error
}

// maxEvents bounds the in-memory event log in long-lived processes.
// Older events are still in the audit sink if one is configured.
const maxEvents = 1000

// MonitorConfig configures a Monitor. All fields are optional; zero
// values select in-memory defaults.
type MonitorConfig struct {
	Ledger   *Ledger
	Detector *LoopDetector
	Sink     AuditSink
	Logger   *slog.Logger
}

// Monitor combines the cost ledger, loop detector, and run state into
// the single authority the controller checks before every action.
//
// State machine: RUNNING and PAUSED are interchangeable under operator
// control; RUNNING or PAUSED transition one-way to KILLED on budget
// breach, loop escalation, or manual kill. KILLED is terminal.
type Monitor struct {
	status    Status
	ledger    *Ledger
	detector  *LoopDetector
	events    []SafetyEvent
	sink      AuditSink
	sessionID string
	logger    *slog.Logger
}

// NewMonitor creates a monitor in the RUNNING state.
func NewMonitor(cfg MonitorConfig) *Monitor {
	ledger := cfg.Ledger
	if ledger == nil {
		ledger = NewLedger(LedgerConfig{})
	}
	detector := cfg.Detector
	if detector == nil {
		detector = NewLoopDetector(0, 0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		status:   StatusRunning,
		ledger:   ledger,
		detector: detector,
		sink:     cfg.Sink,
		logger:   logger,
	}
}

// SetSession sets the session ID under which audit records are persisted.
func (m *Monitor) SetSession(sessionID string) {
	m.sessionID = sessionID
}

// Status returns the current run state.
func (m *Monitor) Status() Status {
	return m.status
}

// IsSafeToProceed reports whether agents may act.
func (m *Monitor) IsSafeToProceed() bool {
	return m.status == StatusRunning
}

// CheckMessage runs an agent's output through the loop detector. When
// the system is not running it returns ActionKill without consulting
// the detector: the monitor fails closed. A KILL action from the
// detector also trips the kill switch.
func (m *Monitor) CheckMessage(ctx context.Context, agentName, message string) (Action, bool) {
	if !m.IsSafeToProceed() {
		return ActionKill, true
	}

	action, flagged := m.detector.Check(agentName, message)
	if !flagged {
		return "", false
	}

	m.logEvent(ctx, SafetyEvent{
		EventType: "loop_detected:" + string(action),
		AgentName: agentName,
		Message:   "Loop detected — action: " + string(action),
		Timestamp: time.Now().UTC(),
	})
	if action == ActionKill {
		m.Kill("Loop escalation — agent stuck in a repetition loop")
	}
	return action, true
}

// RecordCost records an API call's cost. A budget breach logs a safety
// event, trips the kill switch, and returns the error: callers must
// treat it as fatal for the run.
func (m *Monitor) RecordCost(ctx context.Context, agentName, model string, inputTokens, outputTokens int, phase string) error {
	entry, err := m.ledger.Record(agentName, model, inputTokens, outputTokens, phase)
	if entry != nil && m.sink != nil {
		if serr := m.sink.SaveCostEntry(ctx, m.sessionID, *entry); serr != nil {
			m.logger.Warn("failed to persist cost entry", "error", serr)
		}
	}
	if err != nil {
		m.logEvent(ctx, SafetyEvent{
			EventType: "budget_exceeded",
			AgentName: agentName,
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		})
		m.Kill(err.Error())
		return err
	}
	return nil
}

// Pause stops the pipeline at the next safety check. Only effective
// from RUNNING; a no-op otherwise.
func (m *Monitor) Pause() {
	if m.status != StatusRunning {
		return
	}
	m.status = StatusPaused
	m.logEvent(context.Background(), SafetyEvent{
		EventType: "paused",
		AgentName: "system",
		Message:   "Pipeline paused by operator",
		Timestamp: time.Now().UTC(),
	})
}

// Resume restarts a paused pipeline. Only effective from PAUSED; in
// particular it can never revive a killed run.
func (m *Monitor) Resume() {
	if m.status != StatusPaused {
		return
	}
	m.status = StatusRunning
	m.logEvent(context.Background(), SafetyEvent{
		EventType: "resumed",
		AgentName: "system",
		Message:   "Pipeline resumed by operator",
		Timestamp: time.Now().UTC(),
	})
}

// Kill halts everything. Terminal and idempotent.
func (m *Monitor) Kill(reason string) {
	if reason == "" {
		reason = "Manual kill"
	}
	m.status = StatusKilled
	m.logEvent(context.Background(), SafetyEvent{
		EventType: "killed",
		AgentName: "system",
		Message:   "KILL SWITCH: " + reason,
		Timestamp: time.Now().UTC(),
	})
}

// Events returns a copy of the in-memory safety event log.
func (m *Monitor) Events() []SafetyEvent {
	out := make([]SafetyEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Ledger exposes the cost ledger for read-only reporting.
func (m *Monitor) Ledger() *Ledger {
	return m.ledger
}

// Detector exposes the loop detector for read-only reporting.
func (m *Monitor) Detector() *LoopDetector {
	return m.detector
}

func (m *Monitor) logEvent(ctx context.Context, event SafetyEvent) {
	m.events = append(m.events, event)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	m.logger.Info("safety event",
		"type", event.EventType,
		"agent", event.AgentName,
		"message", event.Message,
	)
	if m.sink != nil {
		if err := m.sink.SaveSafetyEvent(ctx, m.sessionID, event); err != nil {
			m.logger.Warn("failed to persist safety event", "error", err)
		}
	}
}
