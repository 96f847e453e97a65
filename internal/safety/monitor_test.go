package safety

import (
	"context"
	"errors"
	"testing"
)

func TestMonitorPauseResume(t *testing.T) {
	m := NewMonitor(MonitorConfig{})

	if !m.IsSafeToProceed() {
		t.Fatal("new monitor should be safe to proceed")
	}

	m.Pause()
	if m.Status() != StatusPaused {
		t.Errorf("Status() = %q after Pause, want paused", m.Status())
	}
	if m.IsSafeToProceed() {
		t.Error("IsSafeToProceed() = true while paused")
	}

	// Pause is a no-op when not running.
	m.Pause()
	if m.Status() != StatusPaused {
		t.Errorf("Status() = %q after double Pause, want paused", m.Status())
	}

	m.Resume()
	if !m.IsSafeToProceed() {
		t.Error("IsSafeToProceed() = false after Resume")
	}

	// Resume is a no-op when already running.
	m.Resume()
	if m.Status() != StatusRunning {
		t.Errorf("Status() = %q after double Resume, want running", m.Status())
	}
}

func TestMonitorKillIsTerminal(t *testing.T) {
	m := NewMonitor(MonitorConfig{})
	m.Kill("operator request")

	if m.Status() != StatusKilled {
		t.Fatalf("Status() = %q, want killed", m.Status())
	}

	// No operation revives a killed run.
	m.Resume()
	if m.Status() != StatusKilled {
		t.Errorf("Status() = %q after Resume on killed run, want killed", m.Status())
	}
	m.Pause()
	if m.Status() != StatusKilled {
		t.Errorf("Status() = %q after Pause on killed run, want killed", m.Status())
	}

	// Kill is idempotent.
	m.Kill("again")
	if m.Status() != StatusKilled {
		t.Errorf("Status() = %q after second Kill, want killed", m.Status())
	}
}

func TestMonitorCheckMessageFailsClosed(t *testing.T) {
	m := NewMonitor(MonitorConfig{})
	m.Pause()

	// Not running: kill action without consulting the detector.
	action, flagged := m.CheckMessage(context.Background(), "Visionary", "anything")
	if !flagged || action != ActionKill {
		t.Errorf("CheckMessage() = (%q, %v), want (kill, true) while paused", action, flagged)
	}
	if got := len(m.Detector().Events()); got != 0 {
		t.Errorf("detector recorded %d events, want 0 (fail-closed path)", got)
	}
}

func TestMonitorCheckMessageLogsLoopsAndKills(t *testing.T) {
	m := NewMonitor(MonitorConfig{})
	msg := "the same pitch repeated over and over again"

	// Drive the detector through all three escalation levels.
	flags := 0
	for i := 0; i < 20 && m.Status() == StatusRunning; i++ {
		if _, flagged := m.CheckMessage(context.Background(), "Visionary", msg); flagged {
			flags++
		}
	}

	if m.Status() != StatusKilled {
		t.Fatalf("Status() = %q after repeated loops, want killed", m.Status())
	}
	if flags < 3 {
		t.Errorf("flagged %d loops before kill, want >= 3", flags)
	}

	var sawLoop, sawKill bool
	for _, e := range m.Events() {
		switch {
		case e.EventType == "loop_detected:"+string(ActionInjectPrompt):
			sawLoop = true
		case e.EventType == "killed":
			sawKill = true
		}
	}
	if !sawLoop {
		t.Error("no loop_detected event in the safety log")
	}
	if !sawKill {
		t.Error("no killed event in the safety log")
	}
}

func TestMonitorRecordCostBudgetBreach(t *testing.T) {
	m := NewMonitor(MonitorConfig{
		Ledger: NewLedger(LedgerConfig{BudgetUSD: 0.01}),
	})

	err := m.RecordCost(context.Background(), "Visionary", "claude-sonnet-4-20250514", 100_000, 100_000, "ideation")
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("RecordCost() error = %v, want ErrBudgetExceeded", err)
	}
	if m.Status() != StatusKilled {
		t.Errorf("Status() = %q after budget breach, want killed", m.Status())
	}
	if m.IsSafeToProceed() {
		t.Error("IsSafeToProceed() = true after budget breach")
	}

	var sawBudget bool
	for _, e := range m.Events() {
		if e.EventType == "budget_exceeded" {
			sawBudget = true
		}
	}
	if !sawBudget {
		t.Error("no budget_exceeded event in the safety log")
	}

	// The breaching entry is still in the ledger.
	if got := len(m.Ledger().Entries()); got != 1 {
		t.Errorf("len(Ledger().Entries()) = %d, want 1", got)
	}
}

func TestMonitorRecordCostWithinBudget(t *testing.T) {
	m := NewMonitor(MonitorConfig{})
	if err := m.RecordCost(context.Background(), "Visionary", "gpt-4o-mini", 1000, 500, "ideation"); err != nil {
		t.Fatalf("RecordCost() error = %v", err)
	}
	if m.Status() != StatusRunning {
		t.Errorf("Status() = %q, want running", m.Status())
	}
}

type recordingSink struct {
	events []SafetyEvent
	costs  []CostEntry
}

func (s *recordingSink) SaveSafetyEvent(_ context.Context, _ string, event SafetyEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) SaveCostEntry(_ context.Context, _ string, entry CostEntry) error {
	s.costs = append(s.costs, entry)
	return nil
}

func TestMonitorForwardsToSink(t *testing.T) {
	sink := &recordingSink{}
	m := NewMonitor(MonitorConfig{Sink: sink})
	m.SetSession("sess-1")

	if err := m.RecordCost(context.Background(), "Visionary", "gpt-4o-mini", 1000, 500, "ideation"); err != nil {
		t.Fatalf("RecordCost() error = %v", err)
	}
	m.Kill("done testing")

	if len(sink.costs) != 1 {
		t.Errorf("sink received %d cost entries, want 1", len(sink.costs))
	}
	if len(sink.events) != 1 {
		t.Errorf("sink received %d safety events, want 1", len(sink.events))
	}
}
