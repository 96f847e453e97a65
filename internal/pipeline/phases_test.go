package pipeline

import "testing"

func TestEveryPhaseHasExactlyOneGate(t *testing.T) {
	phases := Phases()
	if len(phases) != 7 {
		t.Fatalf("len(Phases()) = %d, want 7", len(phases))
	}
	if len(gates) != len(phases) {
		t.Errorf("gate table has %d entries for %d phases", len(gates), len(phases))
	}
	for _, p := range phases {
		gate, ok := GateFor(p)
		if !ok {
			t.Errorf("phase %q has no gate", p)
			continue
		}
		if gate.Phase != p {
			t.Errorf("gate for %q points at %q", p, gate.Phase)
		}
		if gate.MinJudgeScore < 1 || gate.MinJudgeScore > 10 {
			t.Errorf("phase %q threshold = %d, want within [1,10]", p, gate.MinJudgeScore)
		}
		if gate.Description == "" {
			t.Errorf("phase %q gate has no description", p)
		}
	}
}

func TestPhaseOrder(t *testing.T) {
	phases := Phases()
	if phases[0] != PhaseIdeation {
		t.Errorf("first phase = %q, want ideation", phases[0])
	}
	if phases[len(phases)-1] != PhaseViability {
		t.Errorf("last phase = %q, want viability", phases[len(phases)-1])
	}
}

func TestGateForUnknownPhase(t *testing.T) {
	if _, ok := GateFor(Phase("shipping")); ok {
		t.Error("GateFor returned a gate for an undefined phase")
	}
}
