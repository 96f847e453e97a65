// Package pipeline drives product ideas through ordered phases with
// quality gates, under the authority of the safety monitor.
package pipeline

// Phase identifies one stage of the product R&D pipeline.
type Phase string

const (
	PhaseIdeation       Phase = "ideation"
	PhaseMarketResearch Phase = "market_research"
	PhaseFeasibility    Phase = "feasibility"
	PhaseProductDesign  Phase = "product_design"
	PhasePrototyping    Phase = "prototyping"
	PhaseTesting        Phase = "testing"
	PhaseViability      Phase = "viability"
)

// phaseOrder is the canonical execution order.
var phaseOrder = []Phase{
	PhaseIdeation,
	PhaseMarketResearch,
	PhaseFeasibility,
	PhaseProductDesign,
	PhasePrototyping,
	PhaseTesting,
	PhaseViability,
}

// Phases returns the pipeline phases in execution order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// Gate is what must be true for an idea to pass a phase. The table is
// fixed configuration: loaded once, never mutated at runtime.
type Gate struct {
	Phase         Phase
	MinJudgeScore int
	Description   string
}

var gates = map[Phase]Gate{
	PhaseIdeation: {
		Phase: PhaseIdeation, MinJudgeScore: 6,
		Description: "Novelty and clarity pass minimum bar",
	},
	PhaseMarketResearch: {
		Phase: PhaseMarketResearch, MinJudgeScore: 7,
		Description: "Market evidence supports the concept",
	},
	PhaseFeasibility: {
		Phase: PhaseFeasibility, MinJudgeScore: 7,
		Description: "Technical approach is viable and scoped",
	},
	PhaseProductDesign: {
		Phase: PhaseProductDesign, MinJudgeScore: 8,
		Description: "PRD is complete and internally consistent",
	},
	PhasePrototyping: {
		Phase: PhasePrototyping, MinJudgeScore: 7,
		Description: "Code passes tests and review",
	},
	PhaseTesting: {
		Phase: PhaseTesting, MinJudgeScore: 7,
		Description: "Coverage >= 80%, pass rate >= 90%",
	},
	PhaseViability: {
		Phase: PhaseViability, MinJudgeScore: 8,
		Description: "Final go/no-go — holistic viability",
	},
}

// GateFor looks up the gate for a phase.
func GateFor(p Phase) (Gate, bool) {
	g, ok := gates[p]
	return g, ok
}
