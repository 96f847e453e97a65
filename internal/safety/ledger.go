package safety

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrBudgetExceeded is returned by Ledger.Record when the running total
// reaches the configured budget. The triggering entry is still recorded,
// so the ledger reflects the exact call that tripped the limit.
var ErrBudgetExceeded = errors.New("budget exceeded")

// Price is a per-model (input, output) price pair in USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// defaultPricing covers the models the pipeline runs against. Unknown
// models fall back to a conservative pair so a typo in a model name
// can never under-count spend.
var defaultPricing = map[string]Price{
	"claude-sonnet-4-20250514":  {3.00, 15.00},
	"claude-haiku-3-5-20241022": {0.80, 4.00},
	"claude-opus-4-20250514":    {15.00, 75.00},
	"gpt-4o-mini":               {0.15, 0.60},
	"gpt-4o":                    {2.50, 10.00},
}

var defaultFallback = Price{5.00, 15.00}

// CostEntry is one billable call's record. Entries are append-only and
// never edited; the computed cost is derived at record time.
type CostEntry struct {
	AgentName    string    `json:"agent_name"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	Phase        string    `json:"phase"`
	Timestamp    time.Time `json:"timestamp"`
}

// LedgerConfig configures a Ledger. Pricing and Fallback are optional
// overrides for the built-in table.
type LedgerConfig struct {
	BudgetUSD float64
	Pricing   map[string]Price
	Fallback  *Price
}

// Ledger tracks cumulative LLM spend against a fixed budget.
// It is not safe for concurrent use; the pipeline mutates it from a
// single goroutine.
type Ledger struct {
	budget   float64
	pricing  map[string]Price
	fallback Price
	entries  []CostEntry
}

// NewLedger creates a ledger with the given budget.
func NewLedger(cfg LedgerConfig) *Ledger {
	budget := cfg.BudgetUSD
	if budget <= 0 {
		budget = 15.0
	}
	pricing := cfg.Pricing
	if pricing == nil {
		pricing = defaultPricing
	}
	fallback := defaultFallback
	if cfg.Fallback != nil {
		fallback = *cfg.Fallback
	}
	return &Ledger{budget: budget, pricing: pricing, fallback: fallback}
}

// Record appends a cost entry for one API call. Returns the entry and,
// if the call pushed the total to or past the budget, ErrBudgetExceeded.
func (l *Ledger) Record(agentName, model string, inputTokens, outputTokens int, phase string) (*CostEntry, error) {
	price, ok := l.pricing[model]
	if !ok {
		price = l.fallback
	}
	cost := (float64(inputTokens)*price.Input + float64(outputTokens)*price.Output) / 1_000_000

	entry := CostEntry{
		AgentName:    agentName,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostUSD:      cost,
		Phase:        phase,
		Timestamp:    time.Now().UTC(),
	}
	l.entries = append(l.entries, entry)

	if l.OverBudget() {
		return &l.entries[len(l.entries)-1], fmt.Errorf("%w: $%.4f / $%.2f", ErrBudgetExceeded, l.Total(), l.budget)
	}
	return &l.entries[len(l.entries)-1], nil
}

// Total is the total spend so far, a fold over all entries.
func (l *Ledger) Total() float64 {
	var total float64
	for _, e := range l.entries {
		total += e.CostUSD
	}
	return total
}

// Remaining is how much budget is left, never negative.
func (l *Ledger) Remaining() float64 {
	if r := l.budget - l.Total(); r > 0 {
		return r
	}
	return 0
}

// OverBudget reports whether spend has reached the budget. Once true it
// stays true: entries are never removed.
func (l *Ledger) OverBudget() bool {
	return l.Total() >= l.budget
}

// Budget returns the configured ceiling.
func (l *Ledger) Budget() float64 {
	return l.budget
}

// Entries returns a copy of the recorded entries.
func (l *Ledger) Entries() []CostEntry {
	out := make([]CostEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ByAgent breaks total cost down by agent name.
func (l *Ledger) ByAgent() map[string]float64 {
	costs := make(map[string]float64)
	for _, e := range l.entries {
		costs[e.AgentName] += e.CostUSD
	}
	return costs
}

// ByPhase breaks total cost down by phase. Entries recorded without a
// phase are grouped under "unassigned".
func (l *Ledger) ByPhase() map[string]float64 {
	costs := make(map[string]float64)
	for _, e := range l.entries {
		key := e.Phase
		if key == "" {
			key = "unassigned"
		}
		costs[key] += e.CostUSD
	}
	return costs
}

// Summary renders a human-readable spend breakdown.
func (l *Ledger) Summary() string {
	total := l.Total()
	lines := []string{
		fmt.Sprintf("Total: $%.4f / $%.2f (%.1f%%)", total, l.budget, total/l.budget*100),
		fmt.Sprintf("Remaining: $%.4f", l.Remaining()),
		fmt.Sprintf("API calls: %d", len(l.entries)),
	}
	byAgent := l.ByAgent()
	agents := make([]string, 0, len(byAgent))
	for agent := range byAgent {
		agents = append(agents, agent)
	}
	sort.Strings(agents)
	for _, agent := range agents {
		lines = append(lines, fmt.Sprintf("  %s: $%.4f", agent, byAgent[agent]))
	}
	return strings.Join(lines, "\n")
}
