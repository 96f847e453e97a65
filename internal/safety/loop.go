package safety

import (
	"strings"
	"time"
)

// Action is the escalating response to a detected loop.
type Action string

const (
	ActionInjectPrompt Action = "inject_prompt"
	ActionSkipTurn     Action = "skip_turn"
	ActionKill         Action = "kill"
)

// LoopEvent records a detected repetition, including the exact message
// window that triggered it.
type LoopEvent struct {
	AgentName       string    `json:"agent_name"`
	ActionTaken     Action    `json:"action_taken"`
	SimilarityScore float64   `json:"similarity_score"`
	MessageWindow   []string  `json:"message_window"`
	Timestamp       time.Time `json:"timestamp"`
}

// LoopDetector flags agents that emit near-duplicate consecutive messages.
//
// Each new message is compared against a sliding window of that agent's
// recent messages using word-set Jaccard similarity. Jaccard is fast,
// free, and catches the verbatim or near-verbatim repetition LLMs produce
// when stuck, without extra API calls for embeddings.
type LoopDetector struct {
	threshold  float64
	windowSize int
	history    map[string][]string
	events     []LoopEvent
}

// NewLoopDetector creates a detector. Zero values select the defaults:
// threshold 0.85, window 3.
func NewLoopDetector(threshold float64, windowSize int) *LoopDetector {
	if threshold <= 0 {
		threshold = 0.85
	}
	if windowSize <= 0 {
		windowSize = 3
	}
	return &LoopDetector{
		threshold:  threshold,
		windowSize: windowSize,
		history:    make(map[string][]string),
	}
}

// Check examines a new message for loop patterns. The second return is
// false when no loop was detected. The escalation is keyed by how many
// loops were already flagged for the agent: first offence nudges the
// agent with a prompt injection, second skips its turn, third and
// beyond kills the run.
func (d *LoopDetector) Check(agentName, message string) (Action, bool) {
	history := d.history[agentName]

	similarCount := 0
	start := len(history) - d.windowSize
	if start < 0 {
		start = 0
	}
	for _, past := range history[start:] {
		if jaccard(message, past) >= d.threshold {
			similarCount++
		}
	}

	history = append(history, message)
	if len(history) > d.windowSize*3 {
		history = history[len(history)-d.windowSize*3:]
	}
	d.history[agentName] = history

	if similarCount < d.windowSize-1 {
		return "", false
	}

	prior := 0
	for _, e := range d.events {
		if e.AgentName == agentName {
			prior++
		}
	}

	var action Action
	switch {
	case prior >= 2:
		action = ActionKill
	case prior >= 1:
		action = ActionSkipTurn
	default:
		action = ActionInjectPrompt
	}

	windowStart := len(history) - d.windowSize
	if windowStart < 0 {
		windowStart = 0
	}
	window := make([]string, len(history[windowStart:]))
	copy(window, history[windowStart:])

	d.events = append(d.events, LoopEvent{
		AgentName:       agentName,
		ActionTaken:     action,
		SimilarityScore: d.threshold,
		MessageWindow:   window,
		Timestamp:       time.Now().UTC(),
	})
	return action, true
}

// Events returns a copy of all recorded loop events.
func (d *LoopDetector) Events() []LoopEvent {
	out := make([]LoopEvent, len(d.events))
	copy(out, d.events)
	return out
}

// jaccard computes word-set Jaccard similarity between two texts:
// |intersection| / |union| of their lowercased word sets. Returns 0
// when either side has no words.
func jaccard(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
