package llm

import (
	"testing"

	"github.com/ideaforge/ideaforge/internal/models"
)

func TestParseIdeaBatch(t *testing.T) {
	response := `Here are my ideas:
` + "```json" + `
{"ideas": [
  {"name": "DevLog", "elevator_pitch": "changelog automation for small teams",
   "target_audience": "OSS maintainers", "problem_statement": "release notes are tedious",
   "value_proposition": "one command release notes", "confidence": 0.8},
  {"name": "FormPilot", "elevator_pitch": "AI form filling", "confidence": 1.7}
]}
` + "```" + `
Let me know if you want more.`

	batch, err := parseIdeaBatch(response)
	if err != nil {
		t.Fatalf("parseIdeaBatch() error = %v", err)
	}
	if len(batch.Ideas) != 2 {
		t.Fatalf("len(Ideas) = %d, want 2", len(batch.Ideas))
	}

	first := batch.Ideas[0]
	if first.Name != "DevLog" {
		t.Errorf("Name = %q, want DevLog", first.Name)
	}
	if first.ID == "" {
		t.Error("idea got no ID")
	}
	if first.Status != models.IdeaDraft {
		t.Errorf("Status = %q, want draft", first.Status)
	}
	if first.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", first.Confidence)
	}

	// Out-of-range confidence is clamped.
	if batch.Ideas[1].Confidence != 1.0 {
		t.Errorf("clamped Confidence = %v, want 1.0", batch.Ideas[1].Confidence)
	}
}

func TestParseIdeaBatchBareJSON(t *testing.T) {
	batch, err := parseIdeaBatch(`{"ideas": [{"name": "A", "elevator_pitch": "p", "confidence": 0.5}]}`)
	if err != nil {
		t.Fatalf("parseIdeaBatch() error = %v", err)
	}
	if len(batch.Ideas) != 1 {
		t.Errorf("len(Ideas) = %d, want 1", len(batch.Ideas))
	}
}

func TestParseIdeaBatchErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I could not produce ideas today, sorry."},
		{"empty ideas", `{"ideas": []}`},
		{"wrong shape", `{"products": [1, 2, 3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseIdeaBatch(tt.response); err == nil {
				t.Error("parseIdeaBatch() error = nil, want parse failure")
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced", "prose\n```json\n{\"a\": 1}\n```\nmore prose", `{"a": 1}`},
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"object in prose", `Sure! {"a": 1} Hope that helps.`, `{"a": 1}`},
		{"array", `[1, 2, 3]`, `[1, 2, 3]`},
		{"no json at all", "just words", "just words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
