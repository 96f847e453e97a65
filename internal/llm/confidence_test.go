package llm

import (
	"math"
	"strings"
	"testing"
)

func TestExtractConfidence(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback float64
		want     float64
	}{
		{"colon form", "I believe this works. Confidence: 0.7", 0.5, 0.7},
		{"colon form no space", "confidence:0.85", 0.5, 0.85},
		{"slash form", "My assessment is 0.6 / 1.0", 0.5, 0.6},
		{"trailing form", "I'd say 0.9 confidence here", 0.5, 0.9},
		{"ten scale scaled down", "Confidence: 8", 0.5, 0.8},
		{"no confidence stated", "This idea seems promising overall.", 0.42, 0.42},
		{"empty text", "", 0.33, 0.33},
		{"uppercase", "CONFIDENCE: 0.75", 0.5, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractConfidence(tt.text, tt.fallback)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ExtractConfidence(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractConfidencePatternPriority(t *testing.T) {
	// When both phrasings appear, "confidence: X" wins over "X confidence".
	text := "I have 0.3 confidence in the market but overall confidence: 0.8"
	if got := ExtractConfidence(text, 0.5); got != 0.8 {
		t.Errorf("ExtractConfidence = %v, want 0.8 (colon form has priority)", got)
	}
}

func TestExtractConfidenceOnlyReadsTail(t *testing.T) {
	// A confidence stated early in a long response is ignored; only
	// the closing lines count.
	text := "confidence: 0.9 " + strings.Repeat("filler words here ", 30) + "end of message"
	if got := ExtractConfidence(text, 0.5); got != 0.5 {
		t.Errorf("ExtractConfidence = %v, want fallback 0.5 for out-of-tail match", got)
	}
}
