package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// confidencePatterns are tried in order; the first match wins, so the
// explicit "confidence: X" phrasing beats the looser "X confidence".
var confidencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`confidence[:\s]+(\d+\.?\d*)`),
	regexp.MustCompile(`(\d+\.?\d*)\s*/\s*1\.0`),
	regexp.MustCompile(`(\d+\.?\d*)\s*confidence`),
}

// confidenceTail is how far back from the end of a response the
// extractor looks. Models state their confidence in closing lines.
const confidenceTail = 200

// ExtractConfidence recovers a numeric confidence from free-form agent
// text. This is an inherently fuzzy integration seam: agents are asked
// to end with "confidence: 0.x" but phrase it loosely. Values on a
// 1-10 scale are scaled down; anything unusable yields the fallback.
func ExtractConfidence(text string, fallback float64) float64 {
	tail := strings.ToLower(text)
	if len(tail) > confidenceTail {
		tail = tail[len(tail)-confidenceTail:]
	}

	for _, pattern := range confidencePatterns {
		match := pattern.FindStringSubmatch(tail)
		if match == nil {
			continue
		}
		val, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if val >= 0 && val <= 1 {
			return val
		}
		if val > 1 && val <= 10 {
			return val / 10
		}
	}
	return fallback
}
