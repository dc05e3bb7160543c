package ai

import (
	"regexp"
	"strings"
)

// Model output is JSON in spirit but not always in letter. The cleanups below
// cover the failure modes seen in practice: markdown fences around the
// payload, unit suffixes glued onto numbers, bare numeric ranges in rep
// fields, and NaN where a number was expected.
var (
	fenceRe      = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	unitSuffixRe = regexp.MustCompile(`(:\s*-?\d+(?:\.\d+)?)\s*(?:g|kg|ml|kcal|cal|mins?|minutes?|secs?|seconds?)\b`)
	repsRangeRe  = regexp.MustCompile(`("reps"\s*:\s*)(\d+\s*-\s*\d+|N/A)`)
	nanRe        = regexp.MustCompile(`\bNaN\b`)
)

// SanitizeJSON extracts and repairs the JSON object from a raw completion so
// it can be unmarshalled. It returns the input unchanged when nothing matched.
func SanitizeJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	// Drop any prose before the first brace and after the last one.
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	s = unitSuffixRe.ReplaceAllString(s, "$1")
	s = repsRangeRe.ReplaceAllString(s, `$1"$2"`)
	s = nanRe.ReplaceAllString(s, "0")

	return s
}
