// Package repair validates and repairs LLM output into JSON objects. Local
// models routinely wrap JSON in prose, markdown fences, or single quotes;
// this package recovers the object when it can and fails loudly when it
// cannot. Invalid JSON is never silently accepted.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrInvalidJSON indicates the response could not be parsed as a JSON object
// by any recovery stage. Callers must treat this as a failed extraction, not
// as an empty result.
var ErrInvalidJSON = eris.New("repair: response is not valid JSON")

var (
	fencePattern         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// Parse recovers a JSON object from raw model output. Recovery runs in
// stages: strict parse, then boundary slicing (first '{' to last '}'), then
// cosmetic repair of fences, trailing commas, and single quotes. The repaired
// flag reports whether anything beyond the strict parse was needed.
func Parse(raw string) (map[string]any, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, eris.Wrap(ErrInvalidJSON, "empty response")
	}

	if obj, ok := tryParse(raw); ok {
		return obj, false, nil
	}

	if sliced, ok := sliceBoundaries(raw); ok {
		if obj, ok := tryParse(sliced); ok {
			zap.L().Debug("repair: recovered object by boundary slicing")
			return obj, true, nil
		}
		raw = sliced
	}

	repaired := cosmeticRepair(raw)
	if obj, ok := tryParse(repaired); ok {
		zap.L().Debug("repair: recovered object by cosmetic repair")
		return obj, true, nil
	}
	if obj, ok := tryParse(normalizeQuotes(repaired)); ok {
		zap.L().Debug("repair: recovered object by quote normalization")
		return obj, true, nil
	}

	return nil, false, eris.Wrap(ErrInvalidJSON, "all recovery stages failed")
}

func tryParse(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// sliceBoundaries cuts prose surrounding the object: everything before the
// first '{' and after the last '}'.
func sliceBoundaries(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	sliced := raw[start : end+1]
	if sliced == raw {
		return "", false
	}
	return sliced, true
}

func cosmeticRepair(raw string) string {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}

// normalizeQuotes converts single-quoted pseudo-JSON to double quotes. Only
// attempted as the last stage because it corrupts legitimate apostrophes in
// values.
func normalizeQuotes(raw string) string {
	return strings.ReplaceAll(raw, "'", `"`)
}

// Unwrap peels a status envelope off a parsed object. Models sometimes answer
// {"status": "ok", "profile": {...}} despite instructions; the payload is the
// profile map.
func Unwrap(obj map[string]any) map[string]any {
	if len(obj) > 2 {
		return obj
	}
	inner, ok := obj["profile"].(map[string]any)
	if !ok {
		return obj
	}
	if _, hasStatus := obj["status"]; hasStatus || len(obj) == 1 {
		return inner
	}
	return obj
}

// IsTruncated reports whether raw output looks cut off mid-object: unbalanced
// braces outside of strings. Used to decide whether a generation should be
// retried with a larger token budget.
func IsTruncated(raw string) bool {
	depth := 0
	inString := false
	escaped := false
	sawBrace := false
	for _, r := range raw {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
				sawBrace = true
			}
		case '}':
			if !inString {
				depth--
			}
		}
	}
	return sawBrace && depth > 0
}
