// Package jsonutil repairs raw agent output into canonical JSON strings.
//
// Generative models routinely wrap their JSON in commentary or markdown code
// fences. NormalizeResult tries three recovery routes in order and keeps the
// first that parses; when all fail the raw text is returned unchanged so
// downstream consumers can degrade instead of crash.
package jsonutil

import (
	"regexp"
	"strings"
	"time"

	jsonx "github.com/armaanamatya/HackUTD2025/internal/shared/json"
)

// timeNow is swapped in tests to pin the injected timestamp.
var timeNow = time.Now

var fencedBlock = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Timestamp returns the current UTC time in RFC 3339 with a Z suffix,
// the format used for the generated_at field.
func Timestamp() string {
	return timeNow().UTC().Format("2006-01-02T15:04:05Z")
}

// NormalizeResult converts raw agent text into a minified, valid JSON string.
//
// Recovery routes, first success wins:
//  1. the whole string parses as JSON
//  2. a ```json fenced block parses as JSON
//  3. the substring between the first '{' and the last '}' parses as JSON
//
// On success the value is re-serialized compactly; when the value is an
// object without a generated_at string, the current UTC timestamp is
// injected. When every route fails the input is returned unchanged.
func NormalizeResult(raw string) string {
	if out, ok := tryNormalize(raw); ok {
		return out
	}
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		if out, ok := tryNormalize(strings.TrimSpace(m[1])); ok {
			return out
		}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		if out, ok := tryNormalize(raw[start : end+1]); ok {
			return out
		}
	}
	return raw
}

// IsJSON reports whether s parses as a standalone JSON document.
func IsJSON(s string) bool {
	var v any
	return jsonx.Unmarshal([]byte(s), &v) == nil
}

func tryNormalize(s string) (string, bool) {
	var v any
	if err := jsonx.Unmarshal([]byte(s), &v); err != nil {
		return "", false
	}
	if obj, ok := v.(map[string]any); ok {
		if _, ok := obj["generated_at"].(string); !ok {
			obj["generated_at"] = Timestamp()
		}
	}
	out, err := jsonx.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(out), true
}
