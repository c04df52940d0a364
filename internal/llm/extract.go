package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// StructuredReply is the two-field record the model is instructed to produce.
// output is expected to be a constrained token such as "yes"/"no"/"unknown";
// summary is free text. Neither field is validated beyond presence.
type StructuredReply struct {
	Output  string `json:"output"`
	Summary string `json:"summary"`
}

const defaultOutput = "unknown"

// replyPattern locates the smallest span that looks like a flat JSON object
// containing an "output" key with a quoted string value. Escaped quotes and
// newlines inside the span are allowed; other keys may surround it.
var replyPattern = regexp.MustCompile(`(?s)\{[^{}]*"output"\s*:\s*"(?:[^"\\]|\\.)*"[^{}]*\}`)

// Extract recovers a StructuredReply from a model's free-form reply text.
// It never fails: when no parseable JSON object is found, the whole trimmed
// reply becomes the summary and output defaults to "unknown". This fallback
// is the designated safety net for a model that ignores the requested format.
func Extract(raw string) StructuredReply {
	fallback := StructuredReply{
		Output:  defaultOutput,
		Summary: strings.TrimSpace(raw),
	}

	span := replyPattern.FindString(raw)
	if span == "" {
		return fallback
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return fallback
	}

	out := fallback
	if v, ok := parsed["output"].(string); ok && v != "" {
		out.Output = v
	}
	if v, ok := parsed["summary"].(string); ok && v != "" {
		out.Summary = v
	}
	return out
}
