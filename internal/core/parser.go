package core

import (
	"encoding/json"
	"strings"
)

// judgmentPayload is the wire shape the model is prompted to produce.
// print_failed is a pointer so an absent key parses to VerdictUnknown.
type judgmentPayload struct {
	PrintFailed *bool  `json:"print_failed"`
	Explanation string `json:"explanation"`
}

// ParseJudgment extracts a Judgment from raw model response text.
// The payload may arrive inside a fenced code block (with or without a
// language tag, the current envelope) or as bare text (the legacy
// envelope); both are accepted.
func ParseJudgment(raw string) (*Judgment, error) {
	candidate := strings.TrimSpace(unfence(raw))

	var payload judgmentPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		// Fall back to extracting the outermost JSON object
		start := strings.Index(candidate, "{")
		end := strings.LastIndex(candidate, "}")
		if start < 0 || end <= start {
			return nil, &MalformedResponseError{Raw: raw, Reason: "no JSON object in response"}
		}
		if err := json.Unmarshal([]byte(candidate[start:end+1]), &payload); err != nil {
			return nil, &MalformedResponseError{Raw: raw, Reason: "response is not valid JSON"}
		}
	}

	judgment := &Judgment{Explanation: payload.Explanation}
	switch {
	case payload.PrintFailed == nil:
		judgment.Verdict = VerdictUnknown
	case *payload.PrintFailed:
		judgment.Verdict = VerdictFailed
	default:
		judgment.Verdict = VerdictHealthy
	}
	return judgment, nil
}

// unfence strips a surrounding markdown code fence, if present.
// An optional language tag after the opening fence is discarded.
func unfence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return raw
	}

	body := trimmed[3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Anything before the first newline is the language tag
		first := strings.TrimSpace(body[:nl])
		if first == "" || !strings.ContainsAny(first, "{}") {
			body = body[nl+1:]
		}
	}

	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return body
}
