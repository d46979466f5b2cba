package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestParseJudgmentBareJSON(t *testing.T) {
	judgment, err := ParseJudgment(`{"print_failed": true, "explanation": "spaghetti on the bed"}`)
	if err != nil {
		t.Fatalf("ParseJudgment returned error: %v", err)
	}
	if judgment.Verdict != VerdictFailed {
		t.Fatalf("expected VerdictFailed, got %s", judgment.Verdict)
	}
	if judgment.Explanation != "spaghetti on the bed" {
		t.Fatalf("unexpected explanation: %q", judgment.Explanation)
	}
}

func TestParseJudgmentFencedWithLanguageTag(t *testing.T) {
	raw := "```json\n{\"print_failed\": false, \"explanation\": \"clean first layer\"}\n```"
	judgment, err := ParseJudgment(raw)
	if err != nil {
		t.Fatalf("ParseJudgment returned error: %v", err)
	}
	if judgment.Verdict != VerdictHealthy {
		t.Fatalf("expected VerdictHealthy, got %s", judgment.Verdict)
	}
}

func TestParseJudgmentFencedWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"print_failed\": true}\n```"
	judgment, err := ParseJudgment(raw)
	if err != nil {
		t.Fatalf("ParseJudgment returned error: %v", err)
	}
	if judgment.Verdict != VerdictFailed {
		t.Fatalf("expected VerdictFailed, got %s", judgment.Verdict)
	}
}

func TestParseJudgmentSurroundingProse(t *testing.T) {
	raw := "Here is my assessment:\n{\"print_failed\": false}\nLet me know if you need more."
	judgment, err := ParseJudgment(raw)
	if err != nil {
		t.Fatalf("ParseJudgment returned error: %v", err)
	}
	if judgment.Verdict != VerdictHealthy {
		t.Fatalf("expected VerdictHealthy, got %s", judgment.Verdict)
	}
}

func TestParseJudgmentMissingKeyIsUnknown(t *testing.T) {
	judgment, err := ParseJudgment(`{"explanation": "camera obstructed"}`)
	if err != nil {
		t.Fatalf("ParseJudgment returned error: %v", err)
	}
	if judgment.Verdict != VerdictUnknown {
		t.Fatalf("expected VerdictUnknown, got %s", judgment.Verdict)
	}
}

func TestParseJudgmentMalformed(t *testing.T) {
	for _, raw := range []string{"", "no json here", "```\nnot even close\n```"} {
		_, err := ParseJudgment(raw)
		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("input %q: expected MalformedResponseError, got %v", raw, err)
		}
	}
}

// Both envelope shapes must round-trip the same judgment: the fenced
// form the model produces today and the bare form it used to produce.
func TestParseJudgmentEnvelopeRoundTrip(t *testing.T) {
	verdicts := map[Verdict]*bool{
		VerdictFailed:  boolPtr(true),
		VerdictHealthy: boolPtr(false),
		VerdictUnknown: nil,
	}

	for want, failed := range verdicts {
		payload := map[string]interface{}{"explanation": "round trip"}
		if failed != nil {
			payload["print_failed"] = *failed
		}
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		envelopes := []string{
			string(body),
			fmt.Sprintf("```json\n%s\n```", body),
			fmt.Sprintf("```\n%s\n```", body),
		}
		for _, envelope := range envelopes {
			judgment, err := ParseJudgment(envelope)
			if err != nil {
				t.Fatalf("envelope %q: %v", envelope, err)
			}
			if judgment.Verdict != want {
				t.Fatalf("envelope %q: expected %s, got %s", envelope, want, judgment.Verdict)
			}
			if judgment.Explanation != "round trip" {
				t.Fatalf("envelope %q: lost explanation", envelope)
			}
		}
	}
}

func boolPtr(b bool) *bool {
	return &b
}
