package bedrock

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

func TestDecodeResponseText(t *testing.T) {
	body := []byte(`{"output":{"message":{"content":[{"text":"{\"print_failed\": true}"}]}}}`)
	text, err := decodeResponseText(body)
	if err != nil {
		t.Fatalf("decodeResponseText returned error: %v", err)
	}
	if text != `{"print_failed": true}` {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestDecodeResponseTextEmpty(t *testing.T) {
	if _, err := decodeResponseText([]byte(`{"output":{"message":{"content":[]}}}`)); err == nil {
		t.Fatalf("empty content must error")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		code string
		want core.InferenceErrorKind
	}{
		{"ThrottlingException", core.InferenceThrottled},
		{"TooManyRequestsException", core.InferenceThrottled},
		{"ExpiredTokenException", core.InferenceExpired},
		{"InvalidSignatureException", core.InferenceExpired},
		{"ValidationException", core.InferenceOther},
	}
	for _, tc := range cases {
		err := classify(&smithy.GenericAPIError{Code: tc.code, Message: "x"})
		if err.Kind != tc.want {
			t.Fatalf("code %s: expected %s, got %s", tc.code, tc.want, err.Kind)
		}
	}

	if kind := classify(errors.New("plain")).Kind; kind != core.InferenceOther {
		t.Fatalf("non-API errors classify as other, got %s", kind)
	}
}

func TestBuildRequestShape(t *testing.T) {
	client := NewBedrockClient(nil, config.BedrockConfig{
		InferenceProfileARN: "arn:aws:bedrock:us-west-2::inference-profile/test",
		MaxTokens:           500,
		TopP:                1,
		TopK:                1,
	}, config.PromptConfig{
		System:   "inspector",
		Template: "look at {images}, taken {interval}s apart",
	}, zap.NewNop())

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := []*core.Sample{
		{Image: []byte{1}, CapturedAt: base},
		{Image: []byte{2}, CapturedAt: base.Add(10 * time.Second)},
	}

	payload, err := json.Marshal(client.buildRequest(samples))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var req struct {
		SchemaVersion string `json:"schemaVersion"`
		Messages      []struct {
			Content []map[string]interface{} `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.SchemaVersion != "messages-v1" {
		t.Fatalf("unexpected schema version %q", req.SchemaVersion)
	}
	content := req.Messages[0].Content
	if len(content) != 3 {
		t.Fatalf("expected 2 images + 1 text block, got %d blocks", len(content))
	}
	text, ok := content[2]["text"].(string)
	if !ok {
		t.Fatalf("last block must be the prompt text")
	}
	if text != "look at image1, image2, taken 10s apart" {
		t.Fatalf("unexpected rendered prompt: %q", text)
	}
}
