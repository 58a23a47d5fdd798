package llmstream

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestReasoningTextStringField(t *testing.T) {
	text, ok := ReasoningText(gjson.Parse(`{"reasoning": "thinking hard"}`))
	if !ok || text != "thinking hard" {
		t.Errorf("got (%q, %v), want (%q, true)", text, ok, "thinking hard")
	}
}

func TestReasoningTextDetailsArray(t *testing.T) {
	node := gjson.Parse(`{"reasoning_details": [
		{"type": "reasoning.text", "text": "step one"},
		{"type": "reasoning.summary", "summary": "in short"},
		{"type": "reasoning.encrypted", "data": "0xdeadbeef"},
		{"type": "reasoning.encrypted", "data": "[REDACTED]"},
		{"type": "reasoning.encrypted", "data": ""},
		{"type": "something.new", "text": "forward compatible"}
	]}`)

	text, ok := ReasoningText(node)
	if !ok {
		t.Fatal("expected reasoning content")
	}
	want := "step one\nin short\n[Reasoning content]\nforward compatible"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestReasoningTextStringFieldWinsOverDetails(t *testing.T) {
	node := gjson.Parse(`{
		"reasoning": "the plain field",
		"reasoning_details": [{"type": "reasoning.text", "text": "ignored"}]
	}`)
	text, ok := ReasoningText(node)
	if !ok || text != "the plain field" {
		t.Errorf("got (%q, %v), want the plain field", text, ok)
	}
}

func TestReasoningTextAbsent(t *testing.T) {
	cases := []string{
		`{}`,
		`{"content": "no reasoning here"}`,
		`{"reasoning": ""}`,
		`{"reasoning_details": []}`,
		`{"reasoning_details": [{"type": "reasoning.encrypted", "data": "[REDACTED]"}]}`,
	}
	for _, c := range cases {
		if text, ok := ReasoningText(gjson.Parse(c)); ok {
			t.Errorf("input %s: got (%q, true), want no content", c, text)
		}
	}
}
