package openrouter

import (
	"testing"

	llmstream "github.com/haowjy/meridian-stream-go"
)

func TestNormalizeContentDelta(t *testing.T) {
	n := New()
	ev := n.Normalize([]byte(`{
		"id": "gen-abc",
		"object": "chat.completion.chunk",
		"created": 1700000001,
		"model": "anthropic/claude-sonnet-4",
		"choices": [{"index": 0, "delta": {"role": "assistant", "content": "Hi"}, "finish_reason": null}]
	}`))

	if ev == nil {
		t.Fatal("expected an event")
	}
	if ev.ID != "gen-abc" || ev.Model != "anthropic/claude-sonnet-4" {
		t.Errorf("envelope = %+v", ev)
	}
	c := ev.Choices[0]
	if c.Delta.Content == nil || *c.Delta.Content != "Hi" {
		t.Errorf("Content = %v", c.Delta.Content)
	}
}

func TestNormalizeReasoningDetails(t *testing.T) {
	n := New()
	ev := n.Normalize([]byte(`{
		"choices": [{"index": 0, "delta": {
			"reasoning_details": [
				{"type": "reasoning.text", "text": "step 1"},
				{"type": "reasoning.encrypted", "data": "0xabc"}
			]
		}, "finish_reason": null}]
	}`))

	if ev == nil {
		t.Fatal("expected an event")
	}
	th := ev.Choices[0].Delta.Thinking
	if th == nil {
		t.Fatal("expected thinking delta")
	}
	want := "step 1\n[Reasoning content]"
	if *th != want {
		t.Errorf("Thinking = %q, want %q", *th, want)
	}
}

func TestNormalizeRedactedReasoningContributesNothing(t *testing.T) {
	n := New()
	ev := n.Normalize([]byte(`{
		"choices": [{"index": 0, "delta": {
			"content": "visible",
			"reasoning_details": [{"type": "reasoning.encrypted", "data": "[REDACTED]"}]
		}, "finish_reason": null}]
	}`))

	if ev == nil {
		t.Fatal("expected an event")
	}
	if ev.Choices[0].Delta.Thinking != nil {
		t.Errorf("Thinking = %q, want nil for redacted-only details", *ev.Choices[0].Delta.Thinking)
	}
}

func TestNormalizeAnthropicFinishTokens(t *testing.T) {
	n := New()
	ev := n.Normalize([]byte(`{"choices": [{"index": 0, "delta": {}, "finish_reason": "end_turn"}]}`))
	if ev == nil {
		t.Fatal("expected an event")
	}
	if fr := ev.Choices[0].FinishReason; fr == nil || *fr != llmstream.FinishStop {
		t.Errorf("end_turn mapped to %v, want stop", fr)
	}

	ev = n.Normalize([]byte(`{"choices": [{"index": 0, "delta": {}, "finish_reason": "tool_use"}]}`))
	if fr := ev.Choices[0].FinishReason; fr == nil || *fr != llmstream.FinishToolCalls {
		t.Errorf("tool_use mapped to %v, want tool_calls", fr)
	}
}

func TestNormalizeWebSearchAnnotations(t *testing.T) {
	n := New()
	ev := n.Normalize([]byte(`{
		"choices": [{"index": 0, "delta": {
			"content": "according to the docs",
			"annotations": [{
				"type": "url_citation",
				"url_citation": {
					"url": "https://docs.example.com/page",
					"title": "The Docs",
					"content": "relevant excerpt"
				}
			}]
		}, "finish_reason": null}]
	}`))

	if ev == nil || ev.Metadata == nil {
		t.Fatal("expected event with metadata")
	}
	results := ev.Metadata.SearchResults
	if len(results) != 1 {
		t.Fatalf("got %d citations, want 1", len(results))
	}
	if results[0].URL != "https://docs.example.com/page" || results[0].Title != "The Docs" {
		t.Errorf("citation = %+v", results[0])
	}
	if results[0].Snippet == nil || *results[0].Snippet != "relevant excerpt" {
		t.Errorf("Snippet = %v", results[0].Snippet)
	}
}

func TestNormalizeCacheDiscount(t *testing.T) {
	n := New()
	ev := n.Normalize([]byte(`{
		"choices": [{"index": 0, "delta": {}, "finish_reason": "stop"}],
		"usage": {
			"prompt_tokens": 200,
			"completion_tokens": 50,
			"total_tokens": 250,
			"cache_read_input_tokens": 120,
			"cache_creation_input_tokens": 30
		}
	}`))

	if ev == nil || ev.Metadata == nil {
		t.Fatal("expected event with metadata")
	}
	if ev.Metadata.CacheDiscount != 150 {
		t.Errorf("CacheDiscount = %d, want 150", ev.Metadata.CacheDiscount)
	}
	if ev.Usage == nil || ev.Usage.PromptTokens != 200 {
		t.Errorf("Usage = %+v", ev.Usage)
	}
}

func TestNormalizeInvalidPayload(t *testing.T) {
	n := New()
	if ev := n.Normalize([]byte(`{"choices": "not an array"}`)); ev != nil {
		t.Errorf("undecodable chunk should yield nil, got %+v", ev)
	}
}
