package openai

import (
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	llmstream "github.com/haowjy/meridian-stream-go"
)

// chatCompletionChunk represents an OpenAI streaming chunk.
type chatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // "chat.completion.chunk"
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
}

// chunkChoice represents a choice in a streaming chunk.
type chunkChoice struct {
	Index        int     `json:"index"`
	Delta        delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// delta represents incremental updates in a chunk.
type delta struct {
	Role    *string `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// annotationPaths are the annotation-bearing locations scanned for
// url_citation entries: delta-level, per-output-item, and response-level.
var annotationPaths = []string{
	"choices.#.delta.annotations",
	"choices.#.message.annotations",
	"output.#.content.#.annotations",
	"annotations",
}

// Normalizer maps OpenAI-style chat.completion.chunk payloads onto the
// canonical event type.
type Normalizer struct {
	profile *llmstream.ProviderProfile
}

// New creates an OpenAI normalizer.
func New() *Normalizer {
	return &Normalizer{
		profile: llmstream.GetProfileRegistry().Profile(llmstream.ProviderOpenAI),
	}
}

func init() {
	llmstream.RegisterNormalizer(llmstream.ProviderOpenAI, func() llmstream.Normalizer {
		return New()
	})
}

// Provider returns the provider identifier.
func (n *Normalizer) Provider() llmstream.ProviderID {
	return llmstream.ProviderOpenAI
}

// Reset is a no-op; the OpenAI shape carries no cross-event state.
func (n *Normalizer) Reset() {}

// Normalize converts one decoded chunk into a canonical event. Values that
// do not decode as a chunk are dropped silently.
func (n *Normalizer) Normalize(raw []byte) *llmstream.CanonicalEvent {
	var chunk chatCompletionChunk
	if err := json.Unmarshal(raw, &chunk); err != nil {
		return nil
	}
	root := gjson.ParseBytes(raw)

	ev := &llmstream.CanonicalEvent{
		ID:      chunk.ID,
		Object:  chunk.Object,
		Created: chunk.Created,
		Model:   chunk.Model,
	}
	if ev.Object == "" {
		ev.Object = llmstream.ObjectChatCompletionChunk
	}

	for i, choice := range chunk.Choices {
		c := llmstream.Choice{
			Index: choice.Index,
			Delta: llmstream.Delta{
				Role:    choice.Delta.Role,
				Content: choice.Delta.Content,
			},
		}
		if thinking, ok := llmstream.ReasoningText(root.Get("choices." + strconv.Itoa(i) + ".delta")); ok {
			c.Delta.Thinking = &thinking
		}
		if choice.FinishReason != nil {
			c.FinishReason = n.profile.CanonicalFinishReason(*choice.FinishReason)
		}
		ev.Choices = append(ev.Choices, c)
	}

	usage, cacheDiscount := n.profile.NormalizeUsage(root.Get("usage"))
	ev.Usage = usage

	citations := llmstream.CollectCitations(root, annotationPaths...)
	responseID := root.Get("response_id").String()

	if len(citations) > 0 || responseID != "" || cacheDiscount > 0 {
		ev.Metadata = &llmstream.EventMetadata{
			SearchResults: citations,
			ResponseID:    responseID,
			CacheDiscount: cacheDiscount,
		}
	}
	return ev
}
