// Package lorem generates synthetic provider wire streams for testing and
// development without real API keys. Scripts produce OpenAI-shaped chunks of
// lorem ipsum text framed as SSE, NDJSON, or a single JSON array, and split
// into transport chunks of a configurable size so decoders can be exercised
// against arbitrary chunk boundaries.
package lorem

import (
	"fmt"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"
	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	llmstream "github.com/haowjy/meridian-stream-go"
	"github.com/haowjy/meridian-stream-go/providers/openai"
)

// Format selects the wire framing of a generated script.
type Format string

const (
	FormatSSE       Format = "sse"
	FormatNDJSON    Format = "ndjson"
	FormatJSONArray Format = "json_array"
)

type options struct {
	format    Format
	model     string
	words     int
	chunkSize int
}

// Option configures script generation.
type Option func(*options)

// WithFormat selects the wire framing (default SSE).
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithModel sets the model name stamped on every chunk.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithWords sets how many words of content the script streams.
func WithWords(n int) Option {
	return func(o *options) { o.words = n }
}

// WithChunkSize sets the transport chunk size in bytes. Sizes of 1 are
// valid and useful for split-invariance testing.
func WithChunkSize(n int) Option {
	return func(o *options) { o.chunkSize = n }
}

// Script is a pre-generated wire stream, consumed chunk by chunk.
type Script struct {
	payload string
	chunks  []string
	pos     int
}

// NewScript generates a synthetic stream of lorem ipsum content.
func NewScript(opts ...Option) *Script {
	o := options{
		format:    FormatSSE,
		model:     "lorem-fast",
		words:     20,
		chunkSize: 64,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.words < 1 {
		o.words = 1
	}
	if o.chunkSize < 1 {
		o.chunkSize = 1
	}

	payload := buildPayload(&o)
	return &Script{
		payload: payload,
		chunks:  splitChunks(payload, o.chunkSize),
	}
}

// Payload returns the full unsplit wire payload.
func (s *Script) Payload() string {
	return s.payload
}

// Next returns the next transport chunk, or false when exhausted.
func (s *Script) Next() (string, bool) {
	if s.pos >= len(s.chunks) {
		return "", false
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, true
}

// Rewind restarts chunk iteration from the beginning.
func (s *Script) Rewind() {
	s.pos = 0
}

// Normalizer returns a normalizer matching the generated wire shape.
// Scripts emit OpenAI-shaped chunks regardless of framing.
func Normalizer() llmstream.Normalizer {
	return openai.New()
}

// buildPayload renders the chunk sequence in the requested framing:
// one delta chunk per word, then a final chunk carrying the finish reason
// and usage.
func buildPayload(o *options) string {
	gen := loremgen.New()
	id := "chatcmpl-" + uuid.NewString()
	created := time.Now().Unix()

	words := generateWords(gen, o.words)
	events := make([]string, 0, len(words)+1)
	for _, word := range words {
		events = append(events, deltaChunk(id, created, o.model, word+" "))
	}
	events = append(events, finalChunk(id, created, o.model, len(words)))

	switch o.format {
	case FormatJSONArray:
		return "[" + strings.Join(events, ",") + "]"
	case FormatNDJSON:
		return strings.Join(events, "\n") + "\n"
	default:
		var sb strings.Builder
		sb.WriteString(": lorem stream\n\n")
		for _, ev := range events {
			sb.WriteString("data: ")
			sb.WriteString(ev)
			sb.WriteString("\n\n")
		}
		sb.WriteString("data: [DONE]\n\n")
		return sb.String()
	}
}

func deltaChunk(id string, created int64, model, content string) string {
	return baseChunk(id, created, model, func(doc string) string {
		doc, _ = sjson.Set(doc, "choices.0.delta.content", content)
		doc, _ = sjson.Set(doc, "choices.0.finish_reason", nil)
		return doc
	})
}

func finalChunk(id string, created int64, model string, outputWords int) string {
	return baseChunk(id, created, model, func(doc string) string {
		doc, _ = sjson.Set(doc, "choices.0.delta", map[string]any{})
		doc, _ = sjson.Set(doc, "choices.0.finish_reason", "stop")
		doc, _ = sjson.Set(doc, "usage.prompt_tokens", 8)
		doc, _ = sjson.Set(doc, "usage.completion_tokens", outputWords)
		doc, _ = sjson.Set(doc, "usage.total_tokens", 8+outputWords)
		return doc
	})
}

func baseChunk(id string, created int64, model string, fill func(string) string) string {
	doc := `{"object":"chat.completion.chunk"}`
	doc, _ = sjson.Set(doc, "id", id)
	doc, _ = sjson.Set(doc, "created", created)
	doc, _ = sjson.Set(doc, "model", model)
	doc, _ = sjson.Set(doc, "choices.0.index", 0)
	return fill(doc)
}

// generateWords produces approximately n lorem words.
func generateWords(gen *loremgen.Lorem, n int) []string {
	var words []string
	for len(words) < n {
		sentence := gen.Sentence(5, 15)
		words = append(words, strings.Fields(sentence)...)
	}
	return words[:n]
}

func splitChunks(payload string, size int) []string {
	chunks := make([]string, 0, (len(payload)+size-1)/size)
	for start := 0; start < len(payload); start += size {
		end := start + size
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, payload[start:end])
	}
	return chunks
}

// Describe summarizes a script for logging in examples.
func (s *Script) Describe() string {
	return fmt.Sprintf("%d bytes in %d chunks", len(s.payload), len(s.chunks))
}
