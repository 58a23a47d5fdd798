package gemini

import (
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	llmstream "github.com/haowjy/meridian-stream-go"
)

// generateContentChunk represents one element of Gemini's streaming
// response. Gemini's non-SSE endpoint delivers these as members of a single
// top-level JSON array; the SSE endpoint delivers the same shape per data
// line.
type generateContentChunk struct {
	Candidates   []candidate `json:"candidates"`
	ModelVersion string      `json:"modelVersion"`
	ResponseID   string      `json:"responseId"`
	CreateTime   int64       `json:"createTime"`
}

type candidate struct {
	Index        int     `json:"index"`
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type content struct {
	Role  string `json:"role"` // "model"
	Parts []part `json:"parts"`
}

type part struct {
	Text    string `json:"text"`
	Thought bool   `json:"thought"` // thinking parts carry thought: true
}

// Normalizer maps Gemini candidates/content/parts payloads onto the
// canonical event type.
type Normalizer struct {
	profile *llmstream.ProviderProfile
}

// New creates a Gemini normalizer.
func New() *Normalizer {
	return &Normalizer{
		profile: llmstream.GetProfileRegistry().Profile(llmstream.ProviderGemini),
	}
}

func init() {
	llmstream.RegisterNormalizer(llmstream.ProviderGemini, func() llmstream.Normalizer {
		return New()
	})
}

// Provider returns the provider identifier.
func (n *Normalizer) Provider() llmstream.ProviderID {
	return llmstream.ProviderGemini
}

// Reset is a no-op; the Gemini shape carries no cross-event state.
func (n *Normalizer) Reset() {}

// Normalize converts one decoded chunk into a canonical event. All text
// fields of a candidate's parts are concatenated; parts flagged as thoughts
// land in the thinking delta instead of content.
func (n *Normalizer) Normalize(raw []byte) *llmstream.CanonicalEvent {
	var chunk generateContentChunk
	if err := json.Unmarshal(raw, &chunk); err != nil {
		return nil
	}
	root := gjson.ParseBytes(raw)

	ev := &llmstream.CanonicalEvent{
		ID:      chunk.ResponseID,
		Object:  llmstream.ObjectChatCompletionChunk,
		Created: chunk.CreateTime,
		Model:   chunk.ModelVersion,
	}

	for _, cand := range chunk.Candidates {
		c := llmstream.Choice{Index: cand.Index}
		if cand.Content.Role != "" {
			role := mapRole(cand.Content.Role)
			c.Delta.Role = &role
		}

		var text, thinking strings.Builder
		for _, p := range cand.Content.Parts {
			if p.Text == "" {
				continue
			}
			if p.Thought {
				thinking.WriteString(p.Text)
			} else {
				text.WriteString(p.Text)
			}
		}
		if text.Len() > 0 {
			s := text.String()
			c.Delta.Content = &s
		}
		if thinking.Len() > 0 {
			s := thinking.String()
			c.Delta.Thinking = &s
		}

		c.FinishReason = n.profile.CanonicalFinishReason(cand.FinishReason)
		ev.Choices = append(ev.Choices, c)
	}

	usage, cacheDiscount := n.profile.NormalizeUsage(root.Get("usageMetadata"))
	ev.Usage = usage

	if chunk.ResponseID != "" || cacheDiscount > 0 {
		ev.Metadata = &llmstream.EventMetadata{
			ResponseID:    chunk.ResponseID,
			CacheDiscount: cacheDiscount,
		}
	}
	return ev
}

// mapRole translates Gemini's role vocabulary ("model") to the canonical
// assistant/user roles.
func mapRole(role string) string {
	switch role {
	case "model":
		return llmstream.RoleAssistant
	case "user":
		return llmstream.RoleUser
	default:
		return role
	}
}
