package grok

import (
	"strings"

	"github.com/tidwall/gjson"

	llmstream "github.com/haowjy/meridian-stream-go"
)

// snapshotPaths are tried in order for events that carry the full document
// text so far instead of a delta.
var snapshotPaths = []string{"result.message", "message", "text"}

// annotationPaths are the annotation-bearing locations scanned for
// url_citation entries.
var annotationPaths = []string{
	"delta.annotations",
	"result.annotations",
	"annotations",
}

// Normalizer maps Grok payloads onto the canonical event type. Grok events
// come in two flavors: an immediate delta (a bare string, {output_text}, or
// {content:[{text}]}), or a cumulative full-document snapshot that must be
// diffed against the previous one. Values carrying neither content nor
// finish/usage/citation data yield no event at all.
type Normalizer struct {
	profile   *llmstream.ProviderProfile
	snapshots llmstream.SnapshotDiffer
}

// New creates a Grok normalizer.
func New() *Normalizer {
	return &Normalizer{
		profile: llmstream.GetProfileRegistry().Profile(llmstream.ProviderGrok),
	}
}

func init() {
	llmstream.RegisterNormalizer(llmstream.ProviderGrok, func() llmstream.Normalizer {
		return New()
	})
}

// Provider returns the provider identifier.
func (n *Normalizer) Provider() llmstream.ProviderID {
	return llmstream.ProviderGrok
}

// Reset forgets the last seen snapshot.
func (n *Normalizer) Reset() {
	n.snapshots.Reset()
}

// Normalize converts one decoded value into zero or one canonical event.
func (n *Normalizer) Normalize(raw []byte) *llmstream.CanonicalEvent {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil
	}

	content, hasContent := n.extractContent(root)
	thinking, hasThinking := llmstream.ReasoningText(root.Get("delta"))
	if !hasThinking {
		thinking, hasThinking = llmstream.ReasoningText(root)
	}

	finish := n.profile.CanonicalFinishReason(firstString(root, "finish_reason", "result.finish_reason"))
	usage, cacheDiscount := n.profile.NormalizeUsage(root.Get("usage"))
	citations := llmstream.CollectCitations(root, annotationPaths...)
	responseID := firstString(root, "response_id", "result.response_id")

	// Pure metadata with nothing to surface: no event.
	if !hasContent && !hasThinking && finish == nil && usage == nil && len(citations) == 0 {
		return nil
	}

	ev := &llmstream.CanonicalEvent{
		ID:      firstString(root, "id", "result.id"),
		Object:  llmstream.ObjectChatCompletionChunk,
		Created: root.Get("created").Int(),
		Model:   firstString(root, "model", "result.model"),
		Usage:   usage,
	}

	choice := llmstream.Choice{FinishReason: finish}
	if hasContent {
		choice.Delta.Content = &content
	}
	if hasThinking {
		choice.Delta.Thinking = &thinking
	}
	ev.Choices = []llmstream.Choice{choice}

	if len(citations) > 0 || responseID != "" || cacheDiscount > 0 {
		ev.Metadata = &llmstream.EventMetadata{
			SearchResults: citations,
			ResponseID:    responseID,
			CacheDiscount: cacheDiscount,
		}
	}
	return ev
}

// extractContent pulls the content delta out of one value: an immediate
// delta when present, otherwise the unseen suffix of a full-document
// snapshot. The empty-delta case ("no new content") reports false rather
// than an explicit empty string.
func (n *Normalizer) extractContent(root gjson.Result) (string, bool) {
	if d := root.Get("delta"); d.Exists() {
		if text, ok := deltaText(d); ok {
			return text, true
		}
		return "", false
	}

	for _, path := range snapshotPaths {
		snap := root.Get(path)
		if snap.Type != gjson.String {
			continue
		}
		delta := n.snapshots.Delta(snap.String())
		if delta == "" {
			return "", false
		}
		return delta, true
	}
	return "", false
}

// deltaText resolves the three immediate-delta shapes: a bare string,
// {output_text}, and {content:[{text}]}.
func deltaText(d gjson.Result) (string, bool) {
	if d.Type == gjson.String {
		if s := d.String(); s != "" {
			return s, true
		}
		return "", false
	}
	if ot := d.Get("output_text"); ot.Type == gjson.String && ot.String() != "" {
		return ot.String(), true
	}
	if parts := d.Get("content"); parts.IsArray() {
		var sb strings.Builder
		parts.ForEach(func(_, part gjson.Result) bool {
			sb.WriteString(part.Get("text").String())
			return true
		})
		if sb.Len() > 0 {
			return sb.String(), true
		}
	}
	return "", false
}

func firstString(root gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := root.Get(path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
