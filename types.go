package llmstream

// Object value used for normalized streaming chunks when the provider does not
// supply its own (Gemini and Grok payloads carry no object field).
const ObjectChatCompletionChunk = "chat.completion.chunk"

// Role constants for Delta.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// FinishReason is the canonical vocabulary for why a response stream ended.
// Provider-specific tokens ("end_turn", "MAX_TOKENS", "max_tokens", ...) are
// mapped onto these four values by the provider profiles; anything
// unrecognized maps to a nil *FinishReason, never an error.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
	FinishToolCalls     FinishReason = "tool_calls"
)

// IsValid returns true if the finish reason is one of the canonical values.
func (f FinishReason) IsValid() bool {
	switch f {
	case FinishStop, FinishLength, FinishContentFilter, FinishToolCalls:
		return true
	default:
		return false
	}
}

// CanonicalEvent is the single event type exposed upward by a StreamSession.
// One decoded provider value yields at most one CanonicalEvent; the Grok path
// may yield zero for pure-metadata values. Events are immutable once emitted.
type CanonicalEvent struct {
	// ID is the provider-assigned event/completion identifier.
	ID string `json:"id"`

	// Object describes the payload kind (e.g. "chat.completion.chunk").
	Object string `json:"object"`

	// Created is the event creation time in unix seconds (0 if the provider
	// does not report one).
	Created int64 `json:"created"`

	// Model is the model that produced this event.
	Model string `json:"model"`

	// Choices carries the incremental content deltas.
	Choices []Choice `json:"choices"`

	// Usage is set when the provider reported token accounting on this event
	// (typically only the final chunk).
	Usage *Usage `json:"usage,omitempty"`

	// Metadata carries session-level extras: accumulated search citations,
	// the provider response id, and the cache discount.
	Metadata *EventMetadata `json:"metadata,omitempty"`
}

// Choice is one completion choice within a CanonicalEvent.
type Choice struct {
	Index int   `json:"index"`
	Delta Delta `json:"delta"`

	// FinishReason is nil while the stream is still producing content for
	// this choice. Consumers stop appending once it is non-nil.
	FinishReason *FinishReason `json:"finish_reason"`
}

// Delta is an incremental content fragment. Pointer fields distinguish
// "absent" from "explicitly empty": a snapshot diff that produced no new
// content leaves Content nil rather than pointing at "".
type Delta struct {
	Role     *string `json:"role,omitempty"`
	Content  *string `json:"content,omitempty"`
	Thinking *string `json:"thinking,omitempty"`
}

// Usage holds normalized token accounting. Providers disagree on field names
// (prompt_tokens vs input_tokens, candidatesTokenCount vs completion_tokens);
// the profile registry resolves the aliases and missing values default to 0.
type Usage struct {
	PromptTokens     int  `json:"prompt_tokens"`
	CompletionTokens int  `json:"completion_tokens"`
	TotalTokens      int  `json:"total_tokens"`
	ThinkingTokens   *int `json:"thinking_tokens,omitempty"`
}

// EventMetadata carries non-content extras attached to a CanonicalEvent.
type EventMetadata struct {
	// SearchResults is the session's accumulated, URL-deduplicated citation
	// list, insertion-ordered, attached whenever the event carried citations.
	SearchResults []Citation `json:"searchResults,omitempty"`

	// ResponseID is the provider's response identifier when it is reported
	// separately from the event id.
	ResponseID string `json:"responseId,omitempty"`

	// CacheDiscount is the sum of provider cache-token counters (cached
	// prompt reads, cache creation tokens) when non-zero.
	CacheDiscount int `json:"cacheDiscount,omitempty"`
}

// Citation is a structured reference to an external source attached to
// generated content. Title is always non-empty: when the provider supplies
// none it is derived from the domain or the URL hostname.
type Citation struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet *string `json:"snippet,omitempty"`
	Domain  *string `json:"domain,omitempty"`
}

// ProviderID identifies a supported provider wire shape.
// Using a typed constant prevents typos and provides compile-time safety.
type ProviderID string

// Known provider identifiers
const (
	// ProviderOpenAI covers OpenAI-style chat.completion.chunk payloads.
	ProviderOpenAI ProviderID = "openai"

	// ProviderGemini covers Google's candidates/content/parts payloads.
	ProviderGemini ProviderID = "gemini"

	// ProviderGrok covers xAI payloads: immediate deltas or full-document
	// snapshots that require diffing.
	ProviderGrok ProviderID = "grok"

	// ProviderOpenRouter covers OpenAI-style payloads extended with
	// reasoning_details and url_citation annotations.
	ProviderOpenRouter ProviderID = "openrouter"
)

// String returns the string representation of the provider ID
func (p ProviderID) String() string {
	return string(p)
}

// IsValid returns true if the provider ID is a known provider
func (p ProviderID) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderGemini, ProviderGrok, ProviderOpenRouter:
		return true
	default:
		return false
	}
}
