package llmstream

import "strings"

// Aggregator is a reference consumer for CanonicalEvents: it appends
// delta content and thinking into an in-progress message and stops
// appending once any choice reports a non-nil finish reason. Usage and
// citations are still absorbed after the finish, since providers often
// deliver token accounting in a trailing chunk.
//
// Like sessions, aggregators are single-owner and hold no locks.
type Aggregator struct {
	content  strings.Builder
	thinking strings.Builder

	role      string
	finish    *FinishReason
	usage     *Usage
	model     string
	citations []Citation
}

// Push folds events into the aggregate, in order.
func (a *Aggregator) Push(events ...CanonicalEvent) {
	for _, ev := range events {
		if ev.Model != "" {
			a.model = ev.Model
		}
		if ev.Usage != nil {
			a.usage = ev.Usage
		}
		if ev.Metadata != nil && len(ev.Metadata.SearchResults) > 0 {
			a.citations = ev.Metadata.SearchResults
		}

		for _, choice := range ev.Choices {
			if a.finish == nil {
				if choice.Delta.Role != nil {
					a.role = *choice.Delta.Role
				}
				if choice.Delta.Content != nil {
					a.content.WriteString(*choice.Delta.Content)
				}
				if choice.Delta.Thinking != nil {
					a.thinking.WriteString(*choice.Delta.Thinking)
				}
			}
			if choice.FinishReason != nil {
				a.finish = choice.FinishReason
			}
		}
	}
}

// Content returns the accumulated message text.
func (a *Aggregator) Content() string {
	return a.content.String()
}

// Thinking returns the accumulated reasoning text.
func (a *Aggregator) Thinking() string {
	return a.thinking.String()
}

// Role returns the message role reported by the stream ("" if none was).
func (a *Aggregator) Role() string {
	return a.role
}

// Model returns the last model identifier seen.
func (a *Aggregator) Model() string {
	return a.model
}

// FinishReason returns the finish reason, or nil while streaming.
func (a *Aggregator) FinishReason() *FinishReason {
	return a.finish
}

// Usage returns the last usage report seen, or nil.
func (a *Aggregator) Usage() *Usage {
	return a.usage
}

// Citations returns the most recent accumulated citation list.
func (a *Aggregator) Citations() []Citation {
	return a.citations
}

// Reset clears the aggregate for reuse.
func (a *Aggregator) Reset() {
	a.content.Reset()
	a.thinking.Reset()
	a.role = ""
	a.finish = nil
	a.usage = nil
	a.model = ""
	a.citations = nil
}
