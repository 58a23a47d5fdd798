// Package llmstream turns the chunked wire formats of unrelated
// AI-completion backends into one uniform, incremental event stream.
//
// A StreamSession owns the full pipeline for one logical response: a format
// sniffer that classifies the stream on first content, an incremental
// decoder for that format (a single growing JSON array, or SSE/NDJSON
// lines), and a provider normalizer that maps each decoded value onto the
// canonical event type. The caller owns all I/O: it reads chunks from the
// network and feeds them in; the session is synchronous, has no timers, and
// is simply discarded when the caller abandons the stream.
package llmstream

import (
	"github.com/rs/zerolog"
)

// SessionOption configures a StreamSession.
type SessionOption func(*StreamSession)

// WithLogger attaches a logger for debug-level decode diagnostics.
// The default is a no-op logger.
func WithLogger(log zerolog.Logger) SessionOption {
	return func(s *StreamSession) {
		s.log = log
	}
}

// StreamSession is the per-request orchestration object. It is single-owner
// and single-threaded: it holds no locks and shares no mutable state with
// any other session, so concurrently active requests simply get one session
// each.
//
// Feed is split-invariant: feeding a payload one byte at a time produces
// the same ordered events as feeding it in one call.
type StreamSession struct {
	norm Normalizer
	log  zerolog.Logger

	mode    StreamMode
	pending chunkBuffer
	array   *JSONArrayDecoder
	lines   *LineDecoder

	citations *CitationStore
	dropped   int
}

// NewStreamSession creates a session for one logical response stream.
// Sessions are single-shot: once a JSON-array stream closes, the session
// stays closed, and callers construct a new session per request rather than
// reviving an old one.
func NewStreamSession(n Normalizer, opts ...SessionOption) *StreamSession {
	s := &StreamSession{
		norm:      n,
		log:       zerolog.Nop(),
		citations: NewCitationStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the sniffed stream mode (ModeUnknown until the first
// non-whitespace content arrives).
func (s *StreamSession) Mode() StreamMode {
	return s.mode
}

// Closed returns true once a JSON-array stream has seen its top-level ']'.
// Line-framed streams never self-close; their end is the transport's EOF.
func (s *StreamSession) Closed() bool {
	return s.array != nil && s.array.Closed()
}

// Citations returns the session's accumulated citation set in insertion
// order.
func (s *StreamSession) Citations() []Citation {
	return s.citations.List()
}

// Feed consumes one transport chunk, of any size, and returns the ordered
// canonical events it completed. Pure CPU work, no suspension points; safe
// to call with one character at a time.
func (s *StreamSession) Feed(chunk string) []CanonicalEvent {
	raws := s.decode(chunk)
	if len(raws) == 0 {
		return nil
	}

	events := make([]CanonicalEvent, 0, len(raws))
	for _, raw := range raws {
		ev := s.norm.Normalize(raw)
		if ev == nil {
			continue
		}
		s.mergeCitations(ev)
		events = append(events, *ev)
	}
	return events
}

// Reset returns the session to its initial state: buffers cleared, mode
// unclassified, citations and normalizer state dropped.
func (s *StreamSession) Reset() {
	s.mode = ModeUnknown
	s.pending.reset()
	s.array = nil
	s.lines = nil
	s.dropped = 0
	s.citations.Reset()
	s.norm.Reset()
}

// decode routes the chunk through the sniffer and the mode's decoder.
func (s *StreamSession) decode(chunk string) [][]byte {
	if s.mode == ModeUnknown {
		s.pending.append(chunk)
		mode := sniffFormat(s.pending.bytes())
		if mode == ModeUnknown {
			return nil
		}
		// Classification happens exactly once; replay everything buffered
		// so far into the chosen decoder.
		s.mode = mode
		buffered := string(s.pending.bytes())
		s.pending.reset()
		s.log.Debug().Stringer("mode", mode).Str("provider", s.norm.Provider().String()).Msg("stream format classified")

		if mode == ModeJSONArray {
			s.array = NewJSONArrayDecoder()
		} else {
			s.lines = NewLineDecoder()
		}
		chunk = buffered
	}

	var raws [][]byte
	if s.mode == ModeJSONArray {
		wasClosed := s.array.Closed()
		raws = s.array.Feed(chunk)
		s.logDropped(s.array.State().Dropped)
		if !wasClosed && s.array.Closed() {
			s.log.Debug().Msg("json array closed, session is terminal")
		}
	} else {
		raws = s.lines.Feed(chunk)
		s.logDropped(s.lines.Dropped())
	}
	return raws
}

func (s *StreamSession) logDropped(total int) {
	if total > s.dropped {
		s.log.Debug().Int("dropped", total-s.dropped).Msg("skipped malformed elements")
		s.dropped = total
	}
}

// mergeCitations folds the event's citations into the session store and
// rewrites the event metadata with the full accumulated list, so every
// citation stays visible for the session's lifetime once first seen.
func (s *StreamSession) mergeCitations(ev *CanonicalEvent) {
	if ev.Metadata == nil || len(ev.Metadata.SearchResults) == 0 {
		return
	}
	for _, c := range ev.Metadata.SearchResults {
		s.citations.Add(c)
	}
	ev.Metadata.SearchResults = s.citations.List()
}
