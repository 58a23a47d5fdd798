package llmstream

// StreamMode identifies the wire framing of a response stream.
// A session classifies exactly once, on the first non-whitespace content,
// and never reclassifies afterward.
type StreamMode int

const (
	// ModeUnknown means no non-whitespace content has been seen yet.
	ModeUnknown StreamMode = iota

	// ModeJSONArray means the stream is one top-level JSON array filled in
	// over time (Gemini's non-SSE streaming endpoint).
	ModeJSONArray

	// ModeSSEOrNDJSON means the stream is line-framed: SSE data lines,
	// bare NDJSON lines, or a mix of both.
	ModeSSEOrNDJSON
)

func (m StreamMode) String() string {
	switch m {
	case ModeJSONArray:
		return "json_array"
	case ModeSSEOrNDJSON:
		return "sse_or_ndjson"
	default:
		return "unknown"
	}
}

// sniffFormat classifies buffered content by its first non-whitespace byte:
// '[' selects the JSON array decoder, anything else falls back to
// line framing. Whitespace-only input stays unclassified.
func sniffFormat(buffered []byte) StreamMode {
	for _, c := range buffered {
		if isJSONSpace(c) {
			continue
		}
		if c == '[' {
			return ModeJSONArray
		}
		return ModeSSEOrNDJSON
	}
	return ModeUnknown
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
