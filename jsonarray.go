package llmstream

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// DecoderState is the mutable scan state of a JSONArrayDecoder. It is an
// explicit struct owned by one decoder (never ambient or global) so that
// concurrent sessions trivially coexist and tests can assert on it directly.
type DecoderState struct {
	// InString is true while the scanner is inside a quoted JSON string.
	InString bool

	// EscapePending is true when the previous byte inside a string was an
	// unconsumed backslash.
	EscapePending bool

	// BraceDepth is the current object nesting depth of the element being
	// scanned. Only braces are tracked; brackets inside an element are
	// covered by BraceDepth being non-zero.
	BraceDepth int

	// ArrayStarted is set once the opening '[' has been consumed.
	ArrayStarted bool

	// ArrayEnded is set once the matching top-level ']' has been seen.
	// It is terminal: the decoder produces nothing further.
	ArrayEnded bool

	// Dropped counts element slices that balanced syntactically but failed
	// JSON validation and were skipped.
	Dropped int
}

// JSONArrayDecoder extracts complete top-level elements from a buffer holding
// a growing prefix of one JSON array. Elements are emitted as soon as they
// are syntactically complete; an element whose end is not yet buffered is
// retained for the next Feed. Output is invariant under re-chunking of the
// input: feeding byte-by-byte yields the same elements as feeding the whole
// payload at once.
type JSONArrayDecoder struct {
	buf   chunkBuffer
	state DecoderState

	// scan is the index of the next unexamined byte in buf.
	scan int

	// elemStart is the index where the element currently being scanned
	// begins, or -1 between elements.
	elemStart int

	// sawBrace records whether the current element opened at least one
	// object; brace-balanced completion only applies after the first '{'.
	sawBrace bool
}

// NewJSONArrayDecoder creates a decoder for a single JSON array stream.
func NewJSONArrayDecoder() *JSONArrayDecoder {
	return &JSONArrayDecoder{elemStart: -1}
}

// State returns a copy of the decoder's scan state.
func (d *JSONArrayDecoder) State() DecoderState {
	return d.state
}

// Closed returns true once the top-level ']' has been consumed.
func (d *JSONArrayDecoder) Closed() bool {
	return d.state.ArrayEnded
}

// Feed appends chunk to the buffer and returns the raw bytes of every array
// element completed by it, in order. Malformed elements are skipped, not
// fatal. After the array closes, Feed consumes nothing and returns nil for
// the remainder of the decoder's life.
func (d *JSONArrayDecoder) Feed(chunk string) [][]byte {
	if d.state.ArrayEnded {
		return nil
	}
	d.buf.append(chunk)

	var out [][]byte
	data := d.buf.bytes()

	for d.scan < len(data) {
		c := data[d.scan]

		if !d.state.ArrayStarted {
			if isJSONSpace(c) || c != '[' {
				// The sniffer guarantees '[' leads; tolerate stray bytes.
				d.scan++
				continue
			}
			d.state.ArrayStarted = true
			d.scan++
			continue
		}

		if d.elemStart < 0 {
			if isJSONSpace(c) || c == ',' {
				d.scan++
				continue
			}
			if c == ']' {
				d.close()
				return out
			}
			d.elemStart = d.scan
			d.sawBrace = false
			d.state.InString = false
			d.state.EscapePending = false
			d.state.BraceDepth = 0
			// Fall through: the same byte starts the element scan.
		}

		if d.state.InString {
			switch {
			case d.state.EscapePending:
				d.state.EscapePending = false
			case c == '\\':
				d.state.EscapePending = true
			case c == '"':
				d.state.InString = false
			}
			d.scan++
			continue
		}

		switch c {
		case '"':
			d.state.InString = true
		case '{':
			d.state.BraceDepth++
			d.sawBrace = true
		case '}':
			d.state.BraceDepth--
			if d.sawBrace && d.state.BraceDepth == 0 {
				out = d.emit(out, data[d.elemStart:d.scan+1])
				d.elemStart = -1
			}
		case ',':
			if !d.sawBrace && d.state.BraceDepth == 0 {
				out = d.emit(out, data[d.elemStart:d.scan])
				d.elemStart = -1
			}
		case ']':
			if !d.sawBrace && d.state.BraceDepth == 0 {
				out = d.emit(out, data[d.elemStart:d.scan])
				d.close()
				return out
			}
		}
		d.scan++
	}

	d.compact()
	return out
}

// Reset returns the decoder to its initial state with an empty buffer.
func (d *JSONArrayDecoder) Reset() {
	d.buf.reset()
	d.state = DecoderState{}
	d.scan = 0
	d.elemStart = -1
	d.sawBrace = false
}

// emit validates a candidate element slice and appends a copy of it.
// Invalid slices (e.g. `{not json}` with balanced braces) count as dropped.
func (d *JSONArrayDecoder) emit(out [][]byte, raw []byte) [][]byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return out
	}
	if !gjson.ValidBytes(raw) {
		d.state.Dropped++
		return out
	}
	elem := make([]byte, len(raw))
	copy(elem, raw)
	return append(out, elem)
}

// close marks the array ended and releases the buffer. The terminal state is
// deliberate: a session never produces elements after the top-level ']' even
// if more bytes arrive.
func (d *JSONArrayDecoder) close() {
	d.state.ArrayEnded = true
	d.buf.reset()
	d.scan = 0
	d.elemStart = -1
}

// compact releases the consumed buffer prefix, keeping an in-progress
// element (or nothing) for the next Feed.
func (d *JSONArrayDecoder) compact() {
	keepFrom := d.scan
	if d.elemStart >= 0 {
		keepFrom = d.elemStart
	}
	if keepFrom == 0 {
		return
	}
	d.buf.truncateFront(keepFrom)
	d.scan -= keepFrom
	if d.elemStart >= 0 {
		d.elemStart -= keepFrom
	}
}
