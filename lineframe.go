package llmstream

import (
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
)

// sseDone is the literal sentinel payload that signals end-of-stream on SSE
// data lines. It is dropped silently.
const sseDone = "[DONE]"

// LineDecoder consumes a buffer line by line, tolerant of SSE framing:
// "data:"-prefixed payload lines, ":" comment lines, blank separator lines,
// and the [DONE] sentinel. Bare NDJSON lines in the same stream are accepted
// too. The final (possibly incomplete) line stays buffered until its
// newline arrives.
type LineDecoder struct {
	buf     chunkBuffer
	dropped int
}

// NewLineDecoder creates a decoder for SSE or NDJSON framed streams.
func NewLineDecoder() *LineDecoder {
	return &LineDecoder{}
}

// Dropped returns the number of data-bearing lines skipped because their
// payload failed JSON validation.
func (d *LineDecoder) Dropped() int {
	return d.dropped
}

// Feed appends chunk to the buffer and returns the raw JSON payload of every
// data-bearing line completed by it, in order. Unparseable lines are
// skipped, not fatal.
func (d *LineDecoder) Feed(chunk string) [][]byte {
	d.buf.append(chunk)

	var out [][]byte
	for {
		data := d.buf.bytes()
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			break
		}
		line := string(data[:nl])
		d.buf.truncateFront(nl + 1)

		if raw, ok := d.decodeLine(line); ok {
			out = append(out, raw)
		}
	}
	return out
}

// Reset clears the buffer and the dropped-line counter.
func (d *LineDecoder) Reset() {
	d.buf.reset()
	d.dropped = 0
}

// decodeLine returns the JSON payload of one complete line, or false for
// blanks, comments, the [DONE] sentinel, and invalid payloads.
func (d *LineDecoder) decodeLine(line string) ([]byte, bool) {
	line = strings.TrimSpace(line)

	// Skip empty lines and SSE comments
	if line == "" || strings.HasPrefix(line, ":") {
		return nil, false
	}

	// Strip SSE framing. Only leading whitespace after the prefix is
	// removed; the payload's own trailing bytes are preserved as-is.
	if rest, ok := strings.CutPrefix(line, "data:"); ok {
		line = strings.TrimLeft(rest, " \t")
	}

	// Check for termination
	if line == sseDone {
		return nil, false
	}

	if !gjson.Valid(line) {
		d.dropped++
		return nil, false
	}
	return []byte(line), true
}
