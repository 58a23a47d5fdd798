package llmstream

// chunkBuffer is an append-only byte accumulator shared by both decoder
// modes. Consumed prefixes are released with truncateFront so memory stays
// proportional to the unconsumed tail, not the whole response.
type chunkBuffer struct {
	data []byte
}

func (b *chunkBuffer) append(chunk string) {
	b.data = append(b.data, chunk...)
}

func (b *chunkBuffer) bytes() []byte {
	return b.data
}

func (b *chunkBuffer) len() int {
	return len(b.data)
}

// truncateFront drops the first n bytes. n is clamped to the buffer length.
func (b *chunkBuffer) truncateFront(n int) {
	if n <= 0 {
		return
	}
	if n >= len(b.data) {
		b.data = b.data[:0]
		return
	}
	remaining := copy(b.data, b.data[n:])
	b.data = b.data[:remaining]
}

func (b *chunkBuffer) reset() {
	b.data = b.data[:0]
}
