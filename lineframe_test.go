package llmstream

import "testing"

func TestLineDecoderSSEFraming(t *testing.T) {
	d := NewLineDecoder()
	out := d.Feed("data: {\"a\":1}\n\n: comment\n\ndata: [DONE]\n\n")

	if len(out) != 1 {
		t.Fatalf("got %d payloads, want 1: %v", len(out), out)
	}
	if string(out[0]) != `{"a":1}` {
		t.Errorf("payload = %q, want %q", out[0], `{"a":1}`)
	}
	if d.Dropped() != 0 {
		t.Errorf("Dropped = %d, want 0", d.Dropped())
	}
}

func TestLineDecoderPartialLineHeldBack(t *testing.T) {
	d := NewLineDecoder()

	if out := d.Feed(`data: {"a":`); len(out) != 0 {
		t.Fatalf("incomplete line emitted early: %v", out)
	}
	out := d.Feed("1}\n")
	if len(out) != 1 || string(out[0]) != `{"a":1}` {
		t.Fatalf("got %v, want the completed payload", out)
	}
}

func TestLineDecoderBareNDJSON(t *testing.T) {
	d := NewLineDecoder()
	out := d.Feed("{\"a\":1}\n{\"b\":2}\n")

	if len(out) != 2 {
		t.Fatalf("got %d payloads, want 2", len(out))
	}
	if string(out[0]) != `{"a":1}` || string(out[1]) != `{"b":2}` {
		t.Errorf("unexpected payloads: %q %q", out[0], out[1])
	}
}

func TestLineDecoderMixedSSEAndNDJSON(t *testing.T) {
	d := NewLineDecoder()
	out := d.Feed("data: {\"a\":1}\n{\"b\":2}\ndata:{\"c\":3}\n")

	want := []string{`{"a":1}`, `{"b":2}`, `{"c":3}`}
	if len(out) != len(want) {
		t.Fatalf("got %d payloads, want %d", len(out), len(want))
	}
	for i, w := range want {
		if string(out[i]) != w {
			t.Errorf("payload %d = %q, want %q", i, out[i], w)
		}
	}
}

func TestLineDecoderCRLF(t *testing.T) {
	d := NewLineDecoder()
	out := d.Feed("data: {\"a\":1}\r\n\r\ndata: [DONE]\r\n")
	if len(out) != 1 || string(out[0]) != `{"a":1}` {
		t.Fatalf("got %v, want one payload", out)
	}
}

func TestLineDecoderInvalidPayloadSkipped(t *testing.T) {
	d := NewLineDecoder()
	out := d.Feed("data: not json at all\ndata: {\"ok\":true}\n")

	if len(out) != 1 || string(out[0]) != `{"ok":true}` {
		t.Fatalf("got %v, want only the valid payload", out)
	}
	if d.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", d.Dropped())
	}
}

func TestLineDecoderSplitInvariance(t *testing.T) {
	payload := "data: {\"seq\":1}\n\n: keepalive\n\ndata: {\"seq\":2}\n\ndata: [DONE]\n\n"

	whole := NewLineDecoder().Feed(payload)

	d := NewLineDecoder()
	var split [][]byte
	for i := 0; i < len(payload); i++ {
		split = append(split, d.Feed(payload[i:i+1])...)
	}

	if len(split) != len(whole) {
		t.Fatalf("byte-at-a-time: got %d payloads, want %d", len(split), len(whole))
	}
	for i := range whole {
		if string(split[i]) != string(whole[i]) {
			t.Errorf("payload %d = %q, want %q", i, split[i], whole[i])
		}
	}
}

func TestLineDecoderReset(t *testing.T) {
	d := NewLineDecoder()
	d.Feed("data: garbage\ndata: {\"a\":")
	if d.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", d.Dropped())
	}

	d.Reset()
	if d.Dropped() != 0 {
		t.Errorf("Dropped after Reset = %d, want 0", d.Dropped())
	}
	out := d.Feed("data: {\"b\":2}\n")
	if len(out) != 1 || string(out[0]) != `{"b":2}` {
		t.Errorf("stale buffer leaked across Reset: %v", out)
	}
}
