package llmstream

// SnapshotDiffer derives incremental deltas from providers that deliver
// cumulative full-text snapshots per event instead of deltas. The delta is
// the suffix of the new snapshot past its longest common prefix with the
// previous one; an empty delta means "no new content", which callers must
// express as an absent content field, not an explicit empty string.
type SnapshotDiffer struct {
	lastSeen string
}

// Delta returns the unseen suffix of snapshot relative to the previously
// seen full text. The remembered snapshot is updated unconditionally, even
// when the delta is empty.
func (s *SnapshotDiffer) Delta(snapshot string) string {
	p := commonPrefixLen(s.lastSeen, snapshot)
	s.lastSeen = snapshot
	return snapshot[p:]
}

// Reset forgets the last seen snapshot. Called together with session reset.
func (s *SnapshotDiffer) Reset() {
	s.lastSeen = ""
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
