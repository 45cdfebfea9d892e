package metrics

import (
	"fmt"
	"io"
	"sync/atomic"
)

type Snapshot struct {
	DurationMs  int64
	Checked     int64
	OK          int64
	Mismatches  int64
	Missing     int64
	Malformed   int64
	Unreadable  int64
	BytesHashed int64
}

func (s *Stats) Snapshot() Snapshot {
	dur := s.Duration()

	return Snapshot{
		DurationMs:  dur.Milliseconds(),
		Checked:     atomic.LoadInt64(&s.Checked),
		OK:          atomic.LoadInt64(&s.OK),
		Mismatches:  atomic.LoadInt64(&s.Mismatches),
		Missing:     atomic.LoadInt64(&s.Missing),
		Malformed:   atomic.LoadInt64(&s.Malformed),
		Unreadable:  atomic.LoadInt64(&s.Unreadable),
		BytesHashed: atomic.LoadInt64(&s.BytesHashed),
	}
}

func (snap Snapshot) Corrupt() int64 {
	return snap.Mismatches + snap.Missing + snap.Malformed
}

// Print writes the end-of-run summary. Elapsed time is whole seconds.
func Print(w io.Writer, s *Stats) {
	snap := s.Snapshot()

	_, _ = fmt.Fprintf(w, "Check finished: %d corrupt file(s) found\n", snap.Corrupt())
	_, _ = fmt.Fprintf(w, "Elapsed: %ds\n", snap.DurationMs/1000)
	_, _ = fmt.Fprintln(w, "--- stats ---")
	_, _ = fmt.Fprintln(w, "checked:", snap.Checked)
	_, _ = fmt.Fprintln(w, "ok:", snap.OK)
	_, _ = fmt.Fprintln(w, "hash_mismatches:", snap.Mismatches)
	_, _ = fmt.Fprintln(w, "missing_artifacts:", snap.Missing)
	_, _ = fmt.Fprintln(w, "malformed_checksums:", snap.Malformed)
	_, _ = fmt.Fprintln(w, "unreadable:", snap.Unreadable)
	_, _ = fmt.Fprintln(w, "bytes_hashed:", snap.BytesHashed)
}
