package metrics

import (
	"sync/atomic"
	"time"
)

// Stats counters are updated by the walk and read concurrently by the
// progress display, so every access goes through sync/atomic.
type Stats struct {
	Checked    int64
	OK         int64
	Mismatches int64
	Missing    int64
	Malformed  int64
	Unreadable int64

	BytesHashed int64
	Started     time.Time
	Finished    time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

// Corrupt counts artifacts the operator has to re-fetch. Files that could
// not be read are not included.
func (s *Stats) Corrupt() int64 {
	return atomic.LoadInt64(&s.Mismatches) +
		atomic.LoadInt64(&s.Missing) +
		atomic.LoadInt64(&s.Malformed)
}
