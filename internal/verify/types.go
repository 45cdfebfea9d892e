package verify

import (
	"RepoVerification/internal/metrics"
	"RepoVerification/internal/progress"
	"log/slog"
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeMismatch
	OutcomeMissing
	OutcomeMalformed
	OutcomeUnreadable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeMissing:
		return "missing"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Corrupt is true for outcomes that add to the corruption count. An
// unreadable file was never compared, so it does not.
func (o Outcome) Corrupt() bool {
	return o == OutcomeMismatch || o == OutcomeMissing || o == OutcomeMalformed
}

// Check is the outcome of verifying one checksum file.
type Check struct {
	ChecksumPath string
	ArtifactPath string
	Expected     string
	Computed     string
	Outcome      Outcome
	Err          error
}

type Result struct {
	Root       string
	Checked    int
	OK         int
	Unreadable int
	Mismatches []Check
}

// Corrupt is the number of corrupt artifacts found by the run.
func (r *Result) Corrupt() int {
	return len(r.Mismatches)
}

// Reporter receives every corrupt check as soon as it is found.
type Reporter interface {
	Corrupt(c Check)
}

type Options struct {
	Suffix    string
	Algorithm string

	Logger   *slog.Logger
	Reporter Reporter
	Stats    *metrics.Stats
	Bar      *progress.Bar
}
