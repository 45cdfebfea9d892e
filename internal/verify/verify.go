package verify

import (
	"RepoVerification/internal/checksum"
	"RepoVerification/internal/metrics"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

const (
	DefaultSuffix    = ".sha1"
	DefaultAlgorithm = "SHA1"
)

var ErrInvalidRoot = errors.New("invalid repository root")

type Verifier struct {
	opts Options
}

func New(opts Options) (*Verifier, error) {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultAlgorithm
	}
	if err := CheckAlgorithm(opts.Algorithm); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Stats == nil {
		opts.Stats = &metrics.Stats{}
	}
	return &Verifier{opts: opts}, nil
}

func (v *Verifier) Stats() *metrics.Stats { return v.opts.Stats }

// VerifyTree checks every checksum file below root. Directories are walked
// depth-first from an explicit stack. Per-file problems are recorded and the
// walk continues; only an invalid root is returned as an error.
func (v *Verifier) VerifyTree(root string) (*Result, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.Wrap(ErrInvalidRoot, "empty path")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRoot, "%s: %v", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRoot, "%s: %v", abs, err)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidRoot, "%s is not a directory", abs)
	}

	res := &Result{Root: abs}
	stack := []string{abs}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// ReadDir returns what it managed to read alongside the error.
		entries, err := os.ReadDir(dir)
		if err != nil {
			v.opts.Logger.Warn("cannot list directory", "path", dir, "err", err)
		}

		for _, e := range entries {
			p := filepath.Join(dir, e.Name())
			if e.IsDir() {
				stack = append(stack, p)
				continue
			}
			if !v.isChecksumFile(e.Name()) {
				continue
			}

			c := v.VerifyOne(p)
			res.Checked++
			switch {
			case c.Outcome == OutcomeOK:
				res.OK++
			case c.Outcome == OutcomeUnreadable:
				res.Unreadable++
			case c.Outcome.Corrupt():
				res.Mismatches = append(res.Mismatches, c)
			}
		}
	}

	return res, nil
}

func (v *Verifier) isChecksumFile(name string) bool {
	return len(name) > len(v.opts.Suffix) && strings.HasSuffix(name, v.opts.Suffix)
}

// VerifyOne checks a single checksum file and records the outcome in the
// stats, the reporter and the log.
func (v *Verifier) VerifyOne(checksumPath string) Check {
	c := CheckFile(checksumPath, v.opts.Algorithm, v.advance)
	v.observe(c)
	return c
}

func (v *Verifier) advance(n int64) {
	atomic.AddInt64(&v.opts.Stats.BytesHashed, n)
	if v.opts.Bar != nil {
		v.opts.Bar.AddBytes(n)
	}
}

func (v *Verifier) observe(c Check) {
	stats := v.opts.Stats
	atomic.AddInt64(&stats.Checked, 1)

	switch c.Outcome {
	case OutcomeOK:
		atomic.AddInt64(&stats.OK, 1)
		return
	case OutcomeMismatch:
		atomic.AddInt64(&stats.Mismatches, 1)
	case OutcomeMissing:
		atomic.AddInt64(&stats.Missing, 1)
	case OutcomeMalformed:
		atomic.AddInt64(&stats.Malformed, 1)
	case OutcomeUnreadable:
		atomic.AddInt64(&stats.Unreadable, 1)
		v.opts.Logger.Warn("cannot verify", "checksum", c.ChecksumPath, "artifact", c.ArtifactPath, "err", c.Err)
		return
	}

	if v.opts.Reporter != nil {
		v.opts.Reporter.Corrupt(c)
	}
}

// CheckFile compares the digest of the artifact paired with checksumPath
// against the digest recorded in it. It has no side effects beyond reading
// the two files and calling onProgress.
func CheckFile(checksumPath, algorithm string, onProgress func(n int64)) Check {
	c := Check{
		ChecksumPath: checksumPath,
		ArtifactPath: checksum.ArtifactPath(checksumPath),
	}
	if abs, err := filepath.Abs(c.ArtifactPath); err == nil {
		c.ArtifactPath = abs
	}

	d, err := checksum.Load(checksumPath)
	if err != nil {
		c.Err = err
		if errors.Is(err, checksum.ErrMalformed) {
			c.Outcome = OutcomeMalformed
		} else {
			c.Outcome = OutcomeUnreadable
		}
		return c
	}
	c.Expected = d.Expected

	computed, err := FileHashHex(c.ArtifactPath, algorithm, onProgress)
	if err != nil {
		c.Err = err
		if errors.Is(err, fs.ErrNotExist) {
			c.Outcome = OutcomeMissing
		} else {
			c.Outcome = OutcomeUnreadable
		}
		return c
	}
	c.Computed = computed

	if strings.EqualFold(computed, c.Expected) {
		c.Outcome = OutcomeOK
	} else {
		c.Outcome = OutcomeMismatch
	}
	return c
}
