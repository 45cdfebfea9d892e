// Package report writes the operator-facing lines of a verification run.
package report

import (
	"RepoVerification/internal/verify"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Printer writes human-readable lines to w. If a list file is attached,
// every corrupt artifact path is also written there, one per line, so it
// can be fed to a cleanup script.
type Printer struct {
	w    io.Writer
	list io.Writer
	errs int
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// AttachList mirrors corrupt artifact paths to list.
func (p *Printer) AttachList(list io.Writer) {
	p.list = list
}

// CreateList opens path for writing and attaches it. The caller closes
// the returned file.
func (p *Printer) CreateList(path string) (*os.File, error) {
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrapf(err, "create report file %s", path)
	}
	p.AttachList(f)
	return f, nil
}

func (p *Printer) Banner(root string) {
	_, _ = fmt.Fprintf(p.w, "Checking repository: %q\n", root)
}

// Corrupt implements verify.Reporter.
func (p *Printer) Corrupt(c verify.Check) {
	switch c.Outcome {
	case verify.OutcomeMismatch:
		_, _ = fmt.Fprintf(p.w, "CORRUPT   %s (expected %s, got %s)\n", c.ArtifactPath, c.Expected, c.Computed)
	case verify.OutcomeMissing:
		_, _ = fmt.Fprintf(p.w, "MISSING   %s (listed in %s)\n", c.ArtifactPath, c.ChecksumPath)
	case verify.OutcomeMalformed:
		_, _ = fmt.Fprintf(p.w, "MALFORMED %s (no digest in %s)\n", c.ArtifactPath, c.ChecksumPath)
	default:
		return
	}

	if p.list == nil {
		return
	}
	if _, err := fmt.Fprintln(p.list, c.ArtifactPath); err != nil {
		p.errs++
	}
}

// ListErrors is the number of lines that could not be written to the list.
func (p *Printer) ListErrors() int { return p.errs }
