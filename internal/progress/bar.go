package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

type SnapshotFn func() (checked, corrupt, unreadable, bytesHashed int64)

// Bar is a spinner: the number of artifacts is not known until the walk
// is over, so only hashed bytes and running counts are shown.
type Bar struct {
	bar  *progressbar.ProgressBar
	ch   chan int64
	done chan struct{}
	stop chan struct{}

	snap   SnapshotFn
	lastB  int64
	lastAt time.Time
}

func New(w io.Writer, snap SnapshotFn) *Bar {
	b := &Bar{
		ch:     make(chan int64, 16384),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
		snap:   snap,
		lastAt: time.Now(),
	}

	b.bar = progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription("verifying"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(120*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	_ = b.bar.RenderBlank()
	go func() {
		defer close(b.done)
		for n := range b.ch {
			_ = b.bar.Add64(n)
		}
		_ = b.bar.Finish()
	}()

	go func() {
		t := time.NewTicker(1 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.updateDescription()
			case <-b.stop:
				return
			}
		}
	}()

	return b
}

func (b *Bar) AddBytes(n int64) {
	if n <= 0 {
		return
	}
	b.ch <- n
}

// Close flushes pending updates and waits for the render goroutine.
func (b *Bar) Close() {
	close(b.stop)
	close(b.ch)
	<-b.done
}

func (b *Bar) updateDescription() {
	if b.snap == nil {
		return
	}
	checked, corrupt, unreadable, bytesHashed := b.snap()

	now := time.Now()
	dt := now.Sub(b.lastAt).Seconds()

	mbps := 0.0
	if dt > 0 {
		dBytes := bytesHashed - b.lastB
		mbps = (float64(dBytes) / 1_000_000.0) / dt
	}

	b.lastB = bytesHashed
	b.lastAt = now

	b.bar.Describe(fmt.Sprintf("verifying %d files | corrupt=%d unreadable=%d | %.1f MB/s",
		checked, corrupt, unreadable, mbps,
	))
}
