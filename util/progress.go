package util

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress tracks the number of records emitted against a known total, and
// writes a status line to the writer every N records
type Progress struct {
	started time.Time
	writer  io.Writer
	count   uint64
	total   uint64
	every   uint64
	size    int64
	now     func() time.Time
	mu      sync.Mutex
}

// NewProgress creates a progress reporter that writes a line every `every` records
func NewProgress(writer io.Writer, total uint64, every uint64) *Progress {
	p := &Progress{
		writer: writer,
		total:  total,
		every:  every,
		now:    time.Now,
	}
	p.started = p.now()
	return p
}

// Add records one emitted document of the given size in bytes
func (p *Progress) Add(size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	p.size += size
	if p.every > 0 && p.count%p.every == 0 {
		p.notice()
	}
}

// Count returns the number of records emitted so far
func (p *Progress) Count() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Done writes the final summary line
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	elapsed := p.now().Sub(p.started).Round(time.Millisecond)
	fmt.Fprintf(p.writer, "[Scroller] done: %d/%d records in %s, %s received\n", p.count, p.total, elapsed, humanize.Bytes(uint64(p.size)))
}

// notice renders a status line. Elapsed time is truncated to whole seconds.
func (p *Progress) notice() {
	elapsed := float64(int64(p.now().Sub(p.started) / time.Second))
	speed, eta := "-", "unknown"
	if elapsed > 0 {
		remaining := uint64(0)
		if p.total > p.count {
			remaining = p.total - p.count
		}
		speed = humanize.FormatFloat("#,###.#", float64(p.count)/elapsed)
		etaMillis := int64(elapsed / float64(p.count) * float64(remaining) * 1000)
		eta = FormatDurationWords(time.Duration(etaMillis) * time.Millisecond)
	}
	fmt.Fprintf(p.writer, "%d/%d records recvd @ speed %s r/s eta: %s\n", p.count, p.total, speed, eta)
}
