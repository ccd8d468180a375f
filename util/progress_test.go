package util

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func newTestProgress(buf *bytes.Buffer, total, every uint64) (*Progress, *fakeClock) {
	clock := &fakeClock{t: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewProgress(buf, total, every)
	p.now = clock.now
	p.started = clock.t
	return p, clock
}

func noticeLines(s string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, "records recvd") {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestProgress_OneLinePerInterval(t *testing.T) {
	var buf bytes.Buffer
	p, clock := newTestProgress(&buf, 2500, 1000)
	for i := 0; i < 2500; i++ {
		clock.t = clock.t.Add(time.Millisecond)
		p.Add(10)
	}
	lines := noticeLines(buf.String())
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1000/2500 records recvd @ speed 1,000.0 r/s eta: "))
	assert.True(t, strings.HasPrefix(lines[1], "2000/2500 records recvd @ speed 1,000.0 r/s eta: "))
	assert.Equal(t, uint64(2500), p.Count())
}

func TestProgress_NoLineBeforeInterval(t *testing.T) {
	var buf bytes.Buffer
	p, _ := newTestProgress(&buf, 100, 10000)
	for i := 0; i < 9999; i++ {
		p.Add(1)
	}
	assert.Empty(t, buf.String())
}

func TestProgress_ETA(t *testing.T) {
	var buf bytes.Buffer
	p, clock := newTestProgress(&buf, 4000, 1000)
	for i := 0; i < 999; i++ {
		p.Add(1)
	}
	clock.t = clock.t.Add(10*time.Second + 900*time.Millisecond) // truncated to 10s
	p.Add(1)
	assert.Equal(t, "1000/4000 records recvd @ speed 100.0 r/s eta: 0 days 0 hours 0 minutes 30 seconds\n", buf.String())
}

func TestProgress_ZeroElapsed(t *testing.T) {
	var buf bytes.Buffer
	p, _ := newTestProgress(&buf, 10, 5)
	for i := 0; i < 5; i++ {
		p.Add(1)
	}
	assert.Equal(t, "5/10 records recvd @ speed - r/s eta: unknown\n", buf.String())
}

func TestProgress_CountAboveTotal(t *testing.T) {
	var buf bytes.Buffer
	p, clock := newTestProgress(&buf, 1, 2)
	clock.t = clock.t.Add(2 * time.Second)
	p.Add(1)
	p.Add(1)
	assert.Equal(t, "2/1 records recvd @ speed 1.0 r/s eta: 0 days 0 hours 0 minutes 0 seconds\n", buf.String())
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer
	p, clock := newTestProgress(&buf, 3, 10)
	p.Add(1000)
	p.Add(1000)
	p.Add(1000)
	clock.t = clock.t.Add(1500 * time.Millisecond)
	p.Done()
	assert.Equal(t, "[Scroller] done: 3/3 records in 1.5s, 3.0 kB received\n", buf.String())
}

func TestFormatDurationWords(t *testing.T) {
	assert.Equal(t, "0 days 0 hours 0 minutes 0 seconds", FormatDurationWords(0))
	assert.Equal(t, "0 days 0 hours 0 minutes 0 seconds", FormatDurationWords(-time.Second))
	assert.Equal(t, "0 days 0 hours 1 minute 1 second", FormatDurationWords(61*time.Second+300*time.Millisecond))
	assert.Equal(t, "1 day 2 hours 3 minutes 4 seconds", FormatDurationWords(26*time.Hour+3*time.Minute+4*time.Second))
	assert.Equal(t, "3 days 0 hours 0 minutes 0 seconds", FormatDurationWords(72*time.Hour))
}
