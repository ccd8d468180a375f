package tools

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"heckel.io/scroller/query"
	"heckel.io/scroller/util"
)

const (
	// ScanPageSize is the number of documents requested per page
	ScanPageSize = 1000

	// ScanOpenTTL is the cursor TTL requested when opening the scan
	ScanOpenTTL = time.Minute

	// ScrollTTL is the cursor TTL requested on every page fetch
	ScrollTTL = 10 * time.Minute
)

// Cursor is an opaque server-issued scroll token and the TTL of its scan context
type Cursor struct {
	ID  string
	TTL time.Duration
}

// Page is one batch of raw source documents, along with the cursor for the next batch
type Page struct {
	Cursor Cursor
	Docs   []string
}

// Backend is the search cluster connection the scanner reads from
type Backend interface {
	// Count returns the number of documents in index matching q
	Count(ctx context.Context, index string, q *query.Query) (uint64, error)

	// OpenScan starts a non-scoring scan. Documents in the returned page are not emitted.
	OpenScan(ctx context.Context, index string, q *query.Query, pageSize int, ttl time.Duration) (*Page, error)

	// NextPage exchanges a cursor for the next page. An empty page means the scan is exhausted.
	NextPage(ctx context.Context, cursor Cursor, ttl time.Duration) (*Page, error)

	// CloseScan releases the server-side scan context
	CloseScan(ctx context.Context, cursor Cursor) error
}

type flusher interface {
	Flush() error
}

// Scroll writes every document in index matching q to w, one per line. Status
// and progress lines go to errw, one every noticeEvery documents. The scan
// context is released on all exit paths once it has been opened.
func Scroll(ctx context.Context, backend Backend, index string, q *query.Query, noticeEvery uint64, w io.Writer, errw io.Writer) (count uint64, err error) {
	total, err := backend.Count(ctx, index, q)
	if err != nil {
		return 0, fmt.Errorf("cannot count documents in index %s: %w", index, err)
	}

	started := time.Now()
	first, err := backend.OpenScan(ctx, index, q, ScanPageSize, ScanOpenTTL)
	if err != nil {
		return 0, fmt.Errorf("cannot open scan on index %s: %w", index, err)
	}
	took := time.Since(started)
	cursor := first.Cursor
	defer func() {
		logrus.Debugf("releasing scroll cursor")
		err = multierr.Append(err, backend.CloseScan(ctx, cursor))
	}()

	fmt.Fprintf(errw, "[Scroller] query: %s\n", q.String())
	fmt.Fprintf(errw, "[Scroller] took: %dms\n", took.Milliseconds())
	fmt.Fprintf(errw, "[Scroller] docs found: %d\n", total)

	progress := util.NewProgress(errw, total, noticeEvery)
	for pages := 1; ; pages++ {
		page, err := backend.NextPage(ctx, cursor, ScrollTTL)
		if err != nil {
			return progress.Count(), fmt.Errorf("cannot fetch page %d: %w", pages, err)
		}
		if page.Cursor.ID != "" {
			cursor = page.Cursor
		}
		logrus.Debugf("page %d: %d docs", pages, len(page.Docs))
		if len(page.Docs) == 0 {
			break
		}
		for _, doc := range page.Docs {
			if _, err := fmt.Fprintln(w, doc); err != nil {
				return progress.Count(), err
			}
			progress.Add(int64(len(doc)))
		}
		if f, ok := w.(flusher); ok {
			if err := f.Flush(); err != nil {
				return progress.Count(), err
			}
		}
	}
	progress.Done()
	return progress.Count(), nil
}
