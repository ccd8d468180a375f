package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"heckel.io/scroller/query"
)

// ResponseError is returned if Elasticsearch answers with a non-2xx status code
type ResponseError struct {
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected response code %d: %s", e.Status, e.Body)
}

// ElasticBackend reads from an Elasticsearch cluster via the scroll API.
//
// Elasticsearch no longer has a scan search type whose first response carries
// no hits, so the scan is emulated with a _doc-sorted scroll. The hits of the
// first response are held back and returned by the first NextPage call.
type ElasticBackend struct {
	es      *elasticsearch.Client
	pending *Page
}

var _ Backend = (*ElasticBackend)(nil)

// NewElasticBackend creates a client for the given nodes. Hosts containing a
// scheme ("http://..") are used as-is, all others are combined with port.
// If trace is not nil, every HTTP request is logged to it.
func NewElasticBackend(hosts []string, port int, trace io.Writer) (*ElasticBackend, error) {
	cfg := elasticsearch.Config{
		Addresses: NodeAddresses(hosts, port),
	}
	if trace != nil {
		cfg.Logger = &elastictransport.TextLogger{Output: trace}
	}
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create the elasticsearch client: %w", err)
	}
	return &ElasticBackend{es: es}, nil
}

// NodeAddresses turns hosts and a port into node URLs
func NodeAddresses(hosts []string, port int) []string {
	addresses := make([]string, 0, len(hosts))
	for _, host := range hosts {
		if strings.Contains(host, "://") {
			addresses = append(addresses, host)
		} else {
			addresses = append(addresses, "http://"+net.JoinHostPort(host, strconv.Itoa(port)))
		}
	}
	return addresses
}

// ClusterName returns the name of the cluster the client is connected to
func (b *ElasticBackend) ClusterName(ctx context.Context) (string, error) {
	body, err := readResponse(b.es.Info(b.es.Info.WithContext(ctx)))
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "cluster_name").String(), nil
}

func (b *ElasticBackend) Count(ctx context.Context, index string, q *query.Query) (uint64, error) {
	reqBody, err := requestBody(q)
	if err != nil {
		return 0, err
	}
	body, err := readResponse(b.es.Count(
		b.es.Count.WithContext(ctx),
		b.es.Count.WithIndex(index),
		b.es.Count.WithBody(strings.NewReader(reqBody)),
	))
	if err != nil {
		return 0, err
	}
	count := gjson.GetBytes(body, "count")
	if !count.Exists() {
		return 0, fmt.Errorf("no count in response: %s", string(body))
	}
	return count.Uint(), nil
}

func (b *ElasticBackend) OpenScan(ctx context.Context, index string, q *query.Query, pageSize int, ttl time.Duration) (*Page, error) {
	reqBody, err := requestBody(q)
	if err != nil {
		return nil, err
	}
	body, err := readResponse(b.es.Search(
		b.es.Search.WithContext(ctx),
		b.es.Search.WithIndex(index),
		b.es.Search.WithBody(strings.NewReader(reqBody)),
		b.es.Search.WithSort("_doc"),
		b.es.Search.WithTrackScores(false),
		b.es.Search.WithSize(pageSize),
		b.es.Search.WithScroll(ttl),
	))
	if err != nil {
		return nil, err
	}
	page, err := parsePage(body, ttl)
	if err != nil {
		return nil, err
	}
	b.pending = page
	return &Page{Cursor: page.Cursor}, nil
}

func (b *ElasticBackend) NextPage(ctx context.Context, cursor Cursor, ttl time.Duration) (*Page, error) {
	if b.pending != nil {
		page := b.pending
		b.pending = nil
		if len(page.Docs) > 0 {
			return page, nil
		}
	}
	body, err := readResponse(b.es.Scroll(
		b.es.Scroll.WithContext(ctx),
		b.es.Scroll.WithScrollID(cursor.ID),
		b.es.Scroll.WithScroll(ttl),
	))
	if err != nil {
		return nil, err
	}
	return parsePage(body, ttl)
}

func (b *ElasticBackend) CloseScan(ctx context.Context, cursor Cursor) error {
	b.pending = nil
	_, err := readResponse(b.es.ClearScroll(
		b.es.ClearScroll.WithContext(ctx),
		b.es.ClearScroll.WithScrollID(cursor.ID),
	))
	var respErr *ResponseError
	if errors.As(err, &respErr) && respErr.Status == http.StatusNotFound {
		return nil // already expired
	}
	return err
}

func requestBody(q *query.Query) (string, error) {
	raw, err := q.JSON()
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(`{}`, "query", raw)
}

func parsePage(body []byte, ttl time.Duration) (*Page, error) {
	scrollID := gjson.GetBytes(body, "_scroll_id")
	if !scrollID.Exists() {
		return nil, fmt.Errorf("no scroll id: %s", string(body))
	}
	hits := gjson.GetBytes(body, "hits.hits")
	if !hits.Exists() {
		return nil, errors.New("no hits")
	}
	if !hits.IsArray() {
		return nil, errors.New("no hits array")
	}
	docs := make([]string, 0)
	for _, hit := range hits.Array() {
		docs = append(docs, hit.Get("_source").Raw)
	}
	return &Page{Cursor: Cursor{ID: scrollID.String(), TTL: ttl}, Docs: docs}, nil
}

func readResponse(res *esapi.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, &ResponseError{Status: res.StatusCode, Body: string(body)}
	}
	return body, nil
}
