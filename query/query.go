package query

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

const matchAll = `{"match_all":{}}`

// Query is either match-all (Filter == nil) or a match-all query filtered by
// a combination of exact-term constraints
type Query struct {
	Filter *Filter
}

// Filter combines term constraints with a single junctor
type Filter struct {
	Junctor Junctor
	Terms   FilterSet
}

// MatchAll returns a query matching every document
func MatchAll() *Query {
	return &Query{}
}

// Assemble builds the query for the given filters. An empty filter set always
// yields a match-all query, whatever the junctor.
func Assemble(filters FilterSet, junctor Junctor) (*Query, error) {
	if len(filters) == 0 {
		return MatchAll(), nil
	}
	if _, err := ParseJunctor(string(junctor)); err != nil {
		return nil, err
	}
	terms := make(FilterSet, len(filters))
	copy(terms, filters)
	return &Query{Filter: &Filter{Junctor: junctor, Terms: terms}}, nil
}

// IsMatchAll returns true if the query has no filter
func (q *Query) IsMatchAll() bool {
	return q.Filter == nil
}

// JSON renders the query in the Elasticsearch query DSL, i.e. the value of
// the "query" key of a search or count request
func (q *Query) JSON() (string, error) {
	if q.IsMatchAll() {
		return matchAll, nil
	}
	terms := "[]"
	for _, t := range q.Filter.Terms {
		term, err := sjson.Set(`{"term":{}}`, "term."+escapePath(t.Field), t.Value)
		if err != nil {
			return "", fmt.Errorf("cannot build term for field %s: %w", t.Field, err)
		}
		if terms, err = sjson.SetRaw(terms, "-1", term); err != nil {
			return "", err
		}
	}
	var combined string
	var err error
	switch q.Filter.Junctor {
	case And:
		combined, err = sjson.SetRaw(`{}`, "bool.must", terms)
	case Or:
		combined, err = sjson.SetRaw(`{}`, "bool.should", terms)
		if err == nil {
			combined, err = sjson.Set(combined, "bool.minimum_should_match", 1)
		}
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownJunctor, q.Filter.Junctor)
	}
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(`{"bool":{"must":`+matchAll+`}}`, "bool.filter", combined)
}

func (q *Query) String() string {
	s, err := q.JSON()
	if err != nil {
		return fmt.Sprintf("<invalid query: %s>", err.Error())
	}
	return s
}

// escapePath escapes a field name so that sjson treats it as a single
// literal key, e.g. "meta.kind" is not expanded into {"meta":{"kind":..}}
func escapePath(field string) string {
	var b strings.Builder
	for _, r := range field {
		if strings.ContainsRune(`\.*?#|@:!=<>%`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
