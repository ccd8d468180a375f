// Package query turns command line filter specs into Elasticsearch queries
package query

import (
	"errors"
	"fmt"
	"strings"
)

// Junctor is the boolean combinator applied uniformly across all filters
type Junctor string

const (
	And Junctor = "and"
	Or  Junctor = "or"
)

// ErrUnknownJunctor is returned for any junctor other than "and" or "or"
var ErrUnknownJunctor = errors.New("unknown junctor")

// FilterSpec is a single exact-term constraint, parsed from "field=value"
type FilterSpec struct {
	Field string
	Value string
}

// FilterSet is an ordered list of filters
type FilterSet []FilterSpec

// MalformedFilterSpecError is returned when a filter spec is not of the form "field=value"
type MalformedFilterSpecError struct {
	Spec   string
	Key    string
	Reason string
}

func (e *MalformedFilterSpecError) Error() string {
	return fmt.Sprintf("malformed filter %q: key %s %s; syntax is key=value", e.Spec, e.Key, e.Reason)
}

// ParseJunctor validates a junctor name. Matching is case-sensitive.
func ParseJunctor(s string) (Junctor, error) {
	switch Junctor(s) {
	case And, Or:
		return Junctor(s), nil
	}
	return "", fmt.Errorf("%w %q, must be %q or %q", ErrUnknownJunctor, s, And, Or)
}

// ParseFilters parses a list of "field=value" specs, preserving their order
func ParseFilters(specs []string) (FilterSet, error) {
	filters := make(FilterSet, 0, len(specs))
	for _, spec := range specs {
		filter, err := ParseFilter(spec)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	return filters, nil
}

// ParseFilter parses a single "field=value" spec. Multi-value filters
// ("field=a,b") are rejected.
func ParseFilter(spec string) (FilterSpec, error) {
	parts := strings.Split(spec, "=")
	if len(parts) != 2 {
		return FilterSpec{}, &MalformedFilterSpecError{Spec: spec, Key: parts[0], Reason: fmt.Sprintf("has %d '=' signs", len(parts)-1)}
	}
	key := parts[0]
	if key == "" {
		return FilterSpec{}, &MalformedFilterSpecError{Spec: spec, Key: `""`, Reason: "is empty"}
	}
	if parts[1] == "" {
		return FilterSpec{}, &MalformedFilterSpecError{Spec: spec, Key: key, Reason: "has no value"}
	}
	values := strings.Split(parts[1], ",")
	if len(values) > 1 {
		return FilterSpec{}, &MalformedFilterSpecError{Spec: spec, Key: key, Reason: "has too many values"}
	}
	return FilterSpec{Field: key, Value: values[0]}, nil
}
