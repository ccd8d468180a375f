package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters_PreservesOrder(t *testing.T) {
	filters, err := ParseFilters([]string{"meta.kind=title", "status=active", "a=b"})
	require.Nil(t, err)
	assert.Equal(t, FilterSet{
		{Field: "meta.kind", Value: "title"},
		{Field: "status", Value: "active"},
		{Field: "a", Value: "b"},
	}, filters)
}

func TestParseFilters_Empty(t *testing.T) {
	filters, err := ParseFilters(nil)
	require.Nil(t, err)
	assert.Empty(t, filters)
}

func TestParseFilter_Malformed(t *testing.T) {
	cases := []struct {
		name string
		spec string
		key  string
	}{
		{"no equals sign", "status", "status"},
		{"two equals signs", "a=b=c", "a"},
		{"no value", "kind=", "kind"},
		{"two comma values", "kind=a,b", "kind"},
		{"trailing comma", "kind=a,", "kind"},
		{"empty key", "=a", `""`},
		{"empty spec", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseFilter(c.spec)
			require.NotNil(t, err)
			var malformed *MalformedFilterSpecError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, c.spec, malformed.Spec)
			assert.Equal(t, c.key, malformed.Key)
		})
	}
}

func TestParseFilters_StopsAtFirstMalformed(t *testing.T) {
	_, err := ParseFilters([]string{"ok=1", "kind=a,b", "bad"})
	var malformed *MalformedFilterSpecError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "kind", malformed.Key)
	assert.Contains(t, err.Error(), "too many values")
}

func TestParseJunctor(t *testing.T) {
	j, err := ParseJunctor("and")
	require.Nil(t, err)
	assert.Equal(t, And, j)

	j, err = ParseJunctor("or")
	require.Nil(t, err)
	assert.Equal(t, Or, j)

	for _, s := range []string{"AND", "Or", "xor", ""} {
		_, err := ParseJunctor(s)
		assert.True(t, errors.Is(err, ErrUnknownJunctor), s)
	}
}
