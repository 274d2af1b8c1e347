package datasource

import (
	"errors"
	"testing"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	src := Source{Name: "QUOTE", Params: []Parameter{{Name: "Code"}}}
	q, err := Resolve(src, map[string]string{
		"filter":        `{"PRICE":{"$gt":10}}`,
		"Order":         `{"PRICE":1}`,
		"DisplayFields": "CODE, ,PRICE",
		"CODE":          "'600000'",
	})
	require.NoError(t, err)

	assert.True(t, uquery.Equal(uquery.Gt("PRICE", 10), q.Filter))
	assert.Equal(t, []uquery.SortField{{Name: "PRICE", Mode: uquery.Desc}}, q.Sort)
	assert.Equal(t, []string{"CODE", "PRICE"}, q.Fields)
	assert.Equal(t, []Parameter{{Name: "Code", Value: "600000"}}, q.Source.Params)
	// 原数据源不变
	assert.Nil(t, src.Params[0].Value)
	assert.True(t, uquery.Equal(q.Filter, q.filter()))
}

func TestResolve_Incremental(t *testing.T) {
	src := Source{Name: "Q", Incremental: true, Params: []Parameter{{Name: "A"}, {Name: "B"}}}
	q, err := Resolve(src, map[string]string{
		"B":      "1,2",
		"FILTER": `{"C":"x"}`,
	})
	require.NoError(t, err)
	assert.Nil(t, q.Source.Params[0].Value)
	want := uquery.And(uquery.In("B", []int{1, 2}), uquery.Eq("C", "x"))
	assert.True(t, uquery.Equal(want, q.filter()), "got %s", q.filter())
}

func TestResolve_Error(t *testing.T) {
	testCases := []struct {
		name    string
		src     Source
		params  map[string]string
		wantErr error
	}{
		{
			name:    "missing parameter",
			src:     Source{Name: "Q", Params: []Parameter{{Name: "A"}}},
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "bad filter",
			src:     Source{Name: "Q"},
			params:  map[string]string{"FILTER": `{"A":{"$xx":1}}`},
			wantErr: ferr.ErrParse,
		},
		{
			name:    "bad order",
			src:     Source{Name: "Q"},
			params:  map[string]string{"ORDER": `{"A":3}`},
			wantErr: ferr.ErrParse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.src, tc.params)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}
