package datasource

import (
	"testing"
	"time"

	"github.com/fyerfyer/fyer-uquery/sqlbuilder"
	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  any
	}{
		{name: "blank", input: "  "},
		{name: "date", input: "date'2011-1-30'", want: time.Date(2011, 1, 30, 0, 0, 0, 0, time.Local)},
		{name: "quoted", input: "'abc'", want: "abc"},
		{name: "empty quoted", input: "''", want: ""},
		{name: "decimal", input: "-1.25", want: -1.25},
		{name: "trailing dot", input: "3.", want: 3.0},
		{name: "integer", input: "123", want: int64(123)},
		{name: "zero", input: "0", want: int64(0)},
		{name: "leading zero", input: "012", want: "012"},
		{name: "plain", input: "abc", want: "abc"},
		{name: "single with comma", input: " 5, ", want: int64(5)},
		{
			name:  "list",
			input: "1, 'a',1,date'2024-02-29'",
			want:  []any{int64(1), "a", time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseValue(tc.input))
		})
	}
}

func TestCollectionNames(t *testing.T) {
	testCases := []struct {
		name string
		src  Source
		want []string
	}{
		{
			name: "no params",
			src:  Source{Name: "QUOTE"},
			want: []string{"QUOTE"},
		},
		{
			name: "ordered by name",
			src: Source{Name: "QUOTE", Params: []Parameter{
				{Name: "TYP", Value: []any{int64(1), int64(2)}},
				{Name: "DT", Value: time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)},
			}},
			want: []string{"QUOTE_2024-01-31_1", "QUOTE_2024-01-31_2"},
		},
		{
			name: "cartesian",
			src: Source{Name: "Q", Params: []Parameter{
				{Name: "A", Value: []any{"x", "y"}},
				{Name: "B", Value: []any{int64(1), int64(2)}},
			}},
			want: []string{"Q_x_1", "Q_x_2", "Q_y_1", "Q_y_2"},
		},
		{
			name: "nil skipped",
			src:  Source{Name: "Q", Params: []Parameter{{Name: "A"}, {Name: "B", Value: "b"}}},
			want: []string{"Q_b"},
		},
		{
			name: "incremental",
			src:  Source{Name: "Q", Incremental: true, Params: []Parameter{{Name: "A", Value: "a"}}},
			want: []string{"Q"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CollectionNames(tc.src))
		})
	}
}

func TestFillSQL(t *testing.T) {
	sql := "SELECT * FROM T WHERE CODE IN (${CODE}) AND DT = ${DT} AND N = ${N} AND X = ${X}"
	got := FillSQL(sqlbuilder.Oracle{}, sql, []Parameter{
		{Name: "CODE", Value: []any{"A", "O'B"}},
		{Name: "DT", Value: time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)},
		{Name: "N", Value: int64(3)},
		{Name: "X"},
	})
	assert.Equal(t, "SELECT * FROM T WHERE CODE IN ('A','O''B') AND DT = "+
		sqlbuilder.Oracle{}.TimeLiteral(time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local))+
		" AND N = 3 AND X = ${X}", got)
}
