package sqlbuilder

import (
	"errors"
	"testing"
	"time"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhere(t *testing.T) {
	day := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	next := day.AddDate(0, 0, 1)

	testCases := []struct {
		name    string
		dialect Dialect
		p       uquery.Predicate
		want    string
		wantErr error
	}{
		{
			name:    "eq int",
			dialect: Oracle{},
			p:       uquery.Eq("STATUS", 1),
			want:    "STATUS = 1",
		},
		{
			name:    "comparison operators",
			dialect: MySQL{},
			p: uquery.And(uquery.Gt("A", 1), uquery.Ge("B", 1.5), uquery.Lt("C", -2),
				uquery.Le("D", "z"), uquery.NotEq("E", false)),
			want: "A > 1 AND B >= 1.5 AND C < -2 AND D <= 'z' AND E <> 0",
		},
		{
			name:    "null",
			dialect: MySQL{},
			p:       uquery.And(uquery.Eq("A", nil), uquery.NotEq("B", nil)),
			want:    "A IS NULL AND B NOT IS NULL",
		},
		{
			name:    "quote escaping",
			dialect: Oracle{},
			p:       uquery.Eq("NAME", "O'Neil"),
			want:    "NAME = 'O''Neil'",
		},
		{
			name:    "in",
			dialect: MySQL{},
			p:       uquery.In("A", []int{1, 2, 3}),
			want:    "A IN (1,2,3)",
		},
		{
			name:    "not in",
			dialect: SQLServer{},
			p:       uquery.NotIn("A", []string{"x", "y"}),
			want:    "A NOT IN ('x','y')",
		},
		{
			name:    "or in and",
			dialect: MySQL{},
			p:       uquery.And(uquery.Gt("AGE", 18), uquery.Or(uquery.Eq("NAME", "Tom"), uquery.Eq("NAME", nil))),
			want:    "AGE > 18 AND (NAME = 'Tom' OR NAME IS NULL)",
		},
		{
			name:    "and in or",
			dialect: MySQL{},
			p:       uquery.Or(uquery.And(uquery.Eq("A", 1), uquery.Eq("B", 2)), uquery.Eq("C", 3)),
			want:    "(A = 1 AND B = 2 OR C = 3)",
		},
		{
			name:    "oracle like",
			dialect: Oracle{},
			p:       uquery.Like("N", "^a"),
			want:    "REGEXP_LIKE(N,'^a')",
		},
		{
			name:    "sqlserver like",
			dialect: SQLServer{},
			p:       uquery.Like("N", "^a"),
			want:    "dbo.RegexMatch(N,'^a','true') = 1",
		},
		{
			name:    "mysql like",
			dialect: MySQL{},
			p:       uquery.Like("N", "a'b"),
			want:    "N LIKE '%a''b%'",
		},
		{
			name:    "oracle datetime",
			dialect: Oracle{},
			p:       uquery.Ge("DT", day),
			want:    "DT >= TO_DATE('2024/03/05 14:07:09','YYYY/MM/DD HH24:MI:SS')",
		},
		{
			name:    "mysql datetime",
			dialect: MySQL{},
			p:       uquery.Lt("DT", day),
			want:    "DT < STR_TO_DATE('2024-03-05 14:07:09','%Y-%m-%d %k:%i:%s')",
		},
		{
			name:    "sqlserver datetime",
			dialect: SQLServer{},
			p:       uquery.Eq("DT", day),
			want:    "CONVERT(VARCHAR(8),[DT],12) = '20240305'",
		},
		{
			name:    "sqlserver datetime array",
			dialect: SQLServer{},
			p:       uquery.In("DT", []time.Time{day, next}),
			want:    "CONVERT(VARCHAR(8),[DT],12) IN ('20240305','20240306')",
		},
		{
			name:    "sqlserver mixed array",
			dialect: SQLServer{},
			p:       uquery.In("DT", []any{day, 1}),
			want:    "DT IN ('20240305',1)",
		},
		{
			name:    "nil predicate",
			dialect: MySQL{},
			p:       nil,
			want:    "",
		},
		{
			name:    "empty in",
			dialect: MySQL{},
			p:       uquery.In("A", []int{}),
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "nil dialect",
			p:       uquery.Eq("A", 1),
			wantErr: ferr.ErrDialect,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Where(tc.dialect, tc.p)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
