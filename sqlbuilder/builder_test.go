package sqlbuilder

import (
	"errors"
	"testing"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	byID := uquery.SortField{Name: "ID", Mode: uquery.Asc}

	testCases := []struct {
		name    string
		b       *Builder
		want    string
		wantErr error
	}{
		{
			name: "select fields",
			b:    NewBuilder("T", Oracle{}).Select("ID", "NAME").Where(uquery.Eq("STATUS", 1)),
			want: "SELECT ID, NAME FROM T WHERE STATUS = 1",
		},
		{
			name: "all fields",
			b:    NewBuilder("T", MySQL{}),
			want: "SELECT * FROM T",
		},
		{
			name: "order by",
			b: NewBuilder("T", MySQL{}).OrderBy(
				uquery.SortField{Name: "NAME", Mode: uquery.Asc},
				uquery.SortField{Name: "AGE", Mode: uquery.Desc},
			),
			want: "SELECT * FROM T ORDER BY NAME ASC, AGE DESC",
		},
		{
			name: "subquery source",
			b:    NewBuilder("select * from T where X = 1", MySQL{}).Select("X"),
			want: "SELECT X FROM (select * from T where X = 1) BUILD",
		},
		{
			name: "sqlserver ordered subquery",
			b:    NewBuilder("SELECT ID FROM T ORDER BY ID", SQLServer{}),
			want: "SELECT * FROM (SELECT TOP 100 PERCENT ID FROM T ORDER BY ID) BUILD",
		},
		{
			name: "table name containing select",
			b:    NewBuilder("T_SELECTED", MySQL{}),
			want: "SELECT * FROM T_SELECTED",
		},
		{
			name: "oracle top",
			b:    NewBuilder("T", Oracle{}).OrderBy(byID).Top(5),
			want: "SELECT * FROM (SELECT * FROM T ORDER BY ID ASC) WHERE ROWNUM <= 5 ORDER BY ROWNUM",
		},
		{
			name: "sqlserver top",
			b:    NewBuilder("T", SQLServer{}).OrderBy(byID).Top(5),
			want: "SELECT TOP 5 * FROM (SELECT TOP 100 PERCENT * FROM T ORDER BY ID ASC)",
		},
		{
			name: "mysql top",
			b:    NewBuilder("T", MySQL{}).Where(uquery.Eq("A", "x")).Top(5),
			want: "SELECT * FROM (SELECT * FROM T WHERE A = 'x') LIMIT 5",
		},
		{
			name: "fields with alias",
			b:    NewBuilder("T", MySQL{}).Fields(NewFields().AddAlias("NAME", "N").Add("ID", " id ", "")),
			want: "SELECT NAME N, ID FROM T",
		},
		{
			name:    "empty source",
			b:       NewBuilder(" ", MySQL{}),
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "nil dialect",
			b:       NewBuilder("T", nil),
			wantErr: ferr.ErrDialect,
		},
		{
			name:    "bad predicate",
			b:       NewBuilder("T", MySQL{}).Where(uquery.NotIn("A", []int{})),
			wantErr: ferr.ErrArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.b.Build()
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFields(t *testing.T) {
	f := NewFields(" A ", "", "B", "a")
	assert.Equal(t, []string{"A", "B"}, f.Names())
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "A, B", f.String())

	var empty *Fields
	assert.Equal(t, "*", empty.String())
	assert.Equal(t, 0, empty.Len())
}
