package sqlbuilder

import (
	"errors"
	"testing"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Kind
		wantErr error
	}{
		{name: "oracle", input: "Oracle", want: KindOracle},
		{name: "sqlserver", input: " SQLSERVER ", want: KindSQLServer},
		{name: "mssql", input: "mssql", want: KindSQLServer},
		{name: "mysql", input: "mysql", want: KindMySQL},
		{name: "unknown", input: "sqlite", wantErr: ferr.ErrDialect},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ParseDialect(tc.input)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, d.Kind())

			same, err := DialectOf(tc.want)
			require.NoError(t, err)
			assert.Equal(t, d, same)
		})
	}

	_, err := DialectOf(Kind(0))
	var dialectErr *ferr.DialectError
	assert.True(t, errors.As(err, &dialectErr))
}

func TestDialect_PageSQL(t *testing.T) {
	const query = "SELECT * FROM T"
	page := paging.Normalize(10, 2, 25)

	testCases := []struct {
		name    string
		dialect Dialect
		want    string
		wantOK  bool
	}{
		{
			name:    "mysql",
			dialect: MySQL{},
			want:    "SELECT * FROM (SELECT * FROM T) tmp LIMIT 10, 10",
			wantOK:  true,
		},
		{
			name:    "oracle",
			dialect: Oracle{},
			want:    "SELECT * FROM (SELECT rownum rnum, tmp.* FROM (SELECT * FROM T) tmp) tmp WHERE rnum BETWEEN 11 AND 20 ORDER BY rnum",
			wantOK:  true,
		},
		{
			name:    "sqlserver",
			dialect: SQLServer{},
			wantOK:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.dialect.PageSQL(query, page.Window())
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCountSQL(t *testing.T) {
	assert.Equal(t, "SELECT COUNT(1) FROM (SELECT * FROM T) rc", CountSQL(MySQL{}, "SELECT * FROM T"))
	assert.Equal(t, "SELECT COUNT(1) FROM (SELECT TOP 100 PERCENT * FROM T ORDER BY A) rc",
		CountSQL(SQLServer{}, "SELECT * FROM T ORDER BY A"))
}

func TestSQLServer_FixSubquery(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no order by",
			input: "SELECT A FROM T",
			want:  "SELECT A FROM T",
		},
		{
			name:  "already top",
			input: "select top 10 A FROM T ORDER BY A",
			want:  "select top 10 A FROM T ORDER BY A",
		},
		{
			name:  "lower case",
			input: "select a from t order by a",
			want:  "SELECT TOP 100 PERCENT a from t order by a",
		},
		{
			name:  "distinct",
			input: "SELECT DISTINCT A FROM T ORDER BY A",
			want:  "SELECT DISTINCT TOP 100 PERCENT A FROM T ORDER BY A",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SQLServer{}.FixSubquery(tc.input))
		})
	}
}
