package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fyerfyer/fyer-uquery/paging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChain(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return func(next Handler) Handler {
			return HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
				order = append(order, name+" start")
				res, err := next.QueryHandler(ctx, qc)
				order = append(order, name+" end")
				return res, err
			})
		}
	}

	core := HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
		order = append(order, "core")
		return NewResult([]string{"ID"}, []Record{{"ID": 1}}), nil
	})

	h := BuildChain(core, []Middleware{record("log"), record("metric")})
	res, err := h.QueryHandler(context.Background(), NewQueryContext(BackendSQL, "T", "SELECT * FROM T"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RecordCount)
	assert.Equal(t, []string{"log start", "metric start", "core", "metric end", "log end"}, order)
}

func TestBuildChain_Error(t *testing.T) {
	wantErr := errors.New("boom")
	core := HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
		return nil, wantErr
	})
	_, err := BuildChain(core, nil).QueryHandler(context.Background(), NewQueryContext(BackendSearch, "idx", "{}"))
	assert.Equal(t, wantErr, err)
}

func TestNewQueryContext(t *testing.T) {
	qc := NewQueryContext(BackendDocument, "users", `{"A":1}`).WithPage(10, 2)
	_, err := uuid.Parse(qc.ID)
	assert.NoError(t, err)
	assert.True(t, qc.Paged)
	assert.Equal(t, 10, qc.PageSize)
	assert.Equal(t, 2, qc.PageIndex)

	other := NewQueryContext(BackendDocument, "users", `{"A":1}`)
	assert.NotEqual(t, qc.ID, other.ID)
}

type user struct {
	ID       int64
	Name     string `column:"USER_NAME"`
	Birthday time.Time
}

func TestQueryResult_Decode(t *testing.T) {
	birthday := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	res := NewPagedResult([]string{"ID", "USER_NAME", "BIRTHDAY"}, []Record{
		{"ID": int64(1), "USER_NAME": "Tom", "BIRTHDAY": birthday},
		{"ID": "2", "USER_NAME": "Jerry", "BIRTHDAY": "2001-02-03T00:00:00Z"},
	}, paging.Normalize(2, 1, 5))

	var users []user
	require.NoError(t, res.Decode(&users))
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, "Tom", users[0].Name)
	assert.True(t, users[0].Birthday.Equal(birthday))
	assert.Equal(t, int64(2), users[1].ID)
	assert.Equal(t, "Jerry", users[1].Name)
	assert.True(t, users[1].Birthday.Equal(time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)))

	var first user
	require.NoError(t, res.Decode(&first))
	assert.Equal(t, "Tom", first.Name)

	assert.Equal(t, paging.Page{Size: 2, Index: 1, Count: 3, RecordCount: 5}, res.Page())

	empty := NewResult(nil, nil)
	assert.Equal(t, []Record{}, empty.Records)
	assert.ErrorIs(t, empty.Decode(&first), ErrNoRecord)
}
