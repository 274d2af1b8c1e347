package accesslog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	m := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &m))
	return m
}

func TestMiddlewareBuilder_Build(t *testing.T) {
	testCases := []struct {
		name      string
		threshold time.Duration
		handler   access.HandlerFunc
		wantLevel string
		wantMsg   string
		wantErr   string
	}{
		{
			name:      "completed",
			threshold: time.Minute,
			handler: func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
				return access.NewResult(nil, []access.Record{{"A": 1}}), nil
			},
			wantLevel: "info",
			wantMsg:   "query completed",
		},
		{
			name:      "slow",
			threshold: time.Nanosecond,
			handler: func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
				time.Sleep(time.Millisecond)
				return access.NewResult(nil, nil), nil
			},
			wantLevel: "warn",
			wantMsg:   "slow query completed",
		},
		{
			name:      "failed",
			threshold: time.Minute,
			handler: func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
				return nil, errors.New("table not found")
			},
			wantLevel: "error",
			wantMsg:   "query failed",
			wantErr:   "table not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := logger.New(logger.WithOutput(buf), logger.WithLevel(logger.DebugLevel))
			m := NewBuilder(l).SlowThreshold(tc.threshold).Build()

			qc := access.NewQueryContext(access.BackendSQL, "T", "SELECT * FROM T").WithPage(10, 1)
			_, err := m(tc.handler).QueryHandler(context.Background(), qc)
			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}

			line := lastLine(t, buf)
			assert.Equal(t, tc.wantLevel, line["level"])
			assert.Equal(t, tc.wantMsg, line["message"])
			assert.Equal(t, qc.ID, line["query_id"])
			assert.Equal(t, "sql", line["backend"])
			assert.Equal(t, "SELECT * FROM T", line["statement"])
			assert.Equal(t, float64(10), line["page_size"])
			if tc.wantErr != "" {
				assert.Equal(t, tc.wantErr, line["error"])
			}
		})
	}
}
