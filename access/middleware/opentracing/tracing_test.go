package opentracing

import (
	"context"
	"errors"
	"testing"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordedSpan struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	err    error
	ended  bool
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) {
	s.err = err
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string) {
	s.status = code
}

func (s *recordedSpan) End(...trace.SpanEndOption) {
	s.ended = true
}

type recordingTracer struct {
	noop.Tracer
	spans []*recordedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	span := &recordedSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	r.spans = append(r.spans, span)
	return trace.ContextWithSpan(ctx, span), span
}

func TestMiddlewareBuilder_Build(t *testing.T) {
	tracer := &recordingTracer{}
	m := (&MiddlewareBuilder{Tracer: tracer}).Build()

	var spanInHandler trace.Span
	h := m(access.HandlerFunc(func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
		spanInHandler = trace.SpanFromContext(ctx)
		return &access.QueryResult{RecordCount: 25}, nil
	}))

	qc := access.NewQueryContext(access.BackendSQL, "T", "SELECT * FROM T").WithPage(10, 2)
	_, err := h.QueryHandler(context.Background(), qc)
	require.NoError(t, err)

	require.Len(t, tracer.spans, 1)
	span := tracer.spans[0]
	assert.Same(t, span, spanInHandler)
	assert.Equal(t, "uquery.sql", span.name)
	assert.True(t, span.ended)
	assert.Equal(t, qc.ID, span.attrs["uquery.query_id"].AsString())
	assert.Equal(t, "SELECT * FROM T", span.attrs["db.statement"].AsString())
	assert.Equal(t, int64(2), span.attrs["uquery.page_index"].AsInt64())
	assert.Equal(t, int64(25), span.attrs["uquery.record_count"].AsInt64())
	assert.Equal(t, codes.Unset, span.status)
}

func TestMiddlewareBuilder_Error(t *testing.T) {
	tracer := &recordingTracer{}
	wantErr := errors.New("index missing")
	h := (&MiddlewareBuilder{Tracer: tracer}).Build()(access.HandlerFunc(
		func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
			return nil, wantErr
		}))

	_, err := h.QueryHandler(context.Background(), access.NewQueryContext(access.BackendSearch, "idx", "{}"))
	assert.Equal(t, wantErr, err)
	require.Len(t, tracer.spans, 1)
	assert.Equal(t, "uquery.search", tracer.spans[0].name)
	assert.Equal(t, wantErr, tracer.spans[0].err)
	assert.Equal(t, codes.Error, tracer.spans[0].status)
}

func TestMiddlewareBuilder_DefaultTracer(t *testing.T) {
	h := (&MiddlewareBuilder{}).Build()(access.HandlerFunc(
		func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
			return access.NewResult(nil, nil), nil
		}))
	_, err := h.QueryHandler(context.Background(), access.NewQueryContext(access.BackendDocument, "c", "{}"))
	assert.NoError(t, err)
}
