package opentracing

import (
	"context"

	"github.com/fyerfyer/fyer-uquery/access"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultInstrumentationName = "github.com/fyerfyer/fyer-uquery"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m *MiddlewareBuilder) Build() access.Middleware {
	tracer := m.Tracer
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer(defaultInstrumentationName)
	}

	return func(next access.Handler) access.Handler {
		return access.HandlerFunc(func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
			ctx, span := tracer.Start(ctx, "uquery."+string(qc.Backend), trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			span.SetAttributes(
				attribute.String("uquery.query_id", qc.ID),
				attribute.String("uquery.source", qc.Source),
				attribute.String("db.statement", qc.Statement),
			)
			if qc.Paged {
				span.SetAttributes(
					attribute.Int("uquery.page_size", qc.PageSize),
					attribute.Int("uquery.page_index", qc.PageIndex),
				)
			}

			res, err := next.QueryHandler(ctx, qc)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return res, err
			}
			if res != nil {
				span.SetAttributes(attribute.Int("uquery.record_count", res.RecordCount))
			}
			return res, nil
		})
	}
}
