package accesslog

import (
	"context"
	"time"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/logger"
)

// MiddlewareBuilder 查询日志中间件
type MiddlewareBuilder struct {
	logger        logger.Logger
	slowThreshold time.Duration
}

func NewBuilder(l logger.Logger) *MiddlewareBuilder {
	if l == nil {
		l = logger.Default()
	}
	return &MiddlewareBuilder{
		logger:        l,
		slowThreshold: 500 * time.Millisecond,
	}
}

// SlowThreshold 超过该耗时的查询以 warn 级别输出
func (b *MiddlewareBuilder) SlowThreshold(d time.Duration) *MiddlewareBuilder {
	b.slowThreshold = d
	return b
}

func (b *MiddlewareBuilder) Build() access.Middleware {
	return func(next access.Handler) access.Handler {
		return access.HandlerFunc(func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
			l := b.logger.WithContext(ctx).WithFields(
				logger.String("query_id", qc.ID),
				logger.String("backend", string(qc.Backend)),
				logger.String("source", qc.Source),
			)
			l.Debug("query started", logger.String("statement", qc.Statement))

			start := time.Now()
			res, err := next.QueryHandler(ctx, qc)
			duration := time.Since(start)

			fields := []logger.Field{
				logger.String("statement", qc.Statement),
				logger.Duration("duration", duration),
			}
			if qc.Paged {
				fields = append(fields,
					logger.Int("page_size", qc.PageSize),
					logger.Int("page_index", qc.PageIndex))
			}

			if err != nil {
				l.Error("query failed", append(fields, logger.FieldError(err))...)
				return res, err
			}

			if res != nil {
				fields = append(fields,
					logger.Int("rows", len(res.Records)),
					logger.Int("record_count", res.RecordCount))
			}
			if duration > b.slowThreshold {
				l.Warn("slow query completed", fields...)
			} else {
				l.Info("query completed", fields...)
			}
			return res, nil
		})
	}
}
