package prometheus

import (
	"context"
	"time"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/prometheus/client_golang/prometheus"
)

// MiddlewareBuilder 按 backend、source、status 统计查询耗时（微秒）
type MiddlewareBuilder struct {
	NameSpace string
	Name      string
	SubSystem string
	Help      string
	// Registerer 为空时不注册，由调用方自行注册 Collector
	Registerer prometheus.Registerer
}

func (m *MiddlewareBuilder) Build() access.Middleware {
	vec := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      m.Name,
		Help:      m.Help,
		Namespace: m.NameSpace,
		Subsystem: m.SubSystem,
		Objectives: map[float64]float64{
			0.5:   0.05,
			0.9:   0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{"backend", "source", "status"})
	if m.Registerer != nil {
		m.Registerer.MustRegister(vec)
	}

	return func(next access.Handler) access.Handler {
		return access.HandlerFunc(func(ctx context.Context, qc *access.QueryContext) (res *access.QueryResult, err error) {
			startTime := time.Now()
			defer func() {
				status := "ok"
				if err != nil {
					status = "error"
				}
				vec.WithLabelValues(string(qc.Backend), qc.Source, status).
					Observe(float64(time.Since(startTime).Microseconds()))
			}()
			return next.QueryHandler(ctx, qc)
		})
	}
}
