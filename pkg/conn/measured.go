package conn

import (
	"context"

	"github.com/ddeutils/flowext/pkg/flowerrors"
	"github.com/ddeutils/flowext/pkg/metrics"
)

// measuredAdapter counts checks per dialect and operation. Glob passes
// through when the wrapped adapter supports it.
type measuredAdapter struct {
	dialect string
	next    Adapter
}

func (m *measuredAdapter) Ping(ctx context.Context) (bool, error) {
	ok, err := m.next.Ping(ctx)
	metrics.ConnChecks.WithLabelValues(m.dialect, "ping", metrics.OutcomeOf(err)).Inc()
	return ok, err
}

func (m *measuredAdapter) Exists(ctx context.Context, object string) (bool, error) {
	ok, err := m.next.Exists(ctx, object)
	metrics.ConnChecks.WithLabelValues(m.dialect, "exists", metrics.OutcomeOf(err)).Inc()
	return ok, err
}

func (m *measuredAdapter) Glob(ctx context.Context, pattern string) ([]string, error) {
	g, ok := m.next.(Globber)
	if !ok {
		return nil, flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"dialect %q does not support glob", m.dialect)
	}
	return g.Glob(ctx, pattern)
}
