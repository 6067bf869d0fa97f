package client

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/api/metrics"
	"github.com/shopfront/storefront/internal/core/domain"
)

// FallbackPolicy decides whether a failed remote call may be answered from the
// mock provider instead.
type FallbackPolicy interface {
	ShouldFallback(err error) bool
}

// PolicyFunc adapts a plain function to FallbackPolicy.
type PolicyFunc func(err error) bool

func (f PolicyFunc) ShouldFallback(err error) bool { return f(err) }

// ConnectivityOnly falls back on transport failures only, and only when
// eligible is true. Rejections such as bad credentials always surface.
func ConnectivityOnly(eligible bool) FallbackPolicy {
	return PolicyFunc(func(err error) bool {
		return eligible && domain.IsConnectivity(err)
	})
}

// AnyError falls back on every failure.
func AnyError() FallbackPolicy {
	return PolicyFunc(func(error) bool { return true })
}

// Never always surfaces the remote failure.
func Never() FallbackPolicy {
	return PolicyFunc(func(error) bool { return false })
}

// degrade calls primary and, when it fails and policy allows, secondary. The
// returned bool reports whether the answer came from secondary. A failure
// caused by the caller's own context is never degraded.
func degrade[S, T any](
	ctx context.Context,
	log zerolog.Logger,
	op string,
	policy FallbackPolicy,
	primary, secondary S,
	call func(S) (T, error),
) (T, bool, error) {
	out, err := call(primary)
	if err == nil {
		return out, false, nil
	}
	if ctx.Err() != nil || !policy.ShouldFallback(err) {
		return out, false, err
	}

	log.Warn().Err(err).Str("operation", op).Msg("remote call failed, using mock data")
	metrics.ClientFallbacksTotal.WithLabelValues(op).Inc()

	out, err = call(secondary)
	return out, true, err
}
