package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"connectrpc.com/connect"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

var ErrRateLimited = errors.New("too many requests, please try again later")

// NewMemoryLimiter builds an in-process limiter from a formatted rate such as "5-M".
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit limits calls to the given procedures per client IP.
// Other procedures pass through untouched.
func RateLimit(l *limiter.Limiter, logger *slog.Logger, procedures ...string) connect.UnaryInterceptorFunc {
	limited := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		limited[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			if !limited[procedure] {
				return next(ctx, req)
			}

			ip := clientIP(req.Peer().Addr)
			lctx, err := l.Get(ctx, ip)
			if err != nil {
				logger.Error("Failed to get rate limit context", "ip", ip, "error", err)
				return nil, connect.NewError(connect.CodeInternal, err)
			}

			if lctx.Reached {
				logger.Warn("Rate limit exceeded",
					"ip", ip,
					"procedure", procedure,
					"limit", lctx.Limit,
				)
				return nil, connect.NewError(connect.CodeResourceExhausted, ErrRateLimited)
			}

			return next(ctx, req)
		}
	}
}

func clientIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
