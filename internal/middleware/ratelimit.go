package middleware

import (
	"fmt"
	"net/http"

	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/josh-kwaku/learning-backend/internal/handler"
	"github.com/josh-kwaku/learning-backend/internal/logging"
)

// NewIPRateLimiter limits requests per client IP using an in-memory store.
// rate uses the limiter format, e.g. "20-M". An empty rate disables limiting.
func NewIPRateLimiter(rate string) (func(http.Handler) http.Handler, error) {
	if rate == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("NewIPRateLimiter: %w", err)
	}

	instance := limiter.New(memory.NewStore(), parsed)
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Warn("rate limit reached", "ip", instance.GetIPKey(r))
			handler.RespondAppError(w, handler.ErrTooManyRequests, nil)
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logging.FromContext(r.Context()).Error("rate limiter failed", "error", err)
			handler.RespondAppError(w, handler.ErrInternalError, nil)
		}),
	)
	return mw.Handler, nil
}
