package handlers

import (
	"net/http"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewLimiterStore keeps counters in redis when a client is given, in
// process memory otherwise
func NewLimiterStore(client *redis.Client) (limiter.Store, error) {
	if client == nil {
		return memory.NewStore(), nil
	}
	st, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   "shiftdock:limit",
		MaxRetry: 3,
	})
	return st, errors.Wrap(err, "create redis limiter store")
}

// RateLimit limits requests per client IP. rate uses the limiter format,
// e.g. "5-M" for five per minute.
func RateLimit(rate string, st limiter.Store) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, errors.Wrapf(err, "parse rate %q", rate)
	}
	return mgin.NewMiddleware(limiter.New(st, r),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			abortWith(c, http.StatusTooManyRequests, apperr.CodeRateLimited, "too many requests, try again later")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			abortWith(c, http.StatusInternalServerError, apperr.CodeInternal, "rate limiter unavailable")
		}),
	), nil
}
