package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/ratelimit"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// RateLimitByIP limits requests to an endpoint per client address.
func RateLimitByIP(limiter *ratelimit.Limiter, logger *zap.Logger, failOpen bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := ratelimit.IPKey(c.Path(), c.IP())
		return enforce(c, limiter, logger, failOpen, key)
	}
}

// RateLimitByIdentity limits requests per client address combined with the
// identity claimed in the request body. Requests without a parseable
// identity fall back to the address-only key.
func RateLimitByIdentity(limiter *ratelimit.Limiter, logger *zap.Logger, failOpen bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := ratelimit.IPKey(c.Path(), c.IP())

		var body struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&body); err == nil && body.Email != "" {
			key = ratelimit.IdentityKey(c.Path(), body.Email, c.IP())
		}
		return enforce(c, limiter, logger, failOpen, key)
	}
}

func enforce(c *fiber.Ctx, limiter *ratelimit.Limiter, logger *zap.Logger, failOpen bool, key string) error {
	result, err := limiter.Check(c.UserContext(), key)
	if err != nil {
		if failOpen {
			logger.Warn("rate limit check failed; allowing request", zap.Error(err))
			return c.Next()
		}
		return apperrors.NewStoreUnavailable(err)
	}

	if !result.Allowed {
		retryAfter := int64(result.RetryAfter / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		return apperrors.NewRateLimited(retryAfter)
	}
	return c.Next()
}
