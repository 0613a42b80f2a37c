package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/infrastructure/cache"
	"video-digest/infrastructure/logger"
	"video-digest/interfaces/respond"
)

// RateLimit throttles the expensive routes per user. It lets requests
// through when the limiter itself is down.
func RateLimit(limiter cache.IRateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if limiter == nil {
			ctx.Next()
			return
		}
		key := ctx.ClientIP()
		if v, ok := ctx.Get(UserKey); ok {
			if user, ok := v.(*model.User); ok {
				key = "user:" + strconv.FormatUint(uint64(user.ID), 10)
			}
		}

		allowed, retryAfter, err := limiter.Allow(ctx.Request.Context(), key)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("rate limiter unavailable")
			ctx.Next()
			return
		}
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			ctx.Header("Retry-After", strconv.Itoa(seconds))
			respond.Error(ctx, apperror.New(apperror.KindRateLimited, "too many requests, slow down").
				WithDetails(map[string]interface{}{"retryAfterSeconds": seconds}))
			return
		}
		ctx.Next()
	}
}
