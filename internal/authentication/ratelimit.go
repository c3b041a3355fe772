package authentication

import (
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/didip/tollbooth_gin"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware throttles the anonymous auth endpoints per client IP.
func RateLimitMiddleware(perSecond float64) gin.HandlerFunc {
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetIPLookups([]string{"RemoteAddr"})
	lmt.SetMessage(`{"error":"rate limit exceeded"}`)
	lmt.SetMessageContentType("application/json; charset=utf-8")

	return tollbooth_gin.LimitHandler(lmt)
}
