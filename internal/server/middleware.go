package server

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an ID, stores a request-scoped
// logger in the request context and logs the outcome.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		reqLog := log.With("request_id", id)
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), reqLog))

		c.Next()

		keyvals := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			keyvals = append(keyvals, "error", errs.String())
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			reqLog.Error("request failed", keyvals...)
			return
		}
		reqLog.Info("request completed", keyvals...)
	}
}

// RateLimit allows requests per fixed window for each client IP. A client's
// window opens with its first request. Paths in exclude are never limited.
// A non-positive requests disables the limiter.
func RateLimit(requests int, window time.Duration, exclude ...string) gin.HandlerFunc {
	if requests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	windows := limiter.New(memory.NewStore(), limiter.Rate{Period: window, Limit: int64(requests)})
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range exclude {
			if path == p {
				c.Next()
				return
			}
		}
		lctx, err := windows.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
		if lctx.Reached {
			retryIn := time.Until(time.Unix(lctx.Reset, 0))
			c.Header("Retry-After", strconv.Itoa(max(1, int(math.Ceil(retryIn.Seconds())))))
			respondError(c, rateLimited{})
			return
		}
		c.Next()
	}
}

type rateLimited struct{}

func (rateLimited) Error() string { return "rate limit exceeded" }

func (rateLimited) ErrorKind() llm.ErrorKind { return KindRateLimited }

// CORS allows any origin, as the browser front-end is served elsewhere.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", strings.Join([]string{"Content-Type", "Accept", requestIDHeader}, ", "))
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Expose-Headers", requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
