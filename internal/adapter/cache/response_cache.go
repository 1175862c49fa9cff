// Package cache provides a redis-backed response cache for read-heavy
// admin endpoints.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type cachedResponse struct {
	Code     int       `json:"code"`
	Body     []byte    `json:"body"`
	CachedAt time.Time `json:"cached_at"`
}

type bodyRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *bodyRecorder) Header() http.Header { return r.w.Header() }
func (r *bodyRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *bodyRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// ResponseCache serves successful GET responses from redis for ttl. The key
// includes the query string, so filtered listings cache independently.
// Cache errors degrade to an uncached pass-through, never to a failure.
func ResponseCache(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := buildKey(c)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil && cached.Code != 0 {
					return c.Blob(cached.Code, echo.MIMEApplicationJSON, cached.Body)
				}
			}

			rec := &bodyRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				return err
			}

			if rec.code >= 200 && rec.code < 300 {
				payload, _ := json.Marshal(cachedResponse{
					Code:     rec.code,
					Body:     rec.buf.Bytes(),
					CachedAt: time.Now().UTC(),
				})
				_ = rdb.Set(context.Background(), key, payload, ttl).Err()
			}
			return nil
		}
	}
}

func buildKey(c echo.Context) string {
	key := "respcache:" + c.Request().URL.Path
	if q := c.Request().URL.RawQuery; q != "" {
		key += "?" + q
	}
	return key
}
