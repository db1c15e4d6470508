package api

import (
	"strings"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	subjectKey      = "subject"
)

// RequestID ensures every request has an ID for tracing and logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID extracts request_id from gin context when available.
func GetRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}

// Logger writes one structured line per request, including any errors the
// handlers attached to the context.
func Logger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithField("request_id", GetRequestID(c))
		for _, e := range c.Errors {
			entry.WithError(e.Err).Error("request failed")
		}

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"ip":         c.ClientIP(),
		}
		if c.Writer.Status() >= 500 {
			entry.WithFields(fields).Warn("http request")
			return
		}
		entry.WithFields(fields).Info("http request")
	}
}

// BearerAuth requires an HS256 token signed with secret.
func BearerAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			RespondDomainError(c, domain.UnauthorizedError{Msg: "missing bearer token"})
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			RespondDomainError(c, domain.UnauthorizedError{Msg: "invalid bearer token", Err: err})
			return
		}

		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}
