package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artmarket.backoffice/pkg/logger"
	"artmarket.backoffice/pkg/redis"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"
	IdempotencyConflict  = "IDEMPOTENCY_CONFLICT"

	// LockDuration bounds how long an in-flight request holds its key
	LockDuration = 30 * time.Second
	// RetentionDuration is how long a completed response can be replayed
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
	skipStoreKey     = "idempotency.skip_store"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

// bodyRecorder tees the response body so it can be stored for replays
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// decodeStored accepts the status envelope and, for older entries, a bare body
func decodeStored(val string) storedResponse {
	var stored storedResponse
	if err := json.Unmarshal([]byte(val), &stored); err != nil || stored.Status == 0 {
		return storedResponse{Status: http.StatusOK, Body: val}
	}
	return stored
}

// IdempotencyKey scopes a client key to the route it was sent to
func IdempotencyKey(method, path, key string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s", method, path, key)
}

func abortInFlight(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{
		"code":    IdempotencyConflict,
		"message": "Requête déjà en cours de traitement",
	})
}

// SkipIdempotentStore tells IdempotencyMiddleware not to keep the current
// response even when its status is 2xx. The key is released instead.
func SkipIdempotentStore(c *gin.Context) {
	c.Set(skipStoreKey, true)
}

// IdempotencyMiddleware replays the stored response of a request already
// processed under the same Idempotency-Key. Requests without the header pass through.
// Only 2xx responses are kept; any other outcome releases the key for a retry.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storageKey := IdempotencyKey(c.Request.Method, c.Request.URL.Path, key)

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil && val == processingMarker:
			abortInFlight(c)
			return
		case err == nil:
			stored := decodeStored(val)
			c.Header(IdempotencyHitHeader, "true")
			c.Data(stored.Status, "application/json; charset=utf-8", []byte(stored.Body))
			c.Abort()
			return
		case !redis.IsNil(err):
			logger.Warn(ctx, "Idempotency store unavailable, processing without replay protection",
				zap.String("key", storageKey), zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil || !acquired {
			abortInFlight(c)
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices || c.GetBool(skipStoreKey) {
			_ = redisDel(ctx, storageKey)
			return
		}

		encoded, _ := json.Marshal(storedResponse{Status: status, Body: rec.body.String()})
		if err := redisSet(ctx, storageKey, string(encoded), RetentionDuration); err != nil {
			logger.Warn(ctx, "Failed to store idempotent response", zap.String("key", storageKey), zap.Error(err))
		}
	}
}
