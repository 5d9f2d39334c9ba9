package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyLockTTL = 30 * time.Second

// Idempotency replays the stored response for a repeated Idempotency-Key and
// rejects a duplicate that arrives while the first is still running. The
// handler stores the response under idempotency_cache_key and deletes
// idempotency_lock_key when done.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		// The concrete path keeps the record id, so one key reused across
		// /leaves/a/transition and /leaves/b/transition stays two entries.
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.Request.URL.Path, c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached any
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// redis is down: run the request without deduplication
			zap.L().Named("idempotency").Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "Your request is still being processed, please wait.", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
