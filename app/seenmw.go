// app/seenmw.go
package app

import (
	"context"
	"time"

	"Gin_postgres_redis_local_library/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type SeenToucher interface {
	TouchUserSeen(ctx context.Context, userID string) error
}

// TouchLastSeen records activity at most once per throttle window per user.
func TouchLastSeen(users SeenToucher, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.Next()
			return
		}

		key := "ll:user:lastseen:" + u.ID
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			if err := users.TouchUserSeen(c, u.ID); err != nil {
				logger.Log.WithError(err).WithField("user", u.ID).Warn("touch last seen")
			}
		}
		c.Next()
	}
}
