// app/bootstrap.go
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/logger"
)

// BootstrapInviter marks invites whose redeemer becomes an admin.
const BootstrapInviter = "bootstrap"

// NewInviteToken returns 32 hex characters.
func NewInviteToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func InviteLink(cfg Config, token string) string {
	return strings.TrimRight(cfg.WebOrigin, "/") + "/login?inviteToken=" + token
}

// BootstrapFirstAdmin logs a one-time admin invite while no admin exists.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("bootstrap: count admins")
		return
	}
	if n > 0 {
		return
	}

	token := NewInviteToken()
	if _, err := repo.CreateInvite(ctx, cfg.BootstrapEmail, token, time.Now().Add(24*time.Hour), BootstrapInviter); err != nil {
		logger.Log.WithError(err).Warn("bootstrap invite failed")
		return
	}

	logger.Log.Infof("[BOOTSTRAP] no admin found, created an admin invite for %s", cfg.BootstrapEmail)
	logger.Log.Info(fmt.Sprintf("[BOOTSTRAP] open this URL to register the first admin: %s", InviteLink(cfg, token)))
}
