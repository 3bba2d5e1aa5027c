package app

import (
	"context"
	"time"

	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/session"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Short aliases for handlers.
type Ctx = gin.Context
type H = gin.H

// App holds the shared dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	WA     *webauthn.WebAuthn
	Repo   *db.Repo
	Config Config

	appSess *session.AppSessionStore
	sess    *session.Store
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func (a *App) Ceremonies() *session.Store { return a.sess }

func MustNew(cfg Config) *App {
	logger.SetLevel(cfg.LogLevel)

	dbConn := db.ConnectDB(cfg.DBOptions())

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatalf("redis: %v", err)
	}

	wa, err := webauthn.New(&webauthn.Config{
		RPDisplayName: cfg.SMTP.AppName,
		RPID:          cfg.RPID,
		RPOrigins:     cfg.RPOrigins,
	})
	if err != nil {
		logger.Log.Fatalf("webauthn: %v", err)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())
	useCORS(r, []string{cfg.WebOrigin})

	return &App{
		Router:  r,
		DB:      dbConn,
		RDB:     rdb,
		WA:      wa,
		Repo:    db.NewRepo(dbConn),
		Config:  cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.AppSessionTTL),
		sess:    session.NewStore(rdb, cfg.SessionTTL),
	}
}

func (a *App) Close() {
	if err := a.RDB.Close(); err != nil {
		logger.Log.WithError(err).Warn("close redis")
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
