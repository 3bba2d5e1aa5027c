package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/config"
	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/routes"
)

func main() {
	config.LoadEnv()
	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}

	application := app.MustNew(cfg)
	defer application.Close()

	r := application.Router
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })
	routes.RegisterRoutes(r, application)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	app.BootstrapFirstAdmin(ctx, cfg, application.Repo)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	go func() {
		logger.Log.Infof("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("shutdown")
	}
}
