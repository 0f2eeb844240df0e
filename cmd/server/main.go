package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"qa-forum-web/internal/api"
	"qa-forum-web/internal/config"
	apphttp "qa-forum-web/internal/http"
	"qa-forum-web/internal/query"
	"qa-forum-web/internal/repository/sqlite"
	"qa-forum-web/internal/service"
	"qa-forum-web/internal/session"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	sessionRepo := sqlite.NewSessionRepository(db)
	if err := sessionRepo.Init(ctx); err != nil {
		logger.Fatalf("init session repository: %v", err)
	}

	sessions := session.NewManager(sessionRepo, session.Options{
		CookieName: cfg.Session.CookieName,
		MaxAge:     cfg.Session.MaxAge,
		Secure:     cfg.Session.Secure,
	}, logger)

	janitor := session.NewJanitor(session.JanitorConfig{
		Interval: cfg.Session.PurgeInterval,
		Logger:   logger,
	}, sessions)
	if err := janitor.Start(ctx); err != nil {
		logger.Warnf("purge sessions: %v", err)
	}

	client := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
	cache := query.New(cfg.Cache.Size, cfg.Cache.TTL)

	questionService := service.NewQuestionService(client, cache)
	authService := service.NewAuthService(client)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler, err := apphttp.NewHandler(questionService, authService, sessions, logger, apphttp.Options{
		RegisterRedirect: cfg.UI.RegisterRedirect,
		SecureCookies:    cfg.Session.Secure,
	})
	if err != nil {
		logger.Fatalf("load templates: %v", err)
	}
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s, backend %s", cfg.Server.Addr, client.BaseURL())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	janitor.Shutdown()

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}
