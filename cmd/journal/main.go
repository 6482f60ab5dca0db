package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tradejournal/internal/config"
	cronrunner "tradejournal/internal/cron"
	"tradejournal/internal/db"
	"tradejournal/internal/handler"
	"tradejournal/internal/identity"
	"tradejournal/internal/logger"
	"tradejournal/internal/reconstruct"
	gormrepository "tradejournal/internal/repository/gorm"
	"tradejournal/internal/service"

	_ "tradejournal/docs"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfgPath := os.Getenv("TJ_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TJ_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB, logger)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)
	if err := db.Ping(dbConn); err != nil {
		logger.Fatal("db ping failed", zap.Error(err))
	}

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
	}

	store := gormrepository.New(dbConn.Gorm)
	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	zone := reconstruct.DisplayZone(cfg.Reconstruct.DisplayZoneName, cfg.Reconstruct.DisplayUTCOffset)
	importSvc := &service.ImportService{
		Repo:   store,
		Logger: logger,
		Flags:  settingsSvc,
		Options: reconstruct.Options{
			IncludeOpen: cfg.Reconstruct.IncludeOpen,
			DisplayZone: zone,
			Workers:     cfg.Reconstruct.Workers,
		},
	}
	tradeSvc := &service.TradeService{Repo: store, Logger: logger}
	journalSvc := &service.JournalService{Repo: store}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(identity.RequireCaller(cfg.Server.RequireBearer))
	engine.Use(identity.AuditWrites(logger))

	healthHandler := &handler.HealthHandler{DB: store}
	healthHandler.Register(engine)
	identity.RegisterDocs(engine)

	importHandler := &handler.ImportHandler{
		Imports:        importSvc,
		Zone:           zone,
		MaxBytes:       cfg.Upload.MaxBytes,
		HistoryField:   cfg.Upload.HistoryField,
		PositionsField: cfg.Upload.PositionsField,
	}
	importHandler.Register(engine)
	tradeHandler := &handler.TradeHandler{Trades: tradeSvc, Zone: zone}
	tradeHandler.Register(engine)
	journalHandler := &handler.JournalHandler{Journals: journalSvc, Zone: zone}
	journalHandler.Register(engine)
	settingsHandler := &handler.SystemSettingsHandler{Settings: settingsSvc}
	settingsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:        cfg.Server.HTTPAddr,
		Handler:     engine,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled && cfg.Inbox.Enabled {
		inbox := &service.InboxService{
			Import: importSvc,
			Flags:  settingsSvc,
			Logger: logger,
			Config: cfg.Inbox,
		}
		if _, err := cronRunner.Add("inbox_import", cfg.Inbox.Spec, inbox.Run); err != nil {
			logger.Warn("cron register inbox import failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting",
			zap.String("addr", cfg.Server.HTTPAddr),
			zap.String("display_zone", zone.String()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-User-ID,X-Trade-Account")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
