// @title LSX Ranking Portal API
// @version 1.0
// @description Member portal for the LSX Ranking community.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"go.uber.org/zap"

	_ "lsx-portal/docs"

	"lsx-portal/bootstrap"
	"lsx-portal/config"
	"lsx-portal/database"
	"lsx-portal/internal/imagehost"
	"lsx-portal/internal/logging"
	"lsx-portal/internal/notion"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/repository"
	"lsx-portal/internal/server"
	"lsx-portal/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	store := notion.NewClient(notion.ClientConfig{
		BaseURL: cfg.NotionBaseURL,
		Token:   cfg.NotionToken,
		Version: cfg.NotionVersion,
		Timeout: cfg.NotionTimeout,
	}, logger.Named("notion"))

	images := imagehost.NewClient(imagehost.Config{
		URL:     cfg.ImgbbURL,
		APIKey:  cfg.ImgbbAPIKey,
		Timeout: cfg.ImgbbTimeout,
	}, logger.Named("imgbb"))

	// Optional leaderboard archive
	var snapshots services.SnapshotStore
	if cfg.MongoURI != "" {
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Fatal("connect archive", zap.Error(err))
		}
		defer client.Disconnect(context.Background())

		if err := bootstrap.EnsureSnapshotIndexes(ctx, db); err != nil {
			logger.Fatal("ensure indexes failed", zap.Error(err))
		}
		snapshots = repository.NewSnapshotRepository(db)
		logger.Info("connected to archive", zap.String("db", cfg.MongoDB))
	}

	svc := server.BuildServices(cfg, server.Deps{
		Store:     store,
		Images:    images,
		Snapshots: snapshots,
		Clock:     ranking.NewClock(cfg.Location()),
		Logger:    logger,
	})
	app := server.NewApp(svc)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	logger.Info("listening", zap.String("port", cfg.Port), zap.String("timezone", cfg.Timezone))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}
