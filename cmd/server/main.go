package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/riftrewind/rewind-server/config"
	"github.com/riftrewind/rewind-server/internal/api"
	"github.com/riftrewind/rewind-server/internal/api/handler"
	"github.com/riftrewind/rewind-server/internal/database"
	"github.com/riftrewind/rewind-server/internal/narrator"
	"github.com/riftrewind/rewind-server/internal/pkg/cron"
	"github.com/riftrewind/rewind-server/internal/pkg/oss"
	"github.com/riftrewind/rewind-server/internal/pkg/queue"
	"github.com/riftrewind/rewind-server/internal/repository"
	"github.com/riftrewind/rewind-server/internal/riot"
	"github.com/riftrewind/rewind-server/internal/service"
	"github.com/riftrewind/rewind-server/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	log.Info().Msg("redis connected")

	// OSS archive is optional; the server runs without it.
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Warn().Err(err).Msg("failed to init OSS client, archiving disabled")
		} else {
			log.Info().Str("bucket", cfg.OSS.BucketName).Msg("OSS client initialized")
		}
	}

	jobQueue := queue.NewQueue(rdb, cfg.Queue.NameOrDefault())

	jobRepo := repository.NewJobRepository(db)
	resultRepo := repository.NewResultRepository(db)

	rewindService := service.NewRewindService(jobRepo, resultRepo, jobQueue)

	router := api.NewRouter(
		handler.NewRewindHandler(rewindService),
		handler.NewCompareHandler(rewindService),
		handler.NewHealthHandler(),
		cfg,
	)
	engine := router.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The server embeds a worker pool so a single process can serve and
	// process jobs. Run cmd/worker separately to scale processing out.
	riotClient := riot.NewClient(&cfg.Riot)
	coach := narrator.NewFromConfig(&cfg.Narrator)
	processor := worker.NewProcessor(jobRepo, resultRepo, riotClient, coach, ossClient, cfg)
	pool := worker.NewPool(jobQueue, processor, cfg.Queue.MaxWorkers)
	pool.Start(ctx)

	sweeper := cron.NewService(jobRepo, resultRepo, time.Duration(cfg.Retention.TTLHoursOrDefault())*time.Hour)
	sweeper.Start()
	defer sweeper.Stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
