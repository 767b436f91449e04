package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/riftrewind/rewind-server/config"
	"github.com/riftrewind/rewind-server/internal/database"
	"github.com/riftrewind/rewind-server/internal/narrator"
	"github.com/riftrewind/rewind-server/internal/pkg/oss"
	"github.com/riftrewind/rewind-server/internal/pkg/queue"
	"github.com/riftrewind/rewind-server/internal/repository"
	"github.com/riftrewind/rewind-server/internal/riot"
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

	riotClient := riot.NewClient(&cfg.Riot)
	coach := narrator.NewFromConfig(&cfg.Narrator)
	processor := worker.NewProcessor(jobRepo, resultRepo, riotClient, coach, ossClient, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	pool := worker.NewPool(jobQueue, processor, cfg.Queue.MaxWorkers)
	pool.Start(ctx)

	<-ctx.Done()
	log.Info().Msg("worker shutdown complete")
}
