package main

import (
	"flag"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/riftrewind/rewind-server/config"
	"github.com/riftrewind/rewind-server/internal/database"
	"github.com/riftrewind/rewind-server/internal/pkg/cron"
	"github.com/riftrewind/rewind-server/internal/repository"
)

// One-shot retention sweep, for operators and scheduled jobs. The server
// runs the same sweep hourly on its own.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	ttlHours := flag.Int("ttl-hours", 0, "retention window override in hours")
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

	hours := cfg.Retention.TTLHoursOrDefault()
	if *ttlHours > 0 {
		hours = *ttlHours
	}

	sweeper := cron.NewService(
		repository.NewJobRepository(db),
		repository.NewResultRepository(db),
		time.Duration(hours)*time.Hour,
	)

	jobs, results, err := sweeper.RunNow()
	if err != nil {
		log.Fatal().Err(err).Msg("sweep failed")
	}
	log.Info().Int64("jobs", jobs).Int64("results", results).Int("ttl_hours", hours).Msg("sweep complete")
}
