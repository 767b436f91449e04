// Package cron sweeps expired jobs and results on a fixed interval.
package cron

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/riftrewind/rewind-server/internal/repository"
)

type Service struct {
	jobRepo    *repository.JobRepository
	resultRepo *repository.ResultRepository
	ttl        time.Duration
	stopChan   chan struct{}
}

func NewService(jobRepo *repository.JobRepository, resultRepo *repository.ResultRepository, ttl time.Duration) *Service {
	return &Service{
		jobRepo:    jobRepo,
		resultRepo: resultRepo,
		ttl:        ttl,
		stopChan:   make(chan struct{}),
	}
}

func (s *Service) Start() {
	go s.runSweep()
	log.Info().Dur("ttl", s.ttl).Msg("retention sweep started")
}

func (s *Service) Stop() {
	close(s.stopChan)
	log.Info().Msg("retention sweep stopped")
}

func (s *Service) runSweep() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	cutoff := time.Now().Add(-s.ttl)

	jobs, err := s.jobRepo.DeleteTerminalBefore(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep expired jobs")
		return
	}

	results, err := s.resultRepo.DeleteBefore(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep expired results")
		return
	}

	if jobs > 0 || results > 0 {
		log.Info().Int64("jobs", jobs).Int64("results", results).Msg("swept expired records")
	}
}

// RunNow sweeps immediately, for the cleanup command and tests.
func (s *Service) RunNow() (jobs, results int64, err error) {
	cutoff := time.Now().Add(-s.ttl)

	jobs, err = s.jobRepo.DeleteTerminalBefore(cutoff)
	if err != nil {
		return 0, 0, err
	}
	results, err = s.resultRepo.DeleteBefore(cutoff)
	if err != nil {
		return jobs, 0, err
	}
	return jobs, results, nil
}
