package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/riftrewind/rewind-server/internal/model"
	"github.com/riftrewind/rewind-server/internal/model/dto"
	"github.com/riftrewind/rewind-server/internal/pkg/queue"
	"github.com/riftrewind/rewind-server/internal/repository"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrJobKindMismatch = errors.New("job exists under a different kind")
)

// RewindService owns job intake and status reads. The write-before-enqueue
// order guarantees a poller never sees an unknown accepted id.
type RewindService struct {
	jobRepo    *repository.JobRepository
	resultRepo *repository.ResultRepository
	queue      *queue.Queue
}

func NewRewindService(jobRepo *repository.JobRepository, resultRepo *repository.ResultRepository, q *queue.Queue) *RewindService {
	return &RewindService{
		jobRepo:    jobRepo,
		resultRepo: resultRepo,
		queue:      q,
	}
}

// StartRewind records a PENDING job and enqueues it.
func (s *RewindService) StartRewind(ctx context.Context, req *dto.StartRewindRequest) (*dto.StartJobResponse, error) {
	now := time.Now()
	job := &model.RewindJob{
		ID:          uuid.NewString(),
		Kind:        model.KindRewind,
		Status:      model.StatusPending,
		CurrentStep: 0,
		TotalSteps:  model.TotalSteps,
		Message:     "Starting rewind generation...",
		StartedAt:   now,
		UpdatedAt:   now,
		GameName:    req.GameName,
		TagLine:     req.TagLine,
		Region:      req.Region,
		Year:        req.Year,
	}

	return s.enqueue(ctx, job)
}

// StartCompare records a PENDING compare job and enqueues it.
func (s *RewindService) StartCompare(ctx context.Context, req *dto.StartCompareRequest) (*dto.StartJobResponse, error) {
	now := time.Now()
	job := &model.RewindJob{
		ID:          uuid.NewString(),
		Kind:        model.KindCompare,
		Status:      model.StatusPending,
		CurrentStep: 0,
		TotalSteps:  model.TotalSteps,
		Message:     "Starting comparison...",
		StartedAt:   now,
		UpdatedAt:   now,
		GameName:    req.Player1.GameName,
		TagLine:     req.Player1.TagLine,
		Region:      req.Player1.Region,
		Year:        req.Year,
		GameName2:   req.Player2.GameName,
		TagLine2:    req.Player2.TagLine,
		Region2:     req.Player2.Region,
	}

	return s.enqueue(ctx, job)
}

func (s *RewindService) enqueue(ctx context.Context, job *model.RewindJob) (*dto.StartJobResponse, error) {
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	msg := &queue.JobMessage{JobID: job.ID, Kind: job.Kind}
	if err := s.queue.Push(ctx, msg); err != nil {
		// The row exists but no worker will ever see it; fail it so pollers
		// are not left waiting on a job that cannot progress.
		log.Error().Err(err).Str("job_id", job.ID).Msg("failed to enqueue job")
		job.Status = model.StatusFailed
		job.Error = "failed to enqueue job"
		job.Message = "Failed to start job"
		job.UpdatedAt = time.Now()
		completed := job.UpdatedAt
		job.CompletedAt = &completed
		if updateErr := s.jobRepo.Update(job); updateErr != nil {
			log.Error().Err(updateErr).Str("job_id", job.ID).Msg("failed to mark job failed")
		}
		return nil, err
	}

	return &dto.StartJobResponse{
		JobID:   job.ID,
		Status:  string(model.StatusPending),
		Message: job.Message,
	}, nil
}

// GetRewindStatus returns progress and, once DONE, the stored result.
func (s *RewindService) GetRewindStatus(jobID string) (*dto.RewindStatusResponse, error) {
	job, err := s.getJob(jobID, model.KindRewind)
	if err != nil {
		return nil, err
	}

	resp := &dto.RewindStatusResponse{
		JobID:    job.ID,
		Progress: dto.ProgressFromJob(job),
	}

	if job.Status == model.StatusDone {
		var result model.RewindResult
		if err := s.loadResult(jobID, &result); err != nil {
			return nil, err
		}
		resp.Result = &result
	}

	return resp, nil
}

// GetCompareStatus returns progress and, once DONE, the stored result.
func (s *RewindService) GetCompareStatus(jobID string) (*dto.CompareStatusResponse, error) {
	job, err := s.getJob(jobID, model.KindCompare)
	if err != nil {
		return nil, err
	}

	resp := &dto.CompareStatusResponse{
		JobID:    job.ID,
		Progress: dto.ProgressFromJob(job),
	}

	if job.Status == model.StatusDone {
		var result model.CompareResult
		if err := s.loadResult(jobID, &result); err != nil {
			return nil, err
		}
		resp.Result = &result
	}

	return resp, nil
}

func (s *RewindService) getJob(jobID string, kind model.JobKind) (*model.RewindJob, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.Kind != kind {
		return nil, ErrJobKindMismatch
	}
	return job, nil
}

func (s *RewindService) loadResult(jobID string, out interface{}) error {
	record, err := s.resultRepo.GetByJobID(jobID)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(record.Payload), out)
}
