package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/riftrewind/rewind-server/config"
	"github.com/riftrewind/rewind-server/internal/model"
	"github.com/riftrewind/rewind-server/internal/narrator"
	"github.com/riftrewind/rewind-server/internal/pkg/oss"
	"github.com/riftrewind/rewind-server/internal/pkg/queue"
	"github.com/riftrewind/rewind-server/internal/repository"
	"github.com/riftrewind/rewind-server/internal/stats"
)

// MatchSource is the slice of the Riot client the pipeline needs. Tests
// substitute a fake.
type MatchSource interface {
	ResolveAccount(ctx context.Context, gameName, tagLine, region string) (*model.PlayerInfo, error)
	ListMatchIDs(ctx context.Context, puuid, region string, start, end time.Time, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID, puuid, region string) (*model.MatchSummary, error)
}

// Processor runs one job at a time through the stage machine. Each stage is
// written to the job row before its work begins, so pollers always see the
// stage currently running.
type Processor struct {
	jobRepo    *repository.JobRepository
	resultRepo *repository.ResultRepository
	source     MatchSource
	narrator   narrator.Narrator
	archive    *oss.Client
	cfg        *config.Config
}

func NewProcessor(
	jobRepo *repository.JobRepository,
	resultRepo *repository.ResultRepository,
	source MatchSource,
	n narrator.Narrator,
	archive *oss.Client,
	cfg *config.Config,
) *Processor {
	return &Processor{
		jobRepo:    jobRepo,
		resultRepo: resultRepo,
		source:     source,
		narrator:   n,
		archive:    archive,
		cfg:        cfg,
	}
}

// Process executes the job named by the message. Terminal jobs are skipped,
// which makes duplicate queue deliveries harmless.
func (p *Processor) Process(ctx context.Context, msg *queue.JobMessage) (err error) {
	job, err := p.jobRepo.GetByID(msg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	if job.Status.IsTerminal() {
		log.Warn().Str("job_id", job.ID).Str("status", string(job.Status)).Msg("skipping terminal job")
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job_id", job.ID).Interface("panic", r).Msg("job panicked")
			err = p.failJob(job, fmt.Errorf("internal error: %v", r))
		}
	}()

	switch job.Kind {
	case model.KindCompare:
		err = p.runCompare(ctx, job)
	default:
		err = p.runRewind(ctx, job)
	}
	return err
}

func (p *Processor) runRewind(ctx context.Context, job *model.RewindJob) error {
	if err := p.advance(job, model.StatusResolvingPlayer, "Looking up your Riot ID..."); err != nil {
		return err
	}
	player, err := p.source.ResolveAccount(ctx, job.GameName, job.TagLine, job.Region)
	if err != nil {
		return p.failJob(job, err)
	}

	if err := p.advance(job, model.StatusFetchingMatches, "Retrieving your match history..."); err != nil {
		return err
	}
	matches, err := p.fetchSeason(ctx, player, job.Year, p.cfg.Riot.RewindCapOrDefault())
	if err != nil {
		return p.failJob(job, err)
	}

	if p.archive != nil {
		if _, err := p.archive.ArchiveMatches(job.ID, matches); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID).Msg("failed to archive raw matches")
		}
	}

	if err := p.advance(job, model.StatusBuildingInsights, "Analyzing your performance..."); err != nil {
		return err
	}
	insights := stats.BuildInsights(matches, job.Year)

	if err := p.advance(job, model.StatusGeneratingStory, "Crafting your personalized recap..."); err != nil {
		return err
	}
	coach, err := p.narrator.GenerateCoach(ctx, player, &insights)
	if err != nil {
		// The recap ships without coaching rather than failing this late.
		log.Warn().Err(err).Str("job_id", job.ID).Msg("narrator failed, result ships without coaching")
		coach = nil
	}

	result := &model.RewindResult{
		JobID:        job.ID,
		Player:       *player,
		SeasonFilter: seasonFilter(job.Year),
		Insights:     insights,
		AICoach:      coach,
		GeneratedAt:  time.Now(),
	}

	if err := p.saveResult(job, result); err != nil {
		return p.failJob(job, err)
	}

	return p.complete(job, "Your rewind is ready!")
}

func (p *Processor) runCompare(ctx context.Context, job *model.RewindJob) error {
	if err := p.advance(job, model.StatusResolvingPlayer, "Looking up both players..."); err != nil {
		return err
	}

	var player1, player2 *model.PlayerInfo
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		player1, err = p.source.ResolveAccount(gctx, job.GameName, job.TagLine, job.Region)
		return err
	})
	g.Go(func() error {
		var err error
		player2, err = p.source.ResolveAccount(gctx, job.GameName2, job.TagLine2, job.Region2)
		return err
	})
	if err := g.Wait(); err != nil {
		return p.failJob(job, err)
	}

	if err := p.advance(job, model.StatusFetchingMatches, "Retrieving match history..."); err != nil {
		return err
	}

	fetchCap := p.cfg.Riot.CompareCapOrDefault()
	var matches1, matches2 []model.MatchSummary
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches1, err = p.fetchSeason(gctx, player1, job.Year, fetchCap)
		return err
	})
	g.Go(func() error {
		var err error
		matches2, err = p.fetchSeason(gctx, player2, job.Year, fetchCap)
		return err
	})
	if err := g.Wait(); err != nil {
		return p.failJob(job, err)
	}

	if err := p.advance(job, model.StatusBuildingInsights, "Analyzing both players..."); err != nil {
		return err
	}
	insights1 := stats.BuildInsights(matches1, job.Year)
	insights2 := stats.BuildInsights(matches2, job.Year)

	if err := p.advance(job, model.StatusGeneratingStory, "Generating comparison..."); err != nil {
		return err
	}
	comparison := stats.BuildComparison(&insights1, &insights2)

	result := &model.CompareResult{
		JobID:       job.ID,
		Player1:     model.ComparePlayer{Info: *player1, Insights: insights1},
		Player2:     model.ComparePlayer{Info: *player2, Insights: insights2},
		Comparison:  comparison,
		GeneratedAt: time.Now(),
	}

	if err := p.saveResult(job, result); err != nil {
		return p.failJob(job, err)
	}

	return p.complete(job, "Comparison complete!")
}

// fetchSeason lists the season's ranked match ids and fetches details up to
// the cap. Individual match failures are skipped, not fatal.
func (p *Processor) fetchSeason(ctx context.Context, player *model.PlayerInfo, year, fetchCap int) ([]model.MatchSummary, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	ids, err := p.source.ListMatchIDs(ctx, player.PUUID, player.Region, start, end, p.cfg.Riot.ListCountOrDefault())
	if err != nil {
		return nil, err
	}

	if len(ids) > fetchCap {
		ids = ids[:fetchCap]
	}

	matches := make([]model.MatchSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := p.source.GetMatch(ctx, id, player.PUUID, player.Region)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("match_id", id).Msg("skipping unfetchable match")
			continue
		}
		matches = append(matches, *summary)
	}
	return matches, nil
}

// advance writes the next stage before its work starts.
func (p *Processor) advance(job *model.RewindJob, status model.JobStatus, message string) error {
	job.Status = status
	job.CurrentStep = model.StepOf(status)
	job.Message = message
	job.UpdatedAt = time.Now()
	if err := p.jobRepo.Update(job); err != nil {
		return fmt.Errorf("failed to advance job %s: %w", job.ID, err)
	}
	return nil
}

// saveResult persists the payload row before the DONE transition, so a DONE
// status always has a result behind it.
func (p *Processor) saveResult(job *model.RewindJob, result interface{}) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := p.resultRepo.Save(&model.ResultRecord{
		JobID:     job.ID,
		Kind:      job.Kind,
		Payload:   string(payload),
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	if p.archive != nil {
		if _, err := p.archive.ArchiveResult(job.ID, result); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID).Msg("failed to archive result")
		}
	}
	return nil
}

func (p *Processor) complete(job *model.RewindJob, message string) error {
	now := time.Now()
	job.Status = model.StatusDone
	job.CurrentStep = model.TotalSteps
	job.Message = message
	job.UpdatedAt = now
	job.CompletedAt = &now
	if err := p.jobRepo.Update(job); err != nil {
		return fmt.Errorf("failed to complete job %s: %w", job.ID, err)
	}
	log.Info().Str("job_id", job.ID).Str("kind", string(job.Kind)).Msg("job completed")
	return nil
}

// failJob writes the single FAILED transition. The step counter keeps the
// stage that failed.
func (p *Processor) failJob(job *model.RewindJob, cause error) error {
	message := "Failed to generate rewind"
	if job.Kind == model.KindCompare {
		message = "Failed to compare players"
	}

	now := time.Now()
	job.Status = model.StatusFailed
	job.Message = message
	job.Error = cause.Error()
	job.UpdatedAt = now
	job.CompletedAt = &now
	if err := p.jobRepo.Update(job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("failed to mark job failed")
	}
	log.Error().Err(cause).Str("job_id", job.ID).Msg("job failed")
	return cause
}

func seasonFilter(year int) model.SeasonFilter {
	return model.SeasonFilter{
		Year:      year,
		StartDate: fmt.Sprintf("%d-01-01", year),
		EndDate:   fmt.Sprintf("%d-12-31", year),
	}
}
