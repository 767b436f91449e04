package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/riftrewind/rewind-server/internal/pkg/queue"
)

// Pool runs maxWorkers goroutines popping the queue until the context is
// cancelled. The server embeds a pool; cmd/worker runs one standalone.
type Pool struct {
	queue      *queue.Queue
	processor  *Processor
	maxWorkers int
}

func NewPool(q *queue.Queue, processor *Processor, maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 2
	}
	return &Pool{
		queue:      q,
		processor:  processor,
		maxWorkers: maxWorkers,
	}
}

// Start launches the workers and returns immediately.
func (p *Pool) Start(ctx context.Context) {
	log.Info().Int("workers", p.maxWorkers).Msg("worker pool started")
	for i := 0; i < p.maxWorkers; i++ {
		go p.run(ctx, i)
	}
}

func (p *Pool) run(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", workerID).Msg("worker shutting down")
			return
		default:
			msg, err := p.queue.Pop(ctx, 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Int("worker", workerID).Msg("failed to pop job")
				continue
			}
			if msg == nil {
				continue
			}

			log.Info().Int("worker", workerID).Str("job_id", msg.JobID).Str("kind", string(msg.Kind)).Msg("processing job")
			if err := p.processor.Process(ctx, msg); err != nil {
				log.Error().Err(err).Int("worker", workerID).Str("job_id", msg.JobID).Msg("job processing failed")
			}
		}
	}
}
