package rewindsdk

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultMaxAttempts  = 150
	defaultMaxDelay     = 30 * time.Second
)

// ErrMaxAttempts is returned when polling exhausts its attempt budget
// before the job reaches a terminal state.
var ErrMaxAttempts = errors.New("polling reached max attempts")

// Poller repeatedly fetches a job's status until a stop condition is
// met. Fetches are sequential: the next one is only scheduled after the
// previous one returns.
type Poller struct {
	// Interval between fetches. With UseBackoff it is the base delay.
	Interval time.Duration
	// MaxAttempts bounds the number of fetches; 0 means the default.
	MaxAttempts int
	// UseBackoff switches to exponential delays capped at MaxDelay.
	UseBackoff bool
	MaxDelay   time.Duration
}

// Poll runs the loop: an immediate first fetch, then one fetch per
// delay period, stopping when shouldStop returns true. A fetch error is
// terminal unless backoff is enabled or a previous fetch has already
// produced data; in those cases polling continues and the last error is
// only surfaced if the attempt budget runs out.
func (p *Poller) Poll(ctx context.Context, fetch func(context.Context) (StatusResponse, error), shouldStop func(StatusResponse) bool) (StatusResponse, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	var (
		last     StatusResponse
		haveData bool
		lastErr  error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		resp, err := fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			if !p.UseBackoff && !haveData {
				return last, err
			}
			lastErr = err
		} else {
			last = resp
			haveData = true
			lastErr = nil
			if shouldStop != nil && shouldStop(resp) {
				return resp, nil
			}
		}

		delay := interval
		if p.UseBackoff {
			delay = backoffDelay(attempt, interval, maxDelay)
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(delay):
		}
	}
	if lastErr != nil {
		return last, fmt.Errorf("%w: %v", ErrMaxAttempts, lastErr)
	}
	return last, ErrMaxAttempts
}

func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	return delay
}

// WaitForRewind polls a rewind job until it finishes and returns the
// final status. A FAILED job is reported as an error carrying the
// server-side failure message.
func (c *Client) WaitForRewind(ctx context.Context, jobID string, poller *Poller) (StatusResponse, error) {
	return c.wait(ctx, poller, func(ctx context.Context) (StatusResponse, error) {
		return c.RewindStatus(ctx, jobID)
	})
}

// WaitForCompare polls a comparison job until it finishes.
func (c *Client) WaitForCompare(ctx context.Context, jobID string, poller *Poller) (StatusResponse, error) {
	return c.wait(ctx, poller, func(ctx context.Context) (StatusResponse, error) {
		return c.CompareStatus(ctx, jobID)
	})
}

func (c *Client) wait(ctx context.Context, poller *Poller, fetch func(context.Context) (StatusResponse, error)) (StatusResponse, error) {
	if poller == nil {
		poller = &Poller{}
	}
	resp, err := poller.Poll(ctx, fetch, func(r StatusResponse) bool {
		return r.Progress.Terminal()
	})
	if err != nil {
		return resp, err
	}
	if resp.Progress.Status == "FAILED" {
		msg := resp.Progress.Error
		if msg == "" {
			msg = resp.Progress.Message
		}
		return resp, fmt.Errorf("job %s failed: %s", resp.JobID, msg)
	}
	return resp, nil
}
