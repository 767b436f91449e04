package rewindsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressResponse(status string) StatusResponse {
	return StatusResponse{
		JobID:    "job-1",
		Progress: JobProgress{Status: status, TotalSteps: 4},
	}
}

func TestPollStopsOnPredicate(t *testing.T) {
	statuses := []string{"PENDING", "FETCHING_MATCHES", "DONE"}
	var calls int

	poller := &Poller{Interval: time.Millisecond}
	resp, err := poller.Poll(context.Background(), func(ctx context.Context) (StatusResponse, error) {
		resp := progressResponse(statuses[calls])
		calls++
		return resp, nil
	}, func(r StatusResponse) bool {
		return r.Progress.Terminal()
	})

	require.NoError(t, err)
	assert.Equal(t, "DONE", resp.Progress.Status)
	assert.Equal(t, 3, calls)
}

func TestPollFirstFetchIsImmediate(t *testing.T) {
	poller := &Poller{Interval: time.Hour}

	start := time.Now()
	resp, err := poller.Poll(context.Background(), func(ctx context.Context) (StatusResponse, error) {
		return progressResponse("DONE"), nil
	}, func(r StatusResponse) bool { return true })

	require.NoError(t, err)
	assert.Equal(t, "DONE", resp.Progress.Status)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPollMaxAttempts(t *testing.T) {
	var calls int
	poller := &Poller{Interval: time.Millisecond, MaxAttempts: 5}

	_, err := poller.Poll(context.Background(), func(ctx context.Context) (StatusResponse, error) {
		calls++
		return progressResponse("PENDING"), nil
	}, func(r StatusResponse) bool { return false })

	require.ErrorIs(t, err, ErrMaxAttempts)
	assert.Equal(t, 5, calls)
}

func TestPollCancellationStopsFetching(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int32
	poller := &Poller{Interval: 10 * time.Millisecond}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := poller.Poll(ctx, func(ctx context.Context) (StatusResponse, error) {
			atomic.AddInt32(&calls, 1)
			return progressResponse("PENDING"), nil
		}, func(r StatusResponse) bool { return false })
		assert.ErrorIs(t, err, context.Canceled)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()
	<-done

	observed := atomic.LoadInt32(&calls)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, observed, atomic.LoadInt32(&calls))
}

func TestPollErrorWithoutDataIsTerminal(t *testing.T) {
	fetchErr := errors.New("connection refused")
	var calls int

	poller := &Poller{Interval: time.Millisecond}
	_, err := poller.Poll(context.Background(), func(ctx context.Context) (StatusResponse, error) {
		calls++
		return StatusResponse{}, fetchErr
	}, nil)

	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 1, calls)
}

func TestPollErrorAfterDataKeepsPolling(t *testing.T) {
	var calls int
	poller := &Poller{Interval: time.Millisecond}

	resp, err := poller.Poll(context.Background(), func(ctx context.Context) (StatusResponse, error) {
		calls++
		switch calls {
		case 1:
			return progressResponse("PENDING"), nil
		case 2:
			return StatusResponse{}, errors.New("blip")
		default:
			return progressResponse("DONE"), nil
		}
	}, func(r StatusResponse) bool { return r.Progress.Terminal() })

	require.NoError(t, err)
	assert.Equal(t, "DONE", resp.Progress.Status)
	assert.Equal(t, 3, calls)
}

func TestPollBackoffRetriesErrors(t *testing.T) {
	var calls int
	poller := &Poller{Interval: time.Millisecond, UseBackoff: true, MaxAttempts: 4}

	resp, err := poller.Poll(context.Background(), func(ctx context.Context) (StatusResponse, error) {
		calls++
		if calls < 3 {
			return StatusResponse{}, errors.New("blip")
		}
		return progressResponse("DONE"), nil
	}, func(r StatusResponse) bool { return r.Progress.Terminal() })

	require.NoError(t, err)
	assert.Equal(t, "DONE", resp.Progress.Status)
	assert.Equal(t, 3, calls)
}

func TestBackoffDelayDoubles(t *testing.T) {
	base := time.Second
	max := 30 * time.Second

	assert.Equal(t, time.Second, backoffDelay(0, base, max))
	assert.Equal(t, 2*time.Second, backoffDelay(1, base, max))
	assert.Equal(t, 8*time.Second, backoffDelay(3, base, max))
	assert.Equal(t, max, backoffDelay(10, base, max))
}

func TestWaitForRewind(t *testing.T) {
	var polls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&polls, 1)
		status := "BUILDING_INSIGHTS"
		if n >= 3 {
			status = "DONE"
		}
		json.NewEncoder(w).Encode(progressResponse(status))
	}))
	defer server.Close()

	client := New(server.URL)
	resp, err := client.WaitForRewind(context.Background(), "job-1", &Poller{Interval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, "DONE", resp.Progress.Status)
}

func TestWaitForCompareFailedJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := progressResponse("FAILED")
		resp.Progress.Error = "player not found"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(server.URL)
	resp, err := client.WaitForCompare(context.Background(), "cmp-1", &Poller{Interval: time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player not found")
	assert.Equal(t, "FAILED", resp.Progress.Status)
}
