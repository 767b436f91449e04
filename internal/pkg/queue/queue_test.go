package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftrewind/rewind-server/internal/model"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestQueuePushAndLength(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "rewind_jobs")
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, &JobMessage{JobID: "job-1", Kind: model.KindRewind}))
	require.NoError(t, q.Push(ctx, &JobMessage{JobID: "job-2", Kind: model.KindCompare}))

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)
}

func TestQueuePopFIFO(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "rewind_jobs")
	ctx := context.Background()

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		require.NoError(t, q.Push(ctx, &JobMessage{JobID: id, Kind: model.KindRewind}))
	}

	for _, want := range ids {
		msg, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, want, msg.JobID)
	}
}

func TestQueueRoundTripPreservesKind(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "rewind_jobs")
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, &JobMessage{JobID: "job-9", Kind: model.KindCompare}))

	msg, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "job-9", msg.JobID)
	assert.Equal(t, model.KindCompare, msg.Kind)
}

func TestQueuePopEmptyTimesOut(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "empty_queue")

	// miniredis does not honor BRPop timeouts exactly, accept nil or error.
	msg, err := q.Pop(context.Background(), 10*time.Millisecond)
	if err == nil {
		assert.Nil(t, msg)
	}
}
