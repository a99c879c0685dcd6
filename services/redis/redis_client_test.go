package redis

import (
	redis_models "Courtside/models/redis"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rc, err := InitRedis(mr.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { CloseRedis(rc) })
	return rc, mr
}

func TestCourtStateOperations(t *testing.T) {
	ctx := context.Background()
	rc, mr := newTestClient(t)

	t.Run("defaults when nothing stored", func(t *testing.T) {
		state, err := rc.GetCourtState(ctx)
		require.NoError(t, err)
		assert.Equal(t, redis_models.DefaultCourtState(), state)
	})

	t.Run("save and read back", func(t *testing.T) {
		ends := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		saved := redis_models.CourtState{
			IsOpen:         false,
			Mode:           redis_models.ModeChampion,
			CooldownEndsAt: &ends,
			UpdatedAt:      ends.Add(-time.Minute),
		}
		require.NoError(t, rc.SaveCourtState(ctx, saved))
		assert.True(t, mr.Exists("court:main:state"))

		got, err := rc.GetCourtState(ctx)
		require.NoError(t, err)
		assert.False(t, got.IsOpen)
		assert.Equal(t, redis_models.ModeChampion, got.Mode)
		require.NotNil(t, got.CooldownEndsAt)
		assert.True(t, ends.Equal(*got.CooldownEndsAt))
	})

	t.Run("clear restores defaults", func(t *testing.T) {
		require.NoError(t, rc.ClearCourtState(ctx))
		assert.False(t, mr.Exists("court:main:state"))

		state, err := rc.GetCourtState(ctx)
		require.NoError(t, err)
		assert.True(t, state.IsOpen)
	})

	t.Run("corrupt payload is an error", func(t *testing.T) {
		require.NoError(t, mr.Set("court:main:state", "{not json"))
		_, err := rc.GetCourtState(ctx)
		assert.Error(t, err)
	})
}

func TestNewRedisClientParsesURL(t *testing.T) {
	rc, err := NewRedisClient("redis://localhost:6380/2", 0)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", rc.Client.Options().Addr)
	assert.Equal(t, 2, rc.Client.Options().DB)

	_, err = NewRedisClient("redis://%zz", 0)
	assert.Error(t, err)
}

func TestUpdateCourtStateRetriesOnConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	rc, _ := newTestClient(t)

	calls := 0
	state, err := rc.UpdateCourtState(ctx, func(state *redis_models.CourtState) error {
		calls++
		if calls == 1 {
			concurrent := redis_models.DefaultCourtState()
			concurrent.Mode = redis_models.ModeChampion
			require.NoError(t, rc.SaveCourtState(ctx, concurrent))
		}
		state.IsOpen = false
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "the first attempt loses the race and starts over")
	assert.False(t, state.IsOpen)
	assert.Equal(t, redis_models.ModeChampion, state.Mode)

	stored, err := rc.GetCourtState(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Mode, stored.Mode)
	assert.False(t, stored.IsOpen)
}

func TestUpdateCourtStateMutateErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	rc, mr := newTestClient(t)
	boom := errors.New("boom")

	_, err := rc.UpdateCourtState(ctx, func(state *redis_models.CourtState) error {
		state.IsOpen = false
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("court:main:state"))
}

func TestUpdateCourtStateGivesUpUnderContention(t *testing.T) {
	ctx := context.Background()
	rc, _ := newTestClient(t)

	calls := 0
	_, err := rc.UpdateCourtState(ctx, func(state *redis_models.CourtState) error {
		calls++
		require.NoError(t, rc.SaveCourtState(ctx, redis_models.DefaultCourtState()))
		return nil
	})
	assert.ErrorIs(t, err, ErrCourtStateContended)
	assert.Equal(t, MaxUpdateAttempts, calls)
}
