package match

import (
	"Courtside/models"
	"Courtside/models/postgres"
	redis_models "Courtside/models/redis"
	"Courtside/services/broadcast"
	"Courtside/services/queue"
	"Courtside/services/store"
	"Courtside/services/store/storetest"
	"Courtside/services/timeout"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeCourt struct {
	mu        sync.Mutex
	state     redis_models.CourtState
	cooldowns int
}

func (c *fakeCourt) State(context.Context) (redis_models.CourtState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, nil
}

func (c *fakeCourt) IsOpen(ctx context.Context) (bool, error) {
	state, err := c.State(ctx)
	return state.IsOpen, err
}

func (c *fakeCourt) BeginCooldown(context.Context) (redis_models.CourtState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cooldowns++
	ends := time.Now().Add(5 * time.Minute)
	c.state.CooldownEndsAt = &ends
	return c.state, nil
}

type fixture struct {
	store  *store.GormStore
	queue  *queue.Manager
	engine *Engine
	timers *timeout.Coordinator
	court  *fakeCourt
	rec    *broadcast.Recorder
}

func newFixture(t *testing.T, confirm time.Duration) *fixture {
	t.Helper()
	s := storetest.NewStore(t)
	rec := broadcast.NewRecorder()
	court := &fakeCourt{state: redis_models.DefaultCourtState()}
	q := queue.NewManager(s, rec, zerolog.Nop(), queue.Options{MaxSize: 10, Gate: court})
	timers := timeout.New(zerolog.Nop(), confirm)
	e := NewEngine(s, q, timers, court, rec, zerolog.Nop(), Options{ConfirmTimeout: confirm})
	timers.Bind(e)
	t.Cleanup(timers.Stop)

	return &fixture{store: s, queue: q, engine: e, timers: timers, court: court, rec: rec}
}

func (f *fixture) join(t *testing.T, name string, members int) *postgres.Team {
	t.Helper()
	team, err := f.queue.Join(context.Background(), queue.JoinRequest{Name: name, Members: members})
	require.NoError(t, err)
	return team
}

func (f *fixture) team(t *testing.T, id string) *postgres.Team {
	t.Helper()
	team, err := f.store.FindTeamByID(context.Background(), id)
	require.NoError(t, err)
	return team
}

// confirming starts a match between two fresh teams and plays it to 15-12.
func (f *fixture) confirming(t *testing.T) (*postgres.Match, *postgres.Team, *postgres.Team) {
	t.Helper()
	ctx := context.Background()
	alpha := f.join(t, "Alpha", 5)
	beta := f.join(t, "Beta", 4)

	m, err := f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID, TargetScore: 15})
	require.NoError(t, err)
	m, err = f.engine.UpdateScore(ctx, m.ID, 15, 12)
	require.NoError(t, err)
	require.Equal(t, postgres.MatchConfirming, m.Status)
	return m, alpha, beta
}

func TestMatchConfirmedByBothTeams(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	alpha := f.join(t, "Alpha", 5)
	beta := f.join(t, "Beta", 4)
	assert.Equal(t, 1, *alpha.Position)
	assert.Equal(t, 2, *beta.Position)
	view, err := f.queue.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, view.AvailableSlots)

	m, err := f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID, TargetScore: 15, MatchType: postgres.MatchRegular})
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchActive, m.Status)
	assert.Equal(t, 0, m.Score1)
	assert.Equal(t, 0, m.Score2)
	assert.Equal(t, "Alpha", m.Team1Snapshot.Data().Name)
	for _, id := range []string{alpha.ID, beta.ID} {
		team := f.team(t, id)
		assert.Equal(t, postgres.TeamPlaying, team.Status)
		assert.Nil(t, team.Position)
	}

	gamma := f.join(t, "Gamma", 3)
	assert.Equal(t, 1, *gamma.Position)

	m, err = f.engine.UpdateScore(ctx, m.ID, 15, 12)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchConfirming, m.Status)
	_, ok := f.engine.TimeRemaining(m.ID)
	assert.True(t, ok)

	m, err = f.engine.Confirm(ctx, m.ID, alpha.ID, true)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchConfirming, m.Status)
	assert.True(t, m.Confirmed.Team1)
	assert.False(t, m.Confirmed.Team2)

	m, err = f.engine.Confirm(ctx, m.ID, beta.ID, true)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchCompleted, m.Status)
	assert.Equal(t, postgres.Confirmed{Team1: true, Team2: true}, m.Confirmed)
	assert.Equal(t, postgres.ResolvedByTeams, m.ResolvedBy)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, alpha.ID, *m.WinnerID)
	assert.NotNil(t, m.EndTime)

	_, ok = f.engine.TimeRemaining(m.ID)
	assert.False(t, ok)

	a, b := f.team(t, alpha.ID), f.team(t, beta.ID)
	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 0, b.Wins)
	assert.Equal(t, postgres.TeamWaiting, a.Status)
	assert.Equal(t, postgres.TeamWaiting, b.Status)
	assert.Equal(t, 2, *a.Position)
	assert.Equal(t, 3, *b.Position)

	ev, ok := f.rec.Last(models.ChannelPublic, models.EventMatchCompleted)
	require.True(t, ok)
	payload := ev.Payload.(models.MatchEvent)
	assert.Equal(t, "Alpha", payload.Winner)
	assert.Equal(t, "15-12", payload.FinalScore)

	assert.Subset(t, f.rec.Names(models.ChannelPublic), []string{
		models.EventMatchStarted,
		models.EventQueueUpdated,
		models.EventMatchEnded,
		models.EventConfirmationReceived,
		models.EventMatchCompleted,
	})
}

func TestMatchResolvedByTimeout(t *testing.T) {
	f := newFixture(t, 30*time.Millisecond)
	ctx := context.Background()
	m, alpha, beta := f.confirming(t)

	require.Eventually(t, func() bool {
		got, err := f.engine.GetByID(ctx, m.ID)
		return err == nil && got.Status == postgres.MatchCompleted
	}, 2*time.Second, 10*time.Millisecond)

	got, err := f.engine.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, postgres.ResolvedByTimeout, got.ResolvedBy)
	assert.True(t, got.Confirmed.Both())
	assert.Equal(t, alpha.ID, *got.WinnerID)
	assert.Equal(t, 1, f.team(t, alpha.ID).Wins)
	assert.Equal(t, postgres.TeamWaiting, f.team(t, beta.ID).Status)

	require.Eventually(t, func() bool {
		_, ok := f.rec.Last(models.ChannelPublic, models.EventMatchTimeoutResolved)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestTargetScoreBoundary(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	alpha := f.join(t, "Alpha", 5)
	beta := f.join(t, "Beta", 4)
	m, err := f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID, TargetScore: 15})
	require.NoError(t, err)

	m, err = f.engine.UpdateScore(ctx, m.ID, 14, 14)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchActive, m.Status)
	_, ok := f.engine.TimeRemaining(m.ID)
	assert.False(t, ok)
	_, ok = f.rec.Last(models.ChannelPublic, models.EventScoreUpdated)
	assert.True(t, ok)

	m, err = f.engine.UpdateScore(ctx, m.ID, 14, 15)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchConfirming, m.Status)
	_, ok = f.engine.TimeRemaining(m.ID)
	assert.True(t, ok)
}

func TestUpdateScoreErrors(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	m, _, _ := f.confirming(t)

	_, err := f.engine.UpdateScore(ctx, m.ID, -1, 3)
	assert.ErrorIs(t, err, models.ErrInvalidScore)

	_, err = f.engine.UpdateScore(ctx, m.ID, 16, 12)
	assert.ErrorIs(t, err, models.ErrMatchNotActive)

	_, err = f.engine.UpdateScore(ctx, "6f1c1b4e-1111-4a2b-9c3d-000000000000", 1, 1)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)

	_, err = f.engine.UpdateScore(ctx, "bogus", 1, 1)
	assert.ErrorIs(t, err, models.ErrInvalidID)
}

func TestStartValidation(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	alpha := f.join(t, "Alpha", 5)
	beta := f.join(t, "Beta", 4)
	missing := "6f1c1b4e-1111-4a2b-9c3d-000000000000"

	_, err := f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: alpha.ID})
	assert.ErrorIs(t, err, models.ErrSameTeam)

	_, err = f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: missing})
	assert.ErrorIs(t, err, models.ErrTeamNotFound)

	_, err = f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID, TargetScore: -3})
	assert.ErrorIs(t, err, models.ErrInvalidTarget)

	_, err = f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID, MatchType: "exhibition"})
	assert.ErrorIs(t, err, models.ErrInvalidType)

	m, err := f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID})
	require.NoError(t, err)
	assert.Equal(t, DefaultTargetScore, m.TargetScore)
	assert.Equal(t, postgres.MatchRegular, m.MatchType)

	_, err = f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID})
	assert.ErrorIs(t, err, models.ErrTeamNotInQueue)

	c := f.join(t, "C", 2)
	d := f.join(t, "D", 2)
	f.court.state.IsOpen = false
	_, err = f.engine.Start(ctx, StartRequest{Team1ID: c.ID, Team2ID: d.ID})
	assert.ErrorIs(t, err, models.ErrCourtClosed)
}

func TestStartCompactsRemainingQueue(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	a := f.join(t, "A", 2)
	f.join(t, "B", 2)
	c := f.join(t, "C", 2)
	f.join(t, "D", 2)

	_, err := f.engine.Start(ctx, StartRequest{Team1ID: a.ID, Team2ID: c.ID})
	require.NoError(t, err)

	view, err := f.queue.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Teams, 2)
	assert.Equal(t, "B", view.Teams[0].Name)
	assert.Equal(t, 1, *view.Teams[0].Position)
	assert.Equal(t, "D", view.Teams[1].Name)
	assert.Equal(t, 2, *view.Teams[1].Position)
}

func TestConfirmErrors(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	alpha := f.join(t, "Alpha", 5)
	beta := f.join(t, "Beta", 4)
	outsider := f.join(t, "Outsider", 2)

	m, err := f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID})
	require.NoError(t, err)

	_, err = f.engine.Confirm(ctx, m.ID, alpha.ID, true)
	assert.ErrorIs(t, err, models.ErrMatchNotConfirming)

	_, err = f.engine.UpdateScore(ctx, m.ID, 3, 15)
	require.NoError(t, err)

	_, err = f.engine.Confirm(ctx, m.ID, outsider.ID, true)
	assert.ErrorIs(t, err, models.ErrTeamNotInMatch)

	got, err := f.engine.Confirm(ctx, m.ID, alpha.ID, false)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchConfirming, got.Status)
	assert.False(t, got.Confirmed.Team1)
}

func TestTieGoesToTeam1(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	alpha := f.join(t, "Alpha", 5)
	beta := f.join(t, "Beta", 4)
	m, err := f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID})
	require.NoError(t, err)

	ten := 10
	got, err := f.engine.ForceResolve(ctx, m.ID, &ten, &ten)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchCompleted, got.Status)
	assert.Equal(t, postgres.ResolvedByAdmin, got.ResolvedBy)
	assert.Equal(t, "10-10", got.FinalScore())
	assert.Equal(t, alpha.ID, *got.WinnerID)
	assert.True(t, got.Confirmed.Both())
	assert.Equal(t, 1, f.team(t, alpha.ID).Wins)
}

func TestForceResolveOverridesWinner(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	m, _, beta := f.confirming(t)

	nine, fifteen := 9, 15
	got, err := f.engine.ForceResolve(ctx, m.ID, &nine, &fifteen)
	require.NoError(t, err)
	assert.Equal(t, beta.ID, *got.WinnerID)
	assert.Equal(t, 1, f.team(t, beta.ID).Wins)
	_, ok := f.engine.TimeRemaining(m.ID)
	assert.False(t, ok)

	neg := -1
	_, err = f.engine.ForceResolve(ctx, m.ID, &neg, nil)
	assert.ErrorIs(t, err, models.ErrInvalidScore)
}

func TestResolveRequiresConfirming(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	alpha := f.join(t, "Alpha", 5)
	beta := f.join(t, "Beta", 4)
	m, err := f.engine.Start(ctx, StartRequest{Team1ID: alpha.ID, Team2ID: beta.ID})
	require.NoError(t, err)

	_, err = f.engine.Resolve(ctx, m.ID, ResolveOptions{By: postgres.ResolvedByTeams})
	assert.ErrorIs(t, err, models.ErrMatchNotConfirming)
}

func TestResolveIsIdempotent(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	m, alpha, _ := f.confirming(t)

	first, err := f.engine.Resolve(ctx, m.ID, ResolveOptions{By: postgres.ResolvedByAdmin})
	require.NoError(t, err)
	f.rec.Reset()

	second, err := f.engine.Resolve(ctx, m.ID, ResolveOptions{By: postgres.ResolvedByTimeout})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ResolvedBy, second.ResolvedBy)
	assert.Equal(t, first.FinalScore(), second.FinalScore())
	assert.Equal(t, 1, f.team(t, alpha.ID).Wins)
	assert.Empty(t, f.rec.Events())
}

func TestConcurrentResolveCountsOneWin(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	m, alpha, _ := f.confirming(t)
	f.rec.Reset()

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		by := postgres.ResolvedByTeams
		if i%2 == 0 {
			by = postgres.ResolvedByTimeout
		}
		g.Go(func() error {
			got, err := f.engine.Resolve(ctx, m.ID, ResolveOptions{By: by})
			if err == nil && got.Status != postgres.MatchCompleted {
				t.Errorf("resolve returned status %s", got.Status)
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, f.team(t, alpha.ID).Wins)
	completed := 0
	for _, name := range f.rec.Names(models.ChannelPublic) {
		if name == models.EventMatchCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}

func TestCompletedMatchNeverMovesBack(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	m, alpha, _ := f.confirming(t)
	_, err := f.engine.Resolve(ctx, m.ID, ResolveOptions{By: postgres.ResolvedByAdmin})
	require.NoError(t, err)

	_, err = f.engine.UpdateScore(ctx, m.ID, 0, 0)
	assert.ErrorIs(t, err, models.ErrMatchNotActive)
	_, err = f.engine.Confirm(ctx, m.ID, alpha.ID, false)
	assert.ErrorIs(t, err, models.ErrMatchNotConfirming)
	_, err = f.engine.RestartTimer(ctx, m.ID, time.Minute)
	assert.ErrorIs(t, err, models.ErrMatchNotConfirming)

	zero := 0
	got, err := f.engine.ForceResolve(ctx, m.ID, &zero, &zero)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchCompleted, got.Status)
	assert.Equal(t, "15-12", got.FinalScore())
}

func TestChampionReturnEntersCooldown(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	f.court.state.Mode = redis_models.ModeChampion
	champs := f.join(t, "Champs", 5)
	challengers := f.join(t, "Challengers", 4)

	m, err := f.engine.Start(ctx, StartRequest{Team1ID: champs.ID, Team2ID: challengers.ID, TargetScore: 11})
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchChampionReturn, m.MatchType)

	_, err = f.engine.UpdateScore(ctx, m.ID, 11, 4)
	require.NoError(t, err)
	_, err = f.engine.Resolve(ctx, m.ID, ResolveOptions{By: postgres.ResolvedByAdmin})
	require.NoError(t, err)

	winner := f.team(t, champs.ID)
	assert.Equal(t, postgres.TeamCooldown, winner.Status)
	assert.Nil(t, winner.Position)
	assert.Equal(t, 1, winner.Wins)

	loser := f.team(t, challengers.ID)
	assert.Equal(t, postgres.TeamWaiting, loser.Status)
	assert.Equal(t, 1, *loser.Position)
	assert.Equal(t, 1, f.court.cooldowns)

	promoted, err := f.queue.PromoteCooldown(ctx)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, 2, *promoted[0].Position)
}

func TestHandleExpiredIgnoresStaleTimers(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	m, alpha, _ := f.confirming(t)
	_, err := f.engine.Resolve(ctx, m.ID, ResolveOptions{By: postgres.ResolvedByAdmin})
	require.NoError(t, err)
	f.rec.Reset()

	require.NoError(t, f.engine.HandleExpired(ctx, m.ID))
	require.NoError(t, f.engine.HandleExpired(ctx, "6f1c1b4e-1111-4a2b-9c3d-000000000000"))
	assert.Empty(t, f.rec.Events())
	assert.Equal(t, 1, f.team(t, alpha.ID).Wins)
}

func TestRestartTimerAndTimers(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	m, _, _ := f.confirming(t)

	f.timers.Cancel(m.ID)
	assert.Empty(t, f.engine.Timers())

	timer, err := f.engine.RestartTimer(ctx, m.ID, 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, m.ID, timer.MatchID)
	assert.InDelta(t, 30000, timer.RemainingMs, 1000)

	timers := f.engine.Timers()
	require.Len(t, timers, 1)
	assert.Equal(t, m.ID, timers[0].MatchID)
}

func TestActiveAndHistory(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	m, _, _ := f.confirming(t)

	active, err := f.engine.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, m.ID, active[0].ID)

	history, err := f.engine.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = f.engine.Resolve(ctx, m.ID, ResolveOptions{By: postgres.ResolvedByAdmin})
	require.NoError(t, err)

	active, err = f.engine.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	history, err = f.engine.History(ctx, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, m.ID, history[0].ID)

	_, err = f.engine.GetByID(ctx, "6f1c1b4e-1111-4a2b-9c3d-000000000000")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

// casFailStore fails the next UpdateMatchIf calls, inside transactions too.
type casFailStore struct {
	store.Store
	failures *atomic.Int32
}

func (s casFailStore) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.Store.Transaction(ctx, func(tx store.Store) error {
		return fn(casFailStore{Store: tx, failures: s.failures})
	})
}

func (s casFailStore) UpdateMatchIf(ctx context.Context, id string, expect postgres.MatchStatus, fields map[string]interface{}) (bool, error) {
	if s.failures.Add(-1) >= 0 {
		return false, errors.New("connection reset")
	}
	return s.Store.UpdateMatchIf(ctx, id, expect, fields)
}

func TestFailedConfirmKeepsTimer(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	failures := &atomic.Int32{}
	f.engine = NewEngine(casFailStore{Store: f.store, failures: failures}, f.queue, f.timers, f.court, f.rec, zerolog.Nop(), Options{ConfirmTimeout: time.Minute})
	f.timers.Bind(f.engine)

	m, alpha, beta := f.confirming(t)
	_, err := f.engine.Confirm(ctx, m.ID, alpha.ID, true)
	require.NoError(t, err)

	failures.Store(1)
	_, err = f.engine.Confirm(ctx, m.ID, beta.ID, true)
	require.Error(t, err)

	stuck, err := f.engine.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchConfirming, stuck.Status)
	assert.True(t, stuck.Confirmed.Both())
	_, ok := f.engine.TimeRemaining(m.ID)
	assert.True(t, ok, "the confirmation timer survives a failed resolve")

	// The surviving timer still completes the match.
	require.NoError(t, f.engine.HandleExpired(ctx, m.ID))
	done, err := f.engine.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, postgres.MatchCompleted, done.Status)
	assert.Equal(t, postgres.ResolvedByTimeout, done.ResolvedBy)
	_, ok = f.engine.TimeRemaining(m.ID)
	assert.False(t, ok)
}

func TestExpiredMatchRetriedAfterStoreFailure(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)
	f.timers.SetRetryDelay(20 * time.Millisecond)

	failures := &atomic.Int32{}
	f.engine = NewEngine(casFailStore{Store: f.store, failures: failures}, f.queue, f.timers, f.court, f.rec, zerolog.Nop(), Options{ConfirmTimeout: 20 * time.Millisecond})
	f.timers.Bind(f.engine)

	m, _, _ := f.confirming(t)
	failures.Store(1)

	require.Eventually(t, func() bool {
		got, err := f.store.FindMatchByID(context.Background(), m.ID)
		return err == nil && got.Status == postgres.MatchCompleted
	}, 2*time.Second, 10*time.Millisecond)

	got, err := f.store.FindMatchByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, postgres.ResolvedByTimeout, got.ResolvedBy)
	assert.Empty(t, f.timers.Pending())
}
