// Package sync reconciles the process-local and Redis-held state with the
// database after a restart.
package sync

import (
	"Courtside/models"
	"Courtside/models/postgres"
	redis_models "Courtside/models/redis"
	"Courtside/services/store"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// TimerRestarter re-arms confirmation timers.
type TimerRestarter interface {
	RestartTimer(ctx context.Context, matchID string, d time.Duration) (models.MatchTimer, error)
}

type CourtState interface {
	State(ctx context.Context) (redis_models.CourtState, error)
	BeginCooldown(ctx context.Context) (redis_models.CourtState, error)
}

type SyncManager struct {
	store  store.Store
	timers TimerRestarter
	court  CourtState
	log    zerolog.Logger
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(s store.Store, t TimerRestarter, c CourtState, l zerolog.Logger) *SyncManager {
	return &SyncManager{
		store:  s,
		timers: t,
		court:  c,
		log:    l.With().Str("component", "sync").Logger(),
	}
}

// Report summarizes one recovery pass.
type Report struct {
	TimersRestarted int
	CooldownStarted bool
}

// Recover runs every reconciliation step.
func (sm *SyncManager) Recover(ctx context.Context) (Report, error) {
	var report Report

	n, err := sm.RecoverTimers(ctx)
	if err != nil {
		return report, err
	}
	report.TimersRestarted = n

	started, err := sm.SyncCooldown(ctx)
	if err != nil {
		return report, err
	}
	report.CooldownStarted = started

	sm.log.Info().Int("timers", report.TimersRestarted).Bool("cooldown_started", report.CooldownStarted).Msg("Startup recovery finished")
	return report, nil
}

// RecoverTimers gives every match left confirming a fresh, full confirmation
// window. Timers never survive a restart.
func (sm *SyncManager) RecoverTimers(ctx context.Context) (int, error) {
	matches, err := sm.store.ListMatches(ctx, store.MatchFilter{
		Statuses: []postgres.MatchStatus{postgres.MatchConfirming},
	})
	if err != nil {
		return 0, fmt.Errorf("error listing confirming matches: %v", err)
	}

	restarted := 0
	for _, m := range matches {
		if _, err := sm.timers.RestartTimer(ctx, m.ID, 0); err != nil {
			sm.log.Warn().Err(err).Str("match_id", m.ID).Msg("Could not re-arm confirmation timer")
			continue
		}
		restarted++
	}
	return restarted, nil
}

// SyncCooldown starts a cooldown window for teams stranded in cooldown when
// Redis has none running, so the sweeper eventually promotes them.
func (sm *SyncManager) SyncCooldown(ctx context.Context) (bool, error) {
	count, err := sm.store.CountTeams(ctx, store.TeamFilter{Status: postgres.TeamCooldown})
	if err != nil {
		return false, fmt.Errorf("error counting cooldown teams: %v", err)
	}
	if count == 0 {
		return false, nil
	}

	state, err := sm.court.State(ctx)
	if err != nil {
		return false, err
	}
	if state.CooldownEndsAt != nil {
		return false, nil
	}
	if _, err := sm.court.BeginCooldown(ctx); err != nil {
		return false, err
	}
	return true, nil
}
