// Package court keeps the court metadata: whether it is open, which mode it
// runs in and when the current champion cooldown ends.
package court

import (
	"Courtside/models"
	redis_models "Courtside/models/redis"
	"Courtside/services/broadcast"
	"Courtside/services/redis"
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Service struct {
	redis    *redis.RedisClient
	notifier broadcast.Notifier
	cooldown time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(rc *redis.RedisClient, n broadcast.Notifier, l zerolog.Logger, cooldown time.Duration) *Service {
	if n == nil {
		n = broadcast.Nop{}
	}
	return &Service{
		redis:    rc,
		notifier: n,
		cooldown: cooldown,
		now:      time.Now,
		log:      l.With().Str("component", "court").Logger(),
	}
}

func (s *Service) State(ctx context.Context) (redis_models.CourtState, error) {
	state, err := s.redis.GetCourtState(ctx)
	if err != nil {
		return redis_models.CourtState{}, eris.Wrap(err, "reading court state")
	}
	return state, nil
}

// IsOpen lets the court gate queue joins.
func (s *Service) IsOpen(ctx context.Context) (bool, error) {
	state, err := s.State(ctx)
	if err != nil {
		return false, err
	}
	return state.IsOpen, nil
}

func (s *Service) SetOpen(ctx context.Context, open bool) (redis_models.CourtState, error) {
	return s.update(ctx, func(state *redis_models.CourtState) error {
		state.IsOpen = open
		return nil
	})
}

func (s *Service) SetMode(ctx context.Context, mode redis_models.CourtMode) (redis_models.CourtState, error) {
	if !mode.Valid() {
		return redis_models.CourtState{}, models.ErrInvalidMode
	}
	return s.update(ctx, func(state *redis_models.CourtState) error {
		state.Mode = mode
		return nil
	})
}

// BeginCooldown starts the champion cooldown window from now.
func (s *Service) BeginCooldown(ctx context.Context) (redis_models.CourtState, error) {
	return s.update(ctx, func(state *redis_models.CourtState) error {
		ends := s.now().Add(s.cooldown)
		state.CooldownEndsAt = &ends
		return nil
	})
}

func (s *Service) ClearCooldown(ctx context.Context) (redis_models.CourtState, error) {
	return s.update(ctx, func(state *redis_models.CourtState) error {
		state.CooldownEndsAt = nil
		return nil
	})
}

func (s *Service) update(ctx context.Context, mutate func(state *redis_models.CourtState) error) (redis_models.CourtState, error) {
	state, err := s.redis.UpdateCourtState(ctx, func(state *redis_models.CourtState) error {
		if err := mutate(state); err != nil {
			return err
		}
		state.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return redis_models.CourtState{}, eris.Wrap(err, "saving court state")
	}

	s.log.Info().Bool("open", state.IsOpen).Str("mode", string(state.Mode)).Msg("Court state changed")
	ev := models.CourtEvent{Event: models.EventCourtUpdated, Court: state}
	for _, ch := range []models.Channel{models.ChannelPublic, models.ChannelAdmin} {
		if err := s.notifier.Publish(ctx, ch, models.EventCourtUpdated, ev); err != nil {
			s.log.Warn().Err(err).Str("channel", string(ch)).Msg("Broadcast failed")
		}
	}
	return state, nil
}
