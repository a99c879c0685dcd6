package court

import (
	"Courtside/models/postgres"
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Promoter returns cooldown teams to the queue.
type Promoter interface {
	PromoteCooldown(ctx context.Context) ([]postgres.Team, error)
}

// Sweeper ends champion cooldowns once their window has passed.
type Sweeper struct {
	court    *Service
	promoter Promoter
	interval time.Duration
	log      zerolog.Logger
}

func NewSweeper(c *Service, p Promoter, interval time.Duration, l zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Sweeper{
		court:    c,
		promoter: p,
		interval: interval,
		log:      l.With().Str("component", "sweeper").Logger(),
	}
}

// Run sweeps on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Error().Err(err).Msg("Cooldown sweep failed")
			}
		}
	}
}

// Sweep promotes the cooldown teams if the window is over and reports how
// many went back to the queue.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	state, err := s.court.State(ctx)
	if err != nil {
		return 0, err
	}
	if !state.CooldownOver(s.court.now()) {
		return 0, nil
	}

	promoted, err := s.promoter.PromoteCooldown(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := s.court.ClearCooldown(ctx); err != nil {
		return len(promoted), err
	}
	s.log.Info().Int("teams", len(promoted)).Msg("Champion cooldown ended")
	return len(promoted), nil
}
