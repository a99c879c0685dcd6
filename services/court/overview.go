package court

import (
	"Courtside/models"
	"Courtside/models/postgres"
	"context"
)

type QueueReader interface {
	View(ctx context.Context) (models.QueueView, error)
}

type MatchReader interface {
	ListActive(ctx context.Context) ([]postgres.Match, error)
	Timers() []models.MatchTimer
}

// Overview assembles the court read model for one audience. Public views
// have contact details removed.
func Overview(ctx context.Context, c *Service, q QueueReader, m MatchReader, channel models.Channel) (models.Overview, error) {
	state, err := c.State(ctx)
	if err != nil {
		return models.Overview{}, err
	}
	view, err := q.View(ctx)
	if err != nil {
		return models.Overview{}, err
	}
	matches, err := m.ListActive(ctx)
	if err != nil {
		return models.Overview{}, err
	}
	if channel != models.ChannelAdmin {
		view = view.Redacted()
	}
	return models.Overview{
		Court:   state,
		Queue:   view,
		Matches: matches,
		Timers:  m.Timers(),
	}, nil
}

// OverviewFunc loads the read model for one audience.
type OverviewFunc func(ctx context.Context, channel models.Channel) (models.Overview, error)

func NewOverview(c *Service, q QueueReader, m MatchReader) OverviewFunc {
	return func(ctx context.Context, channel models.Channel) (models.Overview, error) {
		return Overview(ctx, c, q, m, channel)
	}
}
