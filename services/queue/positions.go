package queue

import (
	"Courtside/models"
	"Courtside/models/postgres"
	"Courtside/services/store"
	"context"
	"errors"
	"sort"
)

// Compact renumbers the waiting teams 1..N keeping their order. Teams are
// visited in ascending order and only ever move down, so no step collides
// with a slot that is still occupied.
func Compact(ctx context.Context, tx store.Store) error {
	teams, err := tx.ListTeams(ctx, store.TeamFilter{Status: postgres.TeamWaiting})
	if err != nil {
		return err
	}
	sort.SliceStable(teams, func(i, j int) bool {
		pi, pj := teams[i].Position, teams[j].Position
		if pi == nil || pj == nil {
			return pj == nil && pi != nil
		}
		return *pi < *pj
	})

	for i, t := range teams {
		want := i + 1
		if t.Position != nil && *t.Position == want {
			continue
		}
		if _, err := tx.UpdateTeam(ctx, t.ID, map[string]interface{}{"position": want}); err != nil {
			return err
		}
	}
	return nil
}

// Enqueue puts a team at the end of the line as waiting, applying any extra
// fields in the same update.
func Enqueue(ctx context.Context, tx store.Store, teamID string, extra map[string]interface{}) (*postgres.Team, error) {
	maxPos, err := tx.MaxWaitingPosition(ctx)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":   postgres.TeamWaiting,
		"position": maxPos + 1,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return tx.UpdateTeam(ctx, teamID, fields)
}

func findTeam(ctx context.Context, s store.Store, teamID string) (*postgres.Team, error) {
	team, err := s.FindTeamByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.ErrTeamNotFound
	}
	return team, err
}
