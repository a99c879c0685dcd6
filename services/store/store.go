package store

import (
	"Courtside/models/postgres"
	"context"
)

// TeamFilter narrows ListTeams and CountTeams. Zero values match everything.
type TeamFilter struct {
	Status postgres.TeamStatus
	IDs    []string
}

// MatchFilter narrows ListMatches. Newest first when Newest is set, oldest
// first otherwise. Limit <= 0 means no limit.
type MatchFilter struct {
	Statuses []postgres.MatchStatus
	Newest   bool
	Limit    int
}

// Store is the transactional persistence surface used by the queue and match
// services. Implementations return ErrNotFound for missing rows and wrap every
// other failure.
type Store interface {
	// Transaction runs fn against a Store bound to a single transaction. A
	// non-nil error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateTeam(ctx context.Context, team *postgres.Team) error
	FindTeamByID(ctx context.Context, id string) (*postgres.Team, error)
	FindTeamByName(ctx context.Context, name string) (*postgres.Team, error)
	UpdateTeam(ctx context.Context, id string, fields map[string]interface{}) (*postgres.Team, error)
	DeleteTeam(ctx context.Context, id string) (bool, error)
	ListTeams(ctx context.Context, filter TeamFilter) ([]postgres.Team, error)
	CountTeams(ctx context.Context, filter TeamFilter) (int, error)
	MaxWaitingPosition(ctx context.Context) (int, error)

	CreateMatch(ctx context.Context, match *postgres.Match) error
	FindMatchByID(ctx context.Context, id string) (*postgres.Match, error)
	// LockMatch reads the match and holds a row lock until the transaction
	// ends, where the database supports it.
	LockMatch(ctx context.Context, id string) (*postgres.Match, error)
	UpdateMatch(ctx context.Context, id string, fields map[string]interface{}) (*postgres.Match, error)
	// UpdateMatchIf applies fields only while the match still has status
	// expect. It reports whether the row was changed.
	UpdateMatchIf(ctx context.Context, id string, expect postgres.MatchStatus, fields map[string]interface{}) (bool, error)
	ListMatches(ctx context.Context, filter MatchFilter) ([]postgres.Match, error)
}
