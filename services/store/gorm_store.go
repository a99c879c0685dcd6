package store

import (
	"Courtside/models/postgres"
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of gorm. The same type serves both the
// root connection and transaction-bound handles.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// ---------------------------------------------------------------
// Teams
// ---------------------------------------------------------------

func (s *GormStore) CreateTeam(ctx context.Context, team *postgres.Team) error {
	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		return eris.Wrapf(err, "creating team %q", team.Name)
	}
	return nil
}

func (s *GormStore) FindTeamByID(ctx context.Context, id string) (*postgres.Team, error) {
	var team postgres.Team
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	if err != nil {
		return nil, notFoundOr(err, "finding team %s", id)
	}
	return &team, nil
}

func (s *GormStore) FindTeamByName(ctx context.Context, name string) (*postgres.Team, error) {
	var team postgres.Team
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&team).Error
	if err != nil {
		return nil, notFoundOr(err, "finding team by name %q", name)
	}
	return &team, nil
}

func (s *GormStore) UpdateTeam(ctx context.Context, id string, fields map[string]interface{}) (*postgres.Team, error) {
	err := s.db.WithContext(ctx).Model(&postgres.Team{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return nil, eris.Wrapf(err, "updating team %s", id)
	}
	return s.FindTeamByID(ctx, id)
}

func (s *GormStore) DeleteTeam(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&postgres.Team{})
	if res.Error != nil {
		return false, eris.Wrapf(res.Error, "deleting team %s", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) teamQuery(ctx context.Context, filter TeamFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&postgres.Team{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	}
	return q
}

func (s *GormStore) ListTeams(ctx context.Context, filter TeamFilter) ([]postgres.Team, error) {
	q := s.teamQuery(ctx, filter)
	if filter.Status == postgres.TeamWaiting {
		q = q.Order("position ASC")
	} else {
		q = q.Order("updated_at ASC").Order("created_at ASC")
	}

	teams := make([]postgres.Team, 0)
	if err := q.Find(&teams).Error; err != nil {
		return nil, eris.Wrap(err, "listing teams")
	}
	return teams, nil
}

func (s *GormStore) CountTeams(ctx context.Context, filter TeamFilter) (int, error) {
	var count int64
	if err := s.teamQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, eris.Wrap(err, "counting teams")
	}
	return int(count), nil
}

func (s *GormStore) MaxWaitingPosition(ctx context.Context) (int, error) {
	var maxPos int
	err := s.db.WithContext(ctx).Model(&postgres.Team{}).
		Where("status = ?", postgres.TeamWaiting).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error
	if err != nil {
		return 0, eris.Wrap(err, "reading max queue position")
	}
	return maxPos, nil
}

// ---------------------------------------------------------------
// Matches
// ---------------------------------------------------------------

func (s *GormStore) CreateMatch(ctx context.Context, match *postgres.Match) error {
	if err := s.db.WithContext(ctx).Create(match).Error; err != nil {
		return eris.Wrap(err, "creating match")
	}
	return nil
}

func (s *GormStore) FindMatchByID(ctx context.Context, id string) (*postgres.Match, error) {
	var match postgres.Match
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&match).Error
	if err != nil {
		return nil, notFoundOr(err, "finding match %s", id)
	}
	return &match, nil
}

func (s *GormStore) LockMatch(ctx context.Context, id string) (*postgres.Match, error) {
	q := s.db.WithContext(ctx)
	// NOTE: SQLite has no row locks, it serializes writers instead
	if s.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var match postgres.Match
	if err := q.Where("id = ?", id).First(&match).Error; err != nil {
		return nil, notFoundOr(err, "locking match %s", id)
	}
	return &match, nil
}

func (s *GormStore) UpdateMatch(ctx context.Context, id string, fields map[string]interface{}) (*postgres.Match, error) {
	err := s.db.WithContext(ctx).Model(&postgres.Match{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return nil, eris.Wrapf(err, "updating match %s", id)
	}
	return s.FindMatchByID(ctx, id)
}

func (s *GormStore) UpdateMatchIf(ctx context.Context, id string, expect postgres.MatchStatus, fields map[string]interface{}) (bool, error) {
	res := s.db.WithContext(ctx).Model(&postgres.Match{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(fields)
	if res.Error != nil {
		return false, eris.Wrapf(res.Error, "updating match %s", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListMatches(ctx context.Context, filter MatchFilter) ([]postgres.Match, error) {
	q := s.db.WithContext(ctx).Model(&postgres.Match{})
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.Newest {
		q = q.Order("start_time DESC")
	} else {
		q = q.Order("start_time ASC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	matches := make([]postgres.Match, 0)
	if err := q.Find(&matches).Error; err != nil {
		return nil, eris.Wrap(err, "listing matches")
	}
	return matches, nil
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return eris.Wrapf(err, format, args...)
}
