// Package queue manages the waiting line for the court: joining, leaving,
// reordering and keeping positions dense.
package queue

import (
	"Courtside/models"
	"Courtside/models/postgres"
	"Courtside/services/broadcast"
	"Courtside/services/store"
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// MaxJoinAttempts bounds the retries when concurrent joins race for the same
// position.
const MaxJoinAttempts = 5

const DefaultMaxSize = 10

// Gate reports whether the court currently accepts teams.
type Gate interface {
	IsOpen(ctx context.Context) (bool, error)
}

type Options struct {
	MaxSize int
	Gate    Gate
	Now     func() time.Time
}

type Manager struct {
	store    store.Store
	notifier broadcast.Notifier
	gate     Gate
	maxSize  int
	now      func() time.Time
	log      zerolog.Logger
}

func NewManager(s store.Store, n broadcast.Notifier, l zerolog.Logger, opts Options) *Manager {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if n == nil {
		n = broadcast.Nop{}
	}
	return &Manager{
		store:    s,
		notifier: n,
		gate:     opts.Gate,
		maxSize:  opts.MaxSize,
		now:      opts.Now,
		log:      l.With().Str("component", "queue").Logger(),
	}
}

func (m *Manager) MaxSize() int {
	return m.maxSize
}

type JoinRequest struct {
	Name        string
	Members     int
	ContactInfo string
}

func (r JoinRequest) normalize() (JoinRequest, error) {
	var err error
	if r.Name, err = models.NormalizeName(r.Name); err != nil {
		return r, err
	}
	if err = models.ValidateMembers(r.Members); err != nil {
		return r, err
	}
	if r.ContactInfo, err = models.NormalizeContact(r.ContactInfo); err != nil {
		return r, err
	}
	return r, nil
}

// Join adds a team at the end of the line. The returned team carries its
// position.
func (m *Manager) Join(ctx context.Context, req JoinRequest) (*postgres.Team, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, err
	}
	if err := m.checkOpen(ctx); err != nil {
		return nil, err
	}

	var team *postgres.Team
	for attempt := 1; attempt <= MaxJoinAttempts; attempt++ {
		team, err = m.tryJoin(ctx, req)
		if err == nil {
			break
		}
		if !store.IsDuplicateKey(err) {
			return nil, err
		}

		// The failed transaction is gone; see whether the name or the
		// position lost the race.
		if _, ferr := m.store.FindTeamByName(ctx, req.Name); ferr == nil {
			return nil, models.ErrNameExists
		} else if !errors.Is(ferr, store.ErrNotFound) {
			return nil, ferr
		}
		m.log.Debug().Str("team", req.Name).Int("attempt", attempt).Msg("Queue position taken, retrying join")
	}
	if err != nil {
		m.log.Warn().Err(err).Str("team", req.Name).Msg("Join gave up after repeated position conflicts")
		return nil, models.ErrJoinFailed
	}

	m.log.Info().Str("team_id", team.ID).Str("team", team.Name).Int("position", *team.Position).Msg("Team joined the queue")
	m.Broadcast(ctx, models.EventTeamJoined)
	return team, nil
}

func (m *Manager) tryJoin(ctx context.Context, req JoinRequest) (*postgres.Team, error) {
	var team *postgres.Team
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.FindTeamByName(ctx, req.Name); err == nil {
			return models.ErrNameExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		waiting, err := tx.CountTeams(ctx, store.TeamFilter{Status: postgres.TeamWaiting})
		if err != nil {
			return err
		}
		if waiting >= m.maxSize {
			return models.ErrQueueFull
		}

		maxPos, err := tx.MaxWaitingPosition(ctx)
		if err != nil {
			return err
		}
		position := maxPos + 1

		t := &postgres.Team{
			Name:        req.Name,
			Members:     req.Members,
			ContactInfo: req.ContactInfo,
			Status:      postgres.TeamWaiting,
			Position:    &position,
			LastSeen:    m.now(),
		}
		if err := tx.CreateTeam(ctx, t); err != nil {
			return err
		}
		team = t
		return nil
	})
	return team, err
}

// Leave removes a waiting team and closes the gap it leaves.
func (m *Manager) Leave(ctx context.Context, teamID string) (*postgres.Team, error) {
	return m.remove(ctx, teamID, models.EventTeamLeft)
}

// Remove is the admin variant of Leave.
func (m *Manager) Remove(ctx context.Context, teamID string) (*postgres.Team, error) {
	return m.remove(ctx, teamID, models.EventTeamRemoved)
}

func (m *Manager) remove(ctx context.Context, teamID string, event string) (*postgres.Team, error) {
	if err := models.ValidateID(teamID); err != nil {
		return nil, err
	}

	var removed *postgres.Team
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		team, err := findTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if team.Status != postgres.TeamWaiting {
			return models.ErrTeamNotInQueue
		}
		if _, err := tx.DeleteTeam(ctx, teamID); err != nil {
			return err
		}
		removed = team
		return Compact(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	m.log.Info().Str("team_id", removed.ID).Str("team", removed.Name).Str("event", event).Msg("Team removed from the queue")
	m.Broadcast(ctx, event)
	return removed, nil
}

// TeamPosition is one entry of a reorder request.
type TeamPosition struct {
	TeamID   string `json:"teamId"`
	Position int    `json:"position"`
}

// Reorder applies new positions in one transaction. The caller supplies the
// permutation; only existence and status are checked per team.
func (m *Manager) Reorder(ctx context.Context, positions []TeamPosition) (models.QueueView, error) {
	if len(positions) == 0 {
		return models.QueueView{}, models.ErrInvalidPosition.WithMessage("no positions given")
	}
	seen := make(map[string]bool, len(positions))
	for _, p := range positions {
		if err := models.ValidateID(p.TeamID); err != nil {
			return models.QueueView{}, err
		}
		if p.Position < 1 || seen[p.TeamID] {
			return models.QueueView{}, models.ErrInvalidPosition
		}
		seen[p.TeamID] = true
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		for _, p := range positions {
			team, err := findTeam(ctx, tx, p.TeamID)
			if err != nil {
				return err
			}
			if team.Status != postgres.TeamWaiting {
				return models.ErrTeamNotInQueue.WithMessage("team %s is not waiting", team.Name)
			}
		}

		// Two passes so a swap never trips the unique index halfway.
		for _, p := range positions {
			if _, err := tx.UpdateTeam(ctx, p.TeamID, map[string]interface{}{"position": nil}); err != nil {
				return err
			}
		}
		for _, p := range positions {
			if _, err := tx.UpdateTeam(ctx, p.TeamID, map[string]interface{}{"position": p.Position}); err != nil {
				if store.IsDuplicateKey(err) {
					return models.ErrPositionConflict.WithMessage("position %d is already taken", p.Position)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.QueueView{}, err
	}

	m.log.Info().Int("teams", len(positions)).Msg("Queue reordered")
	m.Broadcast(ctx, models.EventQueueReordered)
	return m.View(ctx)
}

// View returns the waiting line with contact details included. Use
// QueueView.Redacted before showing it publicly.
func (m *Manager) View(ctx context.Context) (models.QueueView, error) {
	teams, err := m.store.ListTeams(ctx, store.TeamFilter{Status: postgres.TeamWaiting})
	if err != nil {
		return models.QueueView{}, err
	}
	return models.QueueView{
		Teams:          teams,
		MaxSize:        m.maxSize,
		TotalTeams:     len(teams),
		AvailableSlots: max(0, m.maxSize-len(teams)),
	}, nil
}

// GetTeam returns a team in any status.
func (m *Manager) GetTeam(ctx context.Context, teamID string) (*postgres.Team, error) {
	if err := models.ValidateID(teamID); err != nil {
		return nil, err
	}
	return findTeam(ctx, m.store, teamID)
}

// TeamUpdate holds the admin-editable team fields; nil means unchanged.
type TeamUpdate struct {
	Name        *string `json:"name"`
	Members     *int    `json:"members"`
	ContactInfo *string `json:"contactInfo"`
}

func (u TeamUpdate) fields() (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if u.Name != nil {
		name, err := models.NormalizeName(*u.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if u.Members != nil {
		if err := models.ValidateMembers(*u.Members); err != nil {
			return nil, err
		}
		fields["members"] = *u.Members
	}
	if u.ContactInfo != nil {
		contact, err := models.NormalizeContact(*u.ContactInfo)
		if err != nil {
			return nil, err
		}
		fields["contact_info"] = contact
	}
	return fields, nil
}

// UpdateTeam edits a team's details in any status. Names stay unique.
func (m *Manager) UpdateTeam(ctx context.Context, teamID string, update TeamUpdate) (*postgres.Team, error) {
	if err := models.ValidateID(teamID); err != nil {
		return nil, err
	}
	fields, err := update.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, models.ErrInvalidInput.WithMessage("nothing to update")
	}

	var updated *postgres.Team
	err = m.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := findTeam(ctx, tx, teamID); err != nil {
			return err
		}
		if name, ok := fields["name"].(string); ok {
			other, err := tx.FindTeamByName(ctx, name)
			if err == nil && other.ID != teamID {
				return models.ErrNameExists
			}
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		updated, err = tx.UpdateTeam(ctx, teamID, fields)
		return err
	})
	if store.IsDuplicateKey(err) {
		return nil, models.ErrNameExists
	}
	if err != nil {
		return nil, err
	}

	m.log.Info().Str("team_id", teamID).Msg("Team updated")
	m.Broadcast(ctx, models.EventTeamUpdated)
	return updated, nil
}

// Touch refreshes a team's last-seen time. Nothing is broadcast.
func (m *Manager) Touch(ctx context.Context, teamID string) (*postgres.Team, error) {
	if err := models.ValidateID(teamID); err != nil {
		return nil, err
	}
	var team *postgres.Team
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := findTeam(ctx, tx, teamID); err != nil {
			return err
		}
		var err error
		team, err = tx.UpdateTeam(ctx, teamID, map[string]interface{}{"last_seen": m.now()})
		return err
	})
	return team, err
}

// PromoteCooldown moves every team in cooldown back to the end of the line,
// oldest cooldown first.
func (m *Manager) PromoteCooldown(ctx context.Context) ([]postgres.Team, error) {
	promoted := make([]postgres.Team, 0)
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		teams, err := tx.ListTeams(ctx, store.TeamFilter{Status: postgres.TeamCooldown})
		if err != nil {
			return err
		}
		for _, t := range teams {
			team, err := Enqueue(ctx, tx, t.ID, nil)
			if err != nil {
				return err
			}
			promoted = append(promoted, *team)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(promoted) > 0 {
		m.log.Info().Int("teams", len(promoted)).Msg("Cooldown teams returned to the queue")
		m.Broadcast(ctx, models.EventCooldownEnded)
	}
	return promoted, nil
}

// Broadcast publishes the current queue under event: redacted on the public
// channel, complete on the admin channel. Failures are logged; the change
// they describe is already committed.
func (m *Manager) Broadcast(ctx context.Context, event string) {
	view, err := m.View(ctx)
	if err != nil {
		m.log.Warn().Err(err).Str("event", event).Msg("Could not load queue for broadcast")
		return
	}
	m.publish(ctx, models.ChannelPublic, event, models.QueueEvent{Event: event, QueueView: view.Redacted()})
	m.publish(ctx, models.ChannelAdmin, event, models.QueueEvent{Event: event, QueueView: view})
}

func (m *Manager) publish(ctx context.Context, channel models.Channel, event string, payload interface{}) {
	if err := m.notifier.Publish(ctx, channel, event, payload); err != nil {
		m.log.Warn().Err(err).Str("channel", string(channel)).Str("event", event).Msg("Broadcast failed")
	}
}

func (m *Manager) checkOpen(ctx context.Context) error {
	if m.gate == nil {
		return nil
	}
	open, err := m.gate.IsOpen(ctx)
	if err != nil {
		return err
	}
	if !open {
		return models.ErrCourtClosed
	}
	return nil
}
