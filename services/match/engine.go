// Package match owns the match state machine: active, then confirming once a
// side reaches the target score, then completed by dual confirmation, timeout
// or an operator.
package match

import (
	court_constants "Courtside/constants/court"
	"Courtside/models"
	"Courtside/models/postgres"
	redis_models "Courtside/models/redis"
	"Courtside/services/broadcast"
	"Courtside/services/queue"
	"Courtside/services/store"
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultTargetScore = 15

// Timers is the confirmation timeout surface the engine drives.
type Timers interface {
	Start(matchID string, d time.Duration) time.Time
	Cancel(matchID string) bool
	Remaining(matchID string) (time.Duration, bool)
	Pending() []string
}

// Court exposes the court metadata the engine reads and the cooldown it
// starts.
type Court interface {
	State(ctx context.Context) (redis_models.CourtState, error)
	BeginCooldown(ctx context.Context) (redis_models.CourtState, error)
}

type Options struct {
	TargetScore    int
	ConfirmTimeout time.Duration
	Now            func() time.Time
}

type Engine struct {
	store    store.Store
	queue    *queue.Manager
	timers   Timers
	court    Court
	notifier broadcast.Notifier
	opts     Options
	log      zerolog.Logger
}

func NewEngine(s store.Store, q *queue.Manager, t Timers, c Court, n broadcast.Notifier, l zerolog.Logger, opts Options) *Engine {
	if opts.TargetScore <= 0 {
		opts.TargetScore = DefaultTargetScore
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if n == nil {
		n = broadcast.Nop{}
	}
	return &Engine{
		store:    s,
		queue:    q,
		timers:   t,
		court:    c,
		notifier: n,
		opts:     opts,
		log:      l.With().Str("component", "match").Logger(),
	}
}

type StartRequest struct {
	Team1ID     string             `json:"team1Id" binding:"required"`
	Team2ID     string             `json:"team2Id" binding:"required"`
	TargetScore int                `json:"targetScore"`
	MatchType   postgres.MatchType `json:"matchType"`
}

// Start pairs two waiting teams on the court. A zero target score uses the
// configured default; an empty match type follows the court mode.
func (e *Engine) Start(ctx context.Context, req StartRequest) (*postgres.Match, error) {
	if err := models.ValidateID(req.Team1ID); err != nil {
		return nil, err
	}
	if err := models.ValidateID(req.Team2ID); err != nil {
		return nil, err
	}
	if req.Team1ID == req.Team2ID {
		return nil, models.ErrSameTeam
	}
	if req.TargetScore == 0 {
		req.TargetScore = e.opts.TargetScore
	}
	if req.TargetScore < 1 {
		return nil, models.ErrInvalidTarget
	}

	state := redis_models.DefaultCourtState()
	if e.court != nil {
		var err error
		if state, err = e.court.State(ctx); err != nil {
			return nil, err
		}
	}
	if !state.IsOpen {
		return nil, models.ErrCourtClosed
	}
	if req.MatchType == "" {
		req.MatchType = postgres.MatchRegular
		if state.Mode == redis_models.ModeChampion {
			req.MatchType = postgres.MatchChampionReturn
		}
	}
	if !req.MatchType.Valid() {
		return nil, models.ErrInvalidType
	}

	var match *postgres.Match
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		t1, err := waitingTeam(ctx, tx, req.Team1ID)
		if err != nil {
			return err
		}
		t2, err := waitingTeam(ctx, tx, req.Team2ID)
		if err != nil {
			return err
		}

		m := &postgres.Match{
			Team1ID:       t1.ID,
			Team2ID:       t2.ID,
			Team1Snapshot: datatypes.NewJSONType(t1.Snapshot()),
			Team2Snapshot: datatypes.NewJSONType(t2.Snapshot()),
			Status:        postgres.MatchActive,
			TargetScore:   req.TargetScore,
			MatchType:     req.MatchType,
			StartTime:     e.opts.Now(),
		}
		if err := tx.CreateMatch(ctx, m); err != nil {
			return err
		}

		playing := map[string]interface{}{"status": postgres.TeamPlaying, "position": nil}
		for _, id := range []string{t1.ID, t2.ID} {
			if _, err := tx.UpdateTeam(ctx, id, playing); err != nil {
				return err
			}
		}
		if err := queue.Compact(ctx, tx); err != nil {
			return err
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("match_id", match.ID).Str("team1", match.Team1Snapshot.Data().Name).
		Str("team2", match.Team2Snapshot.Data().Name).Int("target", match.TargetScore).
		Str("type", string(match.MatchType)).Msg("Match started")
	e.publish(ctx, models.MatchEvent{Event: models.EventMatchStarted, Match: *match})
	e.queue.Broadcast(ctx, models.EventQueueUpdated)
	return match, nil
}

// UpdateScore records the live score. Reaching the target on either side
// moves the match to confirming and arms its confirmation timer.
func (e *Engine) UpdateScore(ctx context.Context, matchID string, score1, score2 int) (*postgres.Match, error) {
	if err := models.ValidateID(matchID); err != nil {
		return nil, err
	}
	if score1 < 0 || score2 < 0 {
		return nil, models.ErrInvalidScore
	}

	var (
		updated *postgres.Match
		ended   bool
	)
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != postgres.MatchActive {
			return models.ErrMatchNotActive
		}

		fields := map[string]interface{}{"score1": score1, "score2": score2}
		if score1 >= m.TargetScore || score2 >= m.TargetScore {
			fields["status"] = postgres.MatchConfirming
			ended = true
		}
		updated, err = tx.UpdateMatch(ctx, matchID, fields)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !ended {
		e.publish(ctx, models.MatchEvent{Event: models.EventScoreUpdated, Match: *updated})
		return updated, nil
	}

	e.timers.Start(matchID, e.opts.ConfirmTimeout)
	e.log.Info().Str("match_id", matchID).Str("score", updated.FinalScore()).Msg("Target reached, awaiting confirmation")
	e.publish(ctx, models.MatchEvent{
		Event:      models.EventMatchEnded,
		Match:      *updated,
		FinalScore: updated.FinalScore(),
		Message:    "Both teams must confirm the result",
	})
	return updated, nil
}

// Confirm sets one team's confirmation flag. The second true flag resolves
// the match.
func (e *Engine) Confirm(ctx context.Context, matchID, teamID string, confirmed bool) (*postgres.Match, error) {
	if err := models.ValidateID(matchID); err != nil {
		return nil, err
	}
	if err := models.ValidateID(teamID); err != nil {
		return nil, err
	}

	var updated *postgres.Match
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Status != postgres.MatchConfirming {
			return models.ErrMatchNotConfirming
		}

		column := "confirmed_team1"
		switch m.Side(teamID) {
		case 1:
		case 2:
			column = "confirmed_team2"
		default:
			return models.ErrTeamNotInMatch
		}
		updated, err = tx.UpdateMatch(ctx, matchID, map[string]interface{}{column: confirmed})
		return err
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("match_id", matchID).Str("team_id", teamID).Bool("confirmed", confirmed).Msg("Confirmation received")
	e.publish(ctx, models.MatchEvent{Event: models.EventConfirmationReceived, Match: *updated, TeamID: teamID})

	if !updated.Confirmed.Both() {
		return updated, nil
	}
	// The timer stays armed until resolve commits, so a failed resolve still
	// times out.
	resolved, _, err := e.resolve(ctx, matchID, ResolveOptions{By: postgres.ResolvedByTeams}, false)
	return resolved, err
}

// ResolveOptions selects who resolved the match and, for operators, the
// final scores to record instead of the live ones.
type ResolveOptions struct {
	By     postgres.ResolvedBy
	Score1 *int
	Score2 *int
}

// Resolve completes a confirming match. Resolving a completed match returns
// the stored record unchanged.
func (e *Engine) Resolve(ctx context.Context, matchID string, opts ResolveOptions) (*postgres.Match, error) {
	m, _, err := e.resolve(ctx, matchID, opts, false)
	return m, err
}

// ForceResolve is the operator path: it also accepts an active match, which
// passes through confirming inside the same transaction.
func (e *Engine) ForceResolve(ctx context.Context, matchID string, score1, score2 *int) (*postgres.Match, error) {
	m, _, err := e.resolve(ctx, matchID, ResolveOptions{By: postgres.ResolvedByAdmin, Score1: score1, Score2: score2}, true)
	return m, err
}

func (e *Engine) resolve(ctx context.Context, matchID string, opts ResolveOptions, allowActive bool) (*postgres.Match, bool, error) {
	if err := models.ValidateID(matchID); err != nil {
		return nil, false, err
	}
	if (opts.Score1 != nil && *opts.Score1 < 0) || (opts.Score2 != nil && *opts.Score2 < 0) {
		return nil, false, models.ErrInvalidScore
	}
	if opts.By == "" {
		opts.By = postgres.ResolvedByAdmin
	}

	var (
		result    *postgres.Match
		completed bool
		winner    postgres.TeamSnapshot
	)
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}

		switch m.Status {
		case postgres.MatchCompleted:
			result = m
			return nil
		case postgres.MatchActive:
			if !allowActive {
				return models.ErrMatchNotConfirming
			}
			ok, err := tx.UpdateMatchIf(ctx, matchID, postgres.MatchActive, map[string]interface{}{"status": postgres.MatchConfirming})
			if err != nil {
				return err
			}
			if !ok {
				result, err = tx.FindMatchByID(ctx, matchID)
				return err
			}
		}

		score1, score2 := m.Score1, m.Score2
		if opts.Score1 != nil {
			score1 = *opts.Score1
		}
		if opts.Score2 != nil {
			score2 = *opts.Score2
		}

		// Equal scores go to team1.
		winnerID, loserID := m.Team1ID, m.Team2ID
		winner = m.Team1Snapshot.Data()
		if score2 > score1 {
			winnerID, loserID = m.Team2ID, m.Team1ID
			winner = m.Team2Snapshot.Data()
		}

		ok, err := tx.UpdateMatchIf(ctx, matchID, postgres.MatchConfirming, map[string]interface{}{
			"status":          postgres.MatchCompleted,
			"score1":          score1,
			"score2":          score2,
			"confirmed_team1": true,
			"confirmed_team2": true,
			"resolved_by":     opts.By,
			"winner_id":       winnerID,
			"end_time":        e.opts.Now(),
		})
		if err != nil {
			return err
		}
		if !ok {
			// Someone else completed it first.
			result, err = tx.FindMatchByID(ctx, matchID)
			return err
		}
		completed = true

		winnerFields := map[string]interface{}{"wins": gorm.Expr("wins + ?", 1)}
		if m.MatchType == postgres.MatchChampionReturn {
			winnerFields["status"] = postgres.TeamCooldown
			winnerFields["position"] = nil
			if _, err := tx.UpdateTeam(ctx, winnerID, winnerFields); err != nil {
				return err
			}
		} else if _, err := queue.Enqueue(ctx, tx, winnerID, winnerFields); err != nil {
			return err
		}
		if _, err := queue.Enqueue(ctx, tx, loserID, nil); err != nil {
			return err
		}

		result, err = tx.FindMatchByID(ctx, matchID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if !completed {
		return result, false, nil
	}

	e.timers.Cancel(matchID)
	if result.MatchType == postgres.MatchChampionReturn && e.court != nil {
		if _, err := e.court.BeginCooldown(ctx); err != nil {
			e.log.Error().Err(err).Str("match_id", matchID).Msg("Could not start champion cooldown")
		}
	}

	e.log.Info().Str("match_id", matchID).Str("winner", winner.Name).Str("score", result.FinalScore()).
		Str("resolved_by", string(opts.By)).Msg("Match completed")
	e.publish(ctx, models.MatchEvent{
		Event:      models.EventMatchCompleted,
		Match:      *result,
		Winner:     winner.Name,
		FinalScore: result.FinalScore(),
		ResolvedBy: opts.By,
	})
	e.queue.Broadcast(ctx, models.EventQueueUpdated)
	return result, true, nil
}

// HandleExpired resolves a match whose confirmation window ran out. A match
// that is gone or no longer confirming is left alone.
func (e *Engine) HandleExpired(ctx context.Context, matchID string) error {
	m, err := e.store.FindMatchByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		e.log.Debug().Str("match_id", matchID).Msg("Timer fired for a missing match")
		return nil
	}
	if err != nil {
		return err
	}
	if m.Status != postgres.MatchConfirming {
		return nil
	}

	resolved, completed, err := e.resolve(ctx, matchID, ResolveOptions{By: postgres.ResolvedByTimeout}, false)
	if errors.Is(err, models.ErrMatchNotConfirming) || errors.Is(err, models.ErrMatchNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !completed {
		return nil
	}

	e.publish(ctx, models.MatchEvent{
		Event:      models.EventMatchTimeoutResolved,
		Match:      *resolved,
		FinalScore: resolved.FinalScore(),
		ResolvedBy: postgres.ResolvedByTimeout,
		Message:    "Result confirmed automatically after the confirmation window expired",
	})
	return nil
}

func (e *Engine) GetByID(ctx context.Context, matchID string) (*postgres.Match, error) {
	if err := models.ValidateID(matchID); err != nil {
		return nil, err
	}
	m, err := e.store.FindMatchByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.ErrMatchNotFound
	}
	return m, err
}

// ListActive returns the matches still on court, active or confirming,
// oldest first.
func (e *Engine) ListActive(ctx context.Context) ([]postgres.Match, error) {
	return e.store.ListMatches(ctx, store.MatchFilter{
		Statuses: []postgres.MatchStatus{postgres.MatchActive, postgres.MatchConfirming},
	})
}

// History returns completed matches, newest first.
func (e *Engine) History(ctx context.Context, limit int) ([]postgres.Match, error) {
	if limit <= 0 {
		limit = court_constants.DefaultHistoryLimit
	}
	limit = min(limit, court_constants.MaxHistoryLimit)
	return e.store.ListMatches(ctx, store.MatchFilter{
		Statuses: []postgres.MatchStatus{postgres.MatchCompleted},
		Newest:   true,
		Limit:    limit,
	})
}

// RestartTimer re-arms the confirmation timer of a confirming match. A
// non-positive d uses the configured timeout.
func (e *Engine) RestartTimer(ctx context.Context, matchID string, d time.Duration) (models.MatchTimer, error) {
	m, err := e.GetByID(ctx, matchID)
	if err != nil {
		return models.MatchTimer{}, err
	}
	if m.Status != postgres.MatchConfirming {
		return models.MatchTimer{}, models.ErrMatchNotConfirming
	}
	if d <= 0 {
		d = e.opts.ConfirmTimeout
	}

	firesAt := e.timers.Start(matchID, d)
	e.log.Info().Str("match_id", matchID).Time("fires_at", firesAt).Msg("Confirmation timer restarted")
	return models.MatchTimer{MatchID: matchID, RemainingMs: time.Until(firesAt).Milliseconds()}, nil
}

func (e *Engine) TimeRemaining(matchID string) (time.Duration, bool) {
	return e.timers.Remaining(matchID)
}

// Timers lists every running confirmation timer.
func (e *Engine) Timers() []models.MatchTimer {
	ids := e.timers.Pending()
	out := make([]models.MatchTimer, 0, len(ids))
	for _, id := range ids {
		if left, ok := e.timers.Remaining(id); ok {
			out = append(out, models.MatchTimer{MatchID: id, RemainingMs: left.Milliseconds()})
		}
	}
	return out
}

// Match events carry no contact details, so both audiences get the same
// payload.
func (e *Engine) publish(ctx context.Context, ev models.MatchEvent) {
	for _, ch := range []models.Channel{models.ChannelPublic, models.ChannelAdmin} {
		if err := e.notifier.Publish(ctx, ch, ev.Event, ev); err != nil {
			e.log.Warn().Err(err).Str("channel", string(ch)).Str("event", ev.Event).Msg("Broadcast failed")
		}
	}
}

func lockMatch(ctx context.Context, tx store.Store, matchID string) (*postgres.Match, error) {
	m, err := tx.LockMatch(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.ErrMatchNotFound
	}
	return m, err
}

func waitingTeam(ctx context.Context, tx store.Store, teamID string) (*postgres.Team, error) {
	t, err := tx.FindTeamByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	if t.Status != postgres.TeamWaiting {
		return nil, models.ErrTeamNotInQueue.WithMessage("team %s is not waiting", t.Name)
	}
	return t, nil
}
