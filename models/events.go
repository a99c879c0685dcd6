package models

import (
	"Courtside/models/postgres"
	"Courtside/models/redis"
)

type Channel string

const (
	ChannelPublic Channel = "public"
	ChannelAdmin  Channel = "admin"
)

// Event names published to observers.
const (
	EventTeamJoined           = "team_joined"
	EventTeamLeft             = "team_left"
	EventQueueReordered       = "queue_reordered"
	EventQueueUpdated         = "queue_updated"
	EventTeamUpdated          = "team_updated"
	EventTeamRemoved          = "team_removed"
	EventCooldownEnded        = "cooldown_ended"
	EventMatchStarted         = "match_started"
	EventScoreUpdated         = "score_updated"
	EventMatchEnded           = "match_ended"
	EventConfirmationReceived = "confirmation_received"
	EventMatchCompleted       = "match_completed"
	EventMatchTimeoutResolved = "match_timeout_resolved"
	EventCourtUpdated         = "court_updated"
)

// QueueView is the waiting line as seen by one audience.
type QueueView struct {
	Teams          []postgres.Team `json:"teams"`
	MaxSize        int             `json:"maxSize"`
	TotalTeams     int             `json:"totalTeams"`
	AvailableSlots int             `json:"availableSlots"`
}

// Redacted returns a copy of the view safe for the public channel.
func (v QueueView) Redacted() QueueView {
	teams := make([]postgres.Team, len(v.Teams))
	for i, t := range v.Teams {
		teams[i] = t.Redacted()
	}
	v.Teams = teams
	return v
}

type QueueEvent struct {
	Event string `json:"event"`
	QueueView
}

type MatchEvent struct {
	Event      string              `json:"event"`
	Match      postgres.Match      `json:"match"`
	Winner     string              `json:"winner,omitempty"`
	FinalScore string              `json:"finalScore,omitempty"`
	ResolvedBy postgres.ResolvedBy `json:"resolvedBy,omitempty"`
	TeamID     string              `json:"teamId,omitempty"`
	Message    string              `json:"message,omitempty"`
}

type CourtEvent struct {
	Event string           `json:"event"`
	Court redis.CourtState `json:"court"`
}

// MatchTimer describes a running confirmation timeout.
type MatchTimer struct {
	MatchID     string `json:"matchId"`
	RemainingMs int64  `json:"remainingMs"`
}

// Overview is the aggregate court read model sent to a viewer on connect.
type Overview struct {
	Court   redis.CourtState `json:"court"`
	Queue   QueueView        `json:"queue"`
	Matches []postgres.Match `json:"matches"`
	Timers  []MatchTimer     `json:"timers"`
}
