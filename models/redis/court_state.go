package redis

import "time"

type CourtMode string

const (
	ModeRegular  CourtMode = "regular"
	ModeChampion CourtMode = "champion"
)

func (m CourtMode) Valid() bool {
	return m == ModeRegular || m == ModeChampion
}

// CourtState is the court metadata kept in Redis. A missing key means the
// defaults returned by DefaultCourtState.
type CourtState struct {
	IsOpen         bool       `json:"isOpen"`
	Mode           CourtMode  `json:"mode"`
	CooldownEndsAt *time.Time `json:"cooldownEndsAt,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func DefaultCourtState() CourtState {
	return CourtState{
		IsOpen: true,
		Mode:   ModeRegular,
	}
}

// CooldownOver reports whether a running cooldown has ended at now.
func (s CourtState) CooldownOver(now time.Time) bool {
	return s.CooldownEndsAt != nil && !now.Before(*s.CooldownEndsAt)
}
