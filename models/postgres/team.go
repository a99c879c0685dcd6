package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamStatus string

const (
	TeamWaiting  TeamStatus = "waiting"
	TeamPlaying  TeamStatus = "playing"
	TeamCooldown TeamStatus = "cooldown"
)

/*
 * 'Team' is a group queuing for the court. Position is only set while the
 * team is waiting; the unique index keeps two waiting teams from sharing a slot
 * (NULL positions never collide).
 */
type Team struct {
	ID          string     `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string     `gorm:"size:50;not null;uniqueIndex:idx_teams_name" json:"name"`
	Members     int        `gorm:"not null" json:"members"`
	ContactInfo string     `gorm:"size:100" json:"contactInfo,omitempty"`
	Status      TeamStatus `gorm:"size:16;not null;index:idx_teams_status" json:"status"`
	Wins        int        `gorm:"not null;default:0" json:"wins"`
	Position    *int       `gorm:"uniqueIndex:idx_teams_waiting_position" json:"position,omitempty"`
	LastSeen    time.Time  `json:"lastSeen"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Redacted strips fields that only admins may see.
func (t Team) Redacted() Team {
	t.ContactInfo = ""
	return t
}

// Snapshot captures the team as it was when a match started.
func (t Team) Snapshot() TeamSnapshot {
	return TeamSnapshot{
		ID:      t.ID,
		Name:    t.Name,
		Members: t.Members,
		Wins:    t.Wins,
	}
}

type TeamSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Members int    `json:"members"`
	Wins    int    `json:"wins"`
}
