package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MatchStatus string

const (
	MatchActive     MatchStatus = "active"
	MatchConfirming MatchStatus = "confirming"
	MatchCompleted  MatchStatus = "completed"
)

type MatchType string

const (
	MatchRegular        MatchType = "regular"
	MatchChampionReturn MatchType = "champion_return"
)

func (t MatchType) Valid() bool {
	return t == MatchRegular || t == MatchChampionReturn
}

type ResolvedBy string

const (
	ResolvedByTeams   ResolvedBy = "teams"
	ResolvedByTimeout ResolvedBy = "timeout"
	ResolvedByAdmin   ResolvedBy = "admin"
)

type Confirmed struct {
	Team1 bool `gorm:"not null;default:false" json:"team1"`
	Team2 bool `gorm:"not null;default:false" json:"team2"`
}

func (c Confirmed) Both() bool {
	return c.Team1 && c.Team2
}

/*
 * 'Match' is a game on the court between two teams. The team data is a
 * snapshot taken at start, never a live join; matches are kept forever.
 */
type Match struct {
	ID            string                           `gorm:"primaryKey;size:36;not null" json:"id"`
	Team1ID       string                           `gorm:"size:36;not null;index" json:"team1Id"`
	Team2ID       string                           `gorm:"size:36;not null;index" json:"team2Id"`
	Team1Snapshot datatypes.JSONType[TeamSnapshot] `gorm:"column:team1" json:"team1"`
	Team2Snapshot datatypes.JSONType[TeamSnapshot] `gorm:"column:team2" json:"team2"`
	Score1        int                              `gorm:"not null;default:0" json:"score1"`
	Score2        int                              `gorm:"not null;default:0" json:"score2"`
	Status        MatchStatus                      `gorm:"size:16;not null;index:idx_matches_status" json:"status"`
	TargetScore   int                              `gorm:"not null" json:"targetScore"`
	MatchType     MatchType                        `gorm:"size:20;not null" json:"matchType"`
	Confirmed     Confirmed                        `gorm:"embedded;embeddedPrefix:confirmed_" json:"confirmed"`
	ResolvedBy    ResolvedBy                       `gorm:"size:16" json:"resolvedBy,omitempty"`
	WinnerID      *string                          `gorm:"size:36" json:"winnerId,omitempty"`
	StartTime     time.Time                        `gorm:"not null" json:"startTime"`
	EndTime       *time.Time                       `json:"endTime,omitempty"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Side reports which side of the match teamID plays on: 1, 2, or 0 when the
// team is not in the match.
func (m Match) Side(teamID string) int {
	switch teamID {
	case m.Team1ID:
		return 1
	case m.Team2ID:
		return 2
	}
	return 0
}

// FinalScore formats the score as "S1-S2".
func (m Match) FinalScore() string {
	return fmt.Sprintf("%d-%d", m.Score1, m.Score2)
}
