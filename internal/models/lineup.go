package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedLineup is a persisted optimization result, queryable by team and
// week for lineup history.
type SavedLineup struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"external_id"`
	TeamKey    string    `gorm:"not null;index:idx_team_week" json:"team_key"`
	Season     int       `gorm:"not null" json:"season"`
	Week       int       `gorm:"not null;index:idx_team_week" json:"week"`
	Strategy   string    `gorm:"not null" json:"strategy"`

	ProjectedPoints float64  `gorm:"not null" json:"projected_points"`
	ActualPoints    *float64 `json:"actual_points,omitempty"` // Null until the week completes

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Slots []SavedLineupSlot `gorm:"foreignKey:LineupID;constraint:OnDelete:CASCADE" json:"slots"`
}

func (SavedLineup) TableName() string {
	return "saved_lineups"
}

// BeforeCreate assigns the external identifier.
func (l *SavedLineup) BeforeCreate(tx *gorm.DB) error {
	if l.ExternalID == uuid.Nil {
		l.ExternalID = uuid.New()
	}
	return nil
}

// SavedLineupSlot is one slot assignment within a saved lineup.
type SavedLineupSlot struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	LineupID uint   `gorm:"not null;index" json:"lineup_id"`
	Slot     string `gorm:"not null" json:"slot"`

	PlayerName string  `gorm:"not null" json:"player_name"`
	Position   string  `gorm:"not null" json:"position"`
	Team       string  `json:"team"`
	Projection float64 `json:"projection"`
	Composite  float64 `json:"composite_score"`
	Tier       string  `json:"tier"`
	OnBye      bool    `json:"on_bye"`
}

func (SavedLineupSlot) TableName() string {
	return "saved_lineup_slots"
}

// TotalProjection sums the slot projections.
func (l *SavedLineup) TotalProjection() float64 {
	total := 0.0
	for _, slot := range l.Slots {
		total += slot.Projection
	}
	return total
}
