package models

import (
	"time"
)

// LadderPlayer is the database model for a linked ladder player.
// The primary key is the stable player identity on the game host; the
// Discord account reference is set once at link time.
type LadderPlayer struct {
	ID         int64   `gorm:"primaryKey;autoIncrement:false"`
	Name       string  `gorm:"type:varchar(100)"`
	DiscordID  int64   `gorm:"uniqueIndex"`
	Elo        float64 `gorm:"default:1500"`
	Wins       int     `gorm:"default:0"`
	Losses     int     `gorm:"default:0"`
	Active     bool    `gorm:"default:false;index:idx_eligible"`
	SingleGame bool    `gorm:"default:false"`
	InGame     bool    `gorm:"default:false;index:idx_eligible"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Eligible reports whether the player can be picked for a new game.
func (p *LadderPlayer) Eligible() bool {
	return p.Active && !p.InGame
}
