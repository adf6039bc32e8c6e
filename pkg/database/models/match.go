package models

import (
	"time"
)

// LadderMatch is the database model for one head-to-head ladder game.
// The primary key is the game ID assigned by the game host on creation, so a
// row only ever exists for a confirmed remote game. EndedAt and WinnerID are
// set together, exactly once, when the match reaches a terminal state; a
// timed-out lobby is represented the same way, with the tie-break winner.
type LadderMatch struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time
	EndedAt    *time.Time `gorm:"index"`
	TemplateID int64
	PlayerAID  int64 `gorm:"not null"`
	PlayerBID  int64 `gorm:"not null"`
	WinnerID   *int64

	PlayerA LadderPlayer  `gorm:"foreignKey:PlayerAID"`
	PlayerB LadderPlayer  `gorm:"foreignKey:PlayerBID"`
	Winner  *LadderPlayer `gorm:"foreignKey:WinnerID"`
}

// Open reports whether the match is still waiting on a result.
func (m *LadderMatch) Open() bool {
	return m.EndedAt == nil
}

// Loser returns the participant that did not win. Only meaningful once the
// winner is set.
func (m *LadderMatch) Loser() *LadderPlayer {
	if m.WinnerID == nil {
		return nil
	}
	if *m.WinnerID == m.PlayerA.ID {
		return &m.PlayerB
	}
	return &m.PlayerA
}
