package notifications

import (
	"time"
)

// Redis channels the engine publishes on. The Discord-facing collaborator
// subscribes to these and owns all formatting and delivery.
const (
	ChannelGameFinished = "rtl:games:finished"
	ChannelNewGame      = "rtl:games:new"
	ChannelRoster       = "rtl:roster"

	// ChannelControl carries operator commands back to the engine.
	ChannelControl = "rtl:control"
)

// PlayerSummary is the plain-data view of a player carried on events.
type PlayerSummary struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Elo    float64 `json:"elo"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Active bool    `json:"active"`
}

// MatchFinishedEvent announces a decided game.
type MatchFinishedEvent struct {
	GameID   int64         `json:"gameId"`
	GameLink string        `json:"gameLink"`
	Winner   PlayerSummary `json:"winner"`
	Loser    PlayerSummary `json:"loser"`
	Reason   string        `json:"reason"`
	EndedAt  time.Time     `json:"endedAt"`
}

// NewMatchEvent announces a freshly created game.
type NewMatchEvent struct {
	GameID     int64         `json:"gameId"`
	GameLink   string        `json:"gameLink"`
	TemplateID int64         `json:"templateId"`
	PlayerA    PlayerSummary `json:"playerA"`
	PlayerB    PlayerSummary `json:"playerB"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// RosterChangedEvent announces players whose ladder eligibility changed.
type RosterChangedEvent struct {
	Players []PlayerSummary `json:"players"`
}
