package dto

import (
	"time"

	"rtladder/pkg/database/models"
)

// StandingsEntry is one row of the ladder standings.
type StandingsEntry struct {
	Rank   int     `json:"rank"`
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Elo    float64 `json:"elo"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Active bool    `json:"active"`
}

// StandingsFromPlayers converts ranked players into standings rows.
func StandingsFromPlayers(players []*models.LadderPlayer) []StandingsEntry {
	entries := make([]StandingsEntry, 0, len(players))
	for i, player := range players {
		entries = append(entries, StandingsEntry{
			Rank:   i + 1,
			ID:     player.ID,
			Name:   player.Name,
			Elo:    player.Elo,
			Wins:   player.Wins,
			Losses: player.Losses,
			Active: player.Active,
		})
	}
	return entries
}

// RecentGame is one decided game on the recent games feed.
type RecentGame struct {
	GameID   int64     `json:"gameId"`
	Link     string    `json:"link"`
	Winner   string    `json:"winner"`
	Loser    string    `json:"loser"`
	EndedAt  time.Time `json:"endedAt"`
	Template int64     `json:"templateId"`
}

// RecentGamesFromMatches converts decided matches into feed entries.
func RecentGamesFromMatches(matches []*models.LadderMatch, link func(int64) string) []RecentGame {
	games := make([]RecentGame, 0, len(matches))
	for _, match := range matches {
		if match.EndedAt == nil || match.Winner == nil {
			continue
		}

		loser := match.Loser()
		games = append(games, RecentGame{
			GameID:   match.ID,
			Link:     link(match.ID),
			Winner:   match.Winner.Name,
			Loser:    loser.Name,
			EndedAt:  *match.EndedAt,
			Template: match.TemplateID,
		})
	}
	return games
}
