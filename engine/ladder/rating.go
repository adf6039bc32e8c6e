package ladder

import (
	"math"

	"rtladder/pkg/database/models"
)

// Rating update constants. Every decided game moves both players by the
// standard logistic update with a fixed K.
const (
	KFactor        = 32.0
	StartingRating = 1500.0
)

// ExpectedScore returns the probability of the rated player beating the
// opponent under the logistic model.
func ExpectedScore(rating float64, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-rating)/400))
}

// UpdateRatings applies the result of a decided game to both players in
// memory: ratings, win/loss counters and activity state. Persisting the
// records is the caller's responsibility.
//
// Players that joined for a single game are deactivated; everyone is released
// from their game. Returns whether either player's ladder eligibility
// changed, so the caller knows to broadcast an updated roster.
func UpdateRatings(winner *models.LadderPlayer, loser *models.LadderPlayer) bool {
	expectedWinner := ExpectedScore(winner.Elo, loser.Elo)
	expectedLoser := ExpectedScore(loser.Elo, winner.Elo)

	winner.Elo += KFactor * (1 - expectedWinner)
	loser.Elo += KFactor * (0 - expectedLoser)
	winner.Wins++
	loser.Losses++

	rosterChanged := false
	for _, player := range []*models.LadderPlayer{winner, loser} {
		if player.SingleGame && player.Active {
			player.Active = false
			rosterChanged = true
		}
		player.InGame = false
	}

	return rosterChanged
}
