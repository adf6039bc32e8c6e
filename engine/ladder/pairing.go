package ladder

import (
	"math/rand"

	"rtladder/pkg/database/models"
)

// PlayerPair is one head-to-head pairing produced for a tick.
type PlayerPair struct {
	A *models.LadderPlayer
	B *models.LadderPlayer
}

// PairPlayers draws disjoint random pairs from the eligible pool. When the
// pool is odd one player is left unpaired and simply stays eligible for the
// next tick. The random source is injected so pairing stays reproducible
// under test.
func PairPlayers(players []*models.LadderPlayer, rng *rand.Rand) []PlayerPair {
	pool := make([]*models.LadderPlayer, len(players))
	copy(pool, players)

	var pairs []PlayerPair
	for len(pool) > 1 {
		pairs = append(pairs, PlayerPair{
			A: popRandom(&pool, rng),
			B: popRandom(&pool, rng),
		})
	}

	return pairs
}

// popRandom removes and returns a uniformly chosen player from the pool.
func popRandom(pool *[]*models.LadderPlayer, rng *rand.Rand) *models.LadderPlayer {
	players := *pool
	index := rng.Intn(len(players))
	picked := players[index]

	players[index] = players[len(players)-1]
	*pool = players[:len(players)-1]

	return picked
}
