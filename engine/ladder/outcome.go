package ladder

import (
	"fmt"
	"math/rand"
	"time"

	"rtladder/engine/gamehost"
	"rtladder/pkg/database/models"
)

// LobbyGracePeriod is how long a lobby may sit waiting for players before the
// game is forfeited and removed from the host.
const LobbyGracePeriod = 5 * time.Minute

// TerminalReason says how a match reached its decided state.
type TerminalReason string

const (
	ReasonFinished     TerminalReason = "finished"
	ReasonLobbyTimeout TerminalReason = "lobby_timeout"
)

// Resolution is the outcome decision for one open match on one tick.
type Resolution struct {
	Finished bool
	WinnerID int64
	Reason   TerminalReason

	// DeleteRemote is set when the lobby timed out and the remote game
	// must be deleted from the host.
	DeleteRemote bool

	// Anomaly is non-empty when the winner had to be chosen by fallback
	// policy instead of host data. The caller logs it at warning level.
	Anomaly string
}

// ResolveOutcome decides whether an open match is finished, timed out, or
// still pending, given the host's current snapshot of the game.
//
// An already-ended match resolves to no transition, so calling this again on
// a decided match never re-resolves it. Any state combination that is not an
// explicit transition leaves the match open for the next tick.
func ResolveOutcome(match *models.LadderMatch, game *gamehost.Game, now time.Time, rng *rand.Rand) Resolution {
	if !match.Open() {
		return Resolution{}
	}

	switch game.State {
	case gamehost.GameStateFinished:
		return resolveFinished(match, game, rng)
	case gamehost.GameStateWaitingForPlayers:
		if now.Sub(match.CreatedAt) > LobbyGracePeriod {
			return resolveLobbyTimeout(match, game, rng)
		}
	}

	return Resolution{}
}

// resolveFinished picks the winner of a game the host reports as done.
func resolveFinished(match *models.LadderMatch, game *gamehost.Game, rng *rand.Rand) Resolution {
	resolution := Resolution{
		Finished: true,
		Reason:   ReasonFinished,
	}

	var winners []int64
	for _, id := range []int64{match.PlayerAID, match.PlayerBID} {
		if player, found := game.PlayerByID(id); found && player.State == gamehost.PlayerStateWon {
			winners = append(winners, id)
		}
	}

	if len(winners) == 1 {
		resolution.WinnerID = winners[0]
		return resolution
	}

	// The host finished the game without a single clear winner. Fall back
	// to a coin flip rather than leaving the match stuck open.
	resolution.WinnerID = randomWinner(match, rng)
	resolution.Anomaly = fmt.Sprintf(
		"game %d finished with %d winners reported, picked %d at random",
		match.ID, len(winners), resolution.WinnerID,
	)
	return resolution
}

// resolveLobbyTimeout applies the tie-break policy for a lobby nobody filled:
// a side that joined beats one that didn't, and a side still invited beats
// one that declined. Anything less clear-cut is a coin flip.
func resolveLobbyTimeout(match *models.LadderMatch, game *gamehost.Game, rng *rand.Rand) Resolution {
	resolution := Resolution{
		Finished:     true,
		Reason:       ReasonLobbyTimeout,
		DeleteRemote: true,
	}

	stateA := participantState(game, match.PlayerAID)
	stateB := participantState(game, match.PlayerBID)

	switch {
	case stateA == gamehost.PlayerStatePlaying,
		stateA == gamehost.PlayerStateInvited && stateB == gamehost.PlayerStateDeclined:
		resolution.WinnerID = match.PlayerAID
	case stateB == gamehost.PlayerStatePlaying,
		stateB == gamehost.PlayerStateInvited && stateA == gamehost.PlayerStateDeclined:
		resolution.WinnerID = match.PlayerBID
	default:
		resolution.WinnerID = randomWinner(match, rng)
		resolution.Anomaly = fmt.Sprintf(
			"game %d lobby timed out with states %q/%q, picked %d at random",
			match.ID, stateA, stateB, resolution.WinnerID,
		)
	}

	return resolution
}

// participantState looks up a participant's state on the snapshot, mapping a
// missing participant to Unknown so it falls into the fallback branch.
func participantState(game *gamehost.Game, playerID int64) gamehost.PlayerState {
	if player, found := game.PlayerByID(playerID); found {
		return player.State
	}
	return gamehost.PlayerStateUnknown
}

func randomWinner(match *models.LadderMatch, rng *rand.Rand) int64 {
	if rng.Intn(2) == 0 {
		return match.PlayerAID
	}
	return match.PlayerBID
}
