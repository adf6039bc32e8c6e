package gamehost

// GameState is the lifecycle state the game host reports for a whole game.
// The API reports these as free-form strings; they are mapped onto a closed
// set here and anything unexpected becomes GameStateUnknown so callers can
// treat it as a data anomaly instead of silently defaulting.
type GameState string

const (
	GameStateWaitingForPlayers       GameState = "WaitingForPlayers"
	GameStateDistributingTerritories GameState = "DistributingTerritories"
	GameStatePlaying                 GameState = "Playing"
	GameStateFinished                GameState = "Finished"
	GameStateUnknown                 GameState = "Unknown"
)

// ParseGameState maps the raw API value onto the closed state set.
// The second return reports whether the value was recognized.
func ParseGameState(raw string) (GameState, bool) {
	switch GameState(raw) {
	case GameStateWaitingForPlayers,
		GameStateDistributingTerritories,
		GameStatePlaying,
		GameStateFinished:
		return GameState(raw), true
	}
	return GameStateUnknown, false
}

// PlayerState is the per-player status inside a game.
type PlayerState string

const (
	PlayerStateWon               PlayerState = "Won"
	PlayerStatePlaying           PlayerState = "Playing"
	PlayerStateInvited           PlayerState = "Invited"
	PlayerStateSurrenderAccepted PlayerState = "SurrenderAccepted"
	PlayerStateEliminated        PlayerState = "Eliminated"
	PlayerStateBooted            PlayerState = "Booted"
	PlayerStateEndedByVote       PlayerState = "EndedByVote"
	PlayerStateDeclined          PlayerState = "Declined"
	PlayerStateRemovedByHost     PlayerState = "RemovedByHost"
	PlayerStateUnknown           PlayerState = "Unknown"
)

// ParsePlayerState maps the raw API value onto the closed state set.
func ParsePlayerState(raw string) (PlayerState, bool) {
	switch PlayerState(raw) {
	case PlayerStateWon,
		PlayerStatePlaying,
		PlayerStateInvited,
		PlayerStateSurrenderAccepted,
		PlayerStateEliminated,
		PlayerStateBooted,
		PlayerStateEndedByVote,
		PlayerStateDeclined,
		PlayerStateRemovedByHost:
		return PlayerState(raw), true
	}
	return PlayerStateUnknown, false
}
