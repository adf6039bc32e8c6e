package ladder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"rtladder/engine/gamehost"
	"rtladder/engine/notifications"
	"rtladder/engine/repositories"
	"rtladder/pkg/config"
	"rtladder/pkg/database/models"
	"rtladder/pkg/logger"
	"rtladder/pkg/messages"
)

// Engine runs one full ladder pass per tick: settle every open match first,
// then pair whoever is eligible into new games. The resolution pass always
// finishes before pairing starts, so a player freed by a result can only be
// re-paired after their state was persisted.
type Engine struct {
	gamehost gamehost.API
	players  repositories.PlayerRepository
	matches  repositories.MatchRepository
	notifier notifications.Publisher
	log      *logger.Logger
	rng      *rand.Rand
	ladder   config.LadderConfig
}

// EngineDeps is the dependency list for the engine.
type EngineDeps struct {
	GameHost gamehost.API
	Players  repositories.PlayerRepository
	Matches  repositories.MatchRepository
	Notifier notifications.Publisher
	Logger   *logger.Logger
	Rand     *rand.Rand
	Ladder   config.LadderConfig
}

// NewEngine creates a ladder engine.
func NewEngine(deps *EngineDeps) *Engine {
	return &Engine{
		gamehost: deps.GameHost,
		players:  deps.Players,
		matches:  deps.Matches,
		notifier: deps.Notifier,
		log:      deps.Logger,
		rng:      deps.Rand,
		ladder:   deps.Ladder,
	}
}

// RunTick executes one orchestration pass. A failure on one match or pair is
// logged and skipped; it never aborts the rest of the tick.
func (e *Engine) RunTick(ctx context.Context) {
	e.resolveOpenMatches(ctx)
	e.createNewMatches(ctx)
}

// resolveOpenMatches polls the host for every open match and settles the ones
// that reached a terminal state.
func (e *Engine) resolveOpenMatches(ctx context.Context) {
	openMatches, err := e.matches.GetOpenMatches(ctx)
	if err != nil {
		e.log.Errorf("couldn't load the open matches: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, match := range openMatches {
		if err := e.resolveMatch(ctx, match, now); err != nil {
			// Skipped this tick; the match stays open and gets
			// re-evaluated on the next one.
			e.log.Errorf("couldn't process game %d: %v", match.ID, err)
		}
	}
}

// resolveMatch settles a single open match if the host says it's over.
func (e *Engine) resolveMatch(ctx context.Context, match *models.LadderMatch, now time.Time) error {
	game, err := e.gamehost.QueryGame(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("couldn't query the game: %v", err)
	}

	if game.State == gamehost.GameStateUnknown {
		e.log.Warnf(messages.UnknownGameState, game.RawState, match.ID)
	}

	resolution := ResolveOutcome(match, game, now, e.rng)
	if !resolution.Finished {
		return nil
	}

	if resolution.Anomaly != "" {
		e.log.Warnf("outcome fallback: %s", resolution.Anomaly)
	}

	winner, loser := &match.PlayerA, &match.PlayerB
	if resolution.WinnerID == match.PlayerBID {
		winner, loser = loser, winner
	}

	rosterChanged := UpdateRatings(winner, loser)

	endedAt := now
	match.EndedAt = &endedAt
	match.WinnerID = &resolution.WinnerID

	if err := e.matches.FinishMatch(ctx, match, winner, loser); err != nil {
		return fmt.Errorf("couldn't persist the result: %v", err)
	}

	e.log.Infof(
		"game %d decided (%s): %s defeats %s",
		match.ID, resolution.Reason, winner.Name, loser.Name,
	)

	if resolution.DeleteRemote {
		if err := e.gamehost.DeleteGame(ctx, match.ID); err != nil {
			// The result is already committed; the stale lobby on the
			// host is cosmetic.
			e.log.Errorf("couldn't delete the timed out game %d: %v", match.ID, err)
		}
	}

	e.notify(ctx, "game finished", func(ctx context.Context) error {
		return e.notifier.MatchFinished(ctx, notifications.MatchFinishedEvent{
			GameID:   match.ID,
			GameLink: gamehost.GameLink(match.ID),
			Winner:   summarize(winner),
			Loser:    summarize(loser),
			Reason:   string(resolution.Reason),
			EndedAt:  endedAt,
		})
	})

	if rosterChanged {
		e.notify(ctx, "roster changed", func(ctx context.Context) error {
			return e.notifier.RosterChanged(ctx, notifications.RosterChangedEvent{
				Players: []notifications.PlayerSummary{summarize(winner), summarize(loser)},
			})
		})
	}

	return nil
}

// createNewMatches pairs up the eligible pool and creates the games remotely.
func (e *Engine) createNewMatches(ctx context.Context) {
	eligible, err := e.players.GetEligiblePlayers(ctx)
	if err != nil {
		e.log.Errorf("couldn't load the eligible players: %v", err)
		return
	}

	pairs := PairPlayers(eligible, e.rng)
	for _, pair := range pairs {
		if err := e.createMatch(ctx, pair); err != nil {
			// Both players keep their eligibility and get re-paired
			// on the next tick.
			e.log.Errorf("couldn't create a game for %s vs %s: %v", pair.A.Name, pair.B.Name, err)
		}
	}
}

// createMatch creates one game on the host and persists it. Nothing is
// persisted unless the host confirmed the game and handed back its ID.
func (e *Engine) createMatch(ctx context.Context, pair PlayerPair) error {
	templateID := e.ladder.Templates[e.rng.Intn(len(e.ladder.Templates))]

	gameID, err := e.gamehost.CreateGame(
		ctx,
		[]gamehost.NewGamePlayer{
			{Token: fmt.Sprintf("%d", pair.A.ID)},
			{Token: fmt.Sprintf("%d", pair.B.ID)},
		},
		templateID,
		fmt.Sprintf("%s | %s vs %s", e.ladder.GameName, pair.A.Name, pair.B.Name),
		fmt.Sprintf("%s game. Join within %d minutes or the lobby is forfeited.",
			e.ladder.GameName, int(LobbyGracePeriod.Minutes())),
	)
	if err != nil {
		return err
	}

	match := &models.LadderMatch{
		ID:         gameID,
		CreatedAt:  time.Now().UTC(),
		TemplateID: templateID,
		PlayerAID:  pair.A.ID,
		PlayerBID:  pair.B.ID,
	}

	if err := e.matches.CreateMatch(ctx, match); err != nil {
		return fmt.Errorf("couldn't persist the created game %d: %v", gameID, err)
	}

	e.log.Infof("created game %d on template %d: %s vs %s", gameID, templateID, pair.A.Name, pair.B.Name)

	e.notify(ctx, "new game", func(ctx context.Context) error {
		return e.notifier.NewMatch(ctx, notifications.NewMatchEvent{
			GameID:     gameID,
			GameLink:   gamehost.GameLink(gameID),
			TemplateID: templateID,
			PlayerA:    summarize(pair.A),
			PlayerB:    summarize(pair.B),
			CreatedAt:  match.CreatedAt,
		})
	})

	return nil
}

// notify publishes an event, logging instead of failing: a dropped
// notification never blocks ladder state from advancing.
func (e *Engine) notify(ctx context.Context, kind string, publish func(ctx context.Context) error) {
	if err := publish(ctx); err != nil {
		e.log.Errorf("couldn't publish the %s event: %v", kind, err)
	}
}

func summarize(player *models.LadderPlayer) notifications.PlayerSummary {
	return notifications.PlayerSummary{
		ID:     player.ID,
		Name:   player.Name,
		Elo:    player.Elo,
		Wins:   player.Wins,
		Losses: player.Losses,
		Active: player.Active,
	}
}
