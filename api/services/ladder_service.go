package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rtladder/api/dto"
	"rtladder/api/repositories"
	"rtladder/engine/gamehost"
	"rtladder/engine/ladder"
	"rtladder/pkg/database/models"

	"gorm.io/gorm"
)

const (
	standingsCacheDuration = time.Minute
	recentCacheDuration    = time.Minute
)

var (
	// ErrPlayerBlacklisted means the game host refused the invite token,
	// usually because the player blocked the ladder's host account.
	ErrPlayerBlacklisted = errors.New("player can't be invited by the ladder host")

	// ErrMissingTemplateAccess means the player can't play every ladder
	// template and therefore can't be paired fairly.
	ErrMissingTemplateAccess = errors.New("player lacks access to the ladder templates")
)

// LadderRedisClient is the slice of the redis client the service needs.
type LadderRedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// LadderService serves the read surface of the ladder plus the endpoints
// through which the Discord collaborator mutates player participation.
type LadderService struct {
	db               *gorm.DB
	gamehost         gamehost.API
	redis            LadderRedisClient
	templates        []int64
	PlayerRepository repositories.PlayerRepository
	MatchRepository  repositories.MatchRepository
}

// LadderServiceDeps is the dependency list for the ladder service.
type LadderServiceDeps struct {
	DB        *gorm.DB
	GameHost  gamehost.API
	Redis     LadderRedisClient
	Templates []int64
}

// NewLadderService creates a ladder service.
func NewLadderService(deps *LadderServiceDeps) *LadderService {
	return &LadderService{
		db:               deps.DB,
		gamehost:         deps.GameHost,
		redis:            deps.Redis,
		templates:        deps.Templates,
		PlayerRepository: repositories.NewPlayerRepository(deps.DB),
		MatchRepository:  repositories.NewMatchRepository(deps.DB),
	}
}

// GetStandings returns the ranked players, cached for a short window.
func (ls *LadderService) GetStandings(ctx context.Context, limit int) ([]dto.StandingsEntry, error) {
	key := "standings:limit_" + strconv.Itoa(limit)

	var cached []dto.StandingsEntry
	if ls.getFromRedis(key, &cached) {
		return cached, nil
	}

	players, err := ls.PlayerRepository.GetStandings(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := dto.StandingsFromPlayers(players)
	ls.setOnRedis(key, entries, standingsCacheDuration)

	return entries, nil
}

// GetRecentGames returns the latest decided games, cached for a short window.
func (ls *LadderService) GetRecentGames(ctx context.Context, limit int) ([]dto.RecentGame, error) {
	key := "recent_games:limit_" + strconv.Itoa(limit)

	var cached []dto.RecentGame
	if ls.getFromRedis(key, &cached) {
		return cached, nil
	}

	matches, err := ls.MatchRepository.GetRecentMatches(ctx, limit)
	if err != nil {
		return nil, err
	}

	games := dto.RecentGamesFromMatches(matches, gamehost.GameLink)
	ls.setOnRedis(key, games, recentCacheDuration)

	return games, nil
}

// LinkPlayer records the (discord account, game host player) association the
// external token exchange produced. The invite token is validated against the
// host before anything is persisted: a blacklisted player or one without
// template access can never become pairable.
func (ls *LadderService) LinkPlayer(ctx context.Context, discordID int64, playerID int64, name string) (*models.LadderPlayer, error) {
	validation, err := ls.gamehost.ValidateInviteToken(ctx, strconv.FormatInt(playerID, 10), ls.templates)
	if err != nil {
		return nil, fmt.Errorf("couldn't validate the player %d: %v", playerID, err)
	}

	if !validation.Allowed {
		return nil, ErrPlayerBlacklisted
	}

	if !validation.HasAllTemplates {
		return nil, ErrMissingTemplateAccess
	}

	player := &models.LadderPlayer{
		ID:        playerID,
		Name:      name,
		DiscordID: discordID,
		Elo:       ladder.StartingRating,
	}

	if err := ls.PlayerRepository.UpsertPlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("couldn't persist the link for player %d: %v", playerID, err)
	}

	return player, nil
}

// SetActivity joins a player to, or removes a player from, the active pool.
func (ls *LadderService) SetActivity(ctx context.Context, discordID int64, active bool, singleGame bool) (*models.LadderPlayer, error) {
	player, err := ls.PlayerRepository.GetPlayerByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}

	if player == nil {
		return nil, nil
	}

	if err := ls.PlayerRepository.SetActivity(ctx, player.ID, active, singleGame); err != nil {
		return nil, err
	}

	player.Active = active
	player.SingleGame = singleGame
	return player, nil
}

// getFromRedis loads a cached value, best effort.
func (ls *LadderService) getFromRedis(key string, out any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cached, err := ls.redis.Get(ctx, key)
	if err != nil || cached == "" {
		return false
	}

	return json.Unmarshal([]byte(cached), out) == nil
}

// setOnRedis stores a cache value, best effort.
func (ls *LadderService) setOnRedis(key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	ls.redis.Set(ctx, key, payload, ttl)
}
