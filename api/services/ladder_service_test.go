package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rtladder/api/dto"
	"rtladder/engine/gamehost"
	"rtladder/engine/ladder"
	"rtladder/pkg/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetStandings(ctx context.Context, limit int) ([]*models.LadderPlayer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LadderPlayer), args.Error(1)
}

func (m *MockPlayerRepository) GetPlayerByID(ctx context.Context, playerID int64) (*models.LadderPlayer, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LadderPlayer), args.Error(1)
}

func (m *MockPlayerRepository) GetPlayerByDiscordID(ctx context.Context, discordID int64) (*models.LadderPlayer, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LadderPlayer), args.Error(1)
}

func (m *MockPlayerRepository) UpsertPlayer(ctx context.Context, player *models.LadderPlayer) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) SetActivity(ctx context.Context, playerID int64, active bool, singleGame bool) error {
	args := m.Called(ctx, playerID, active, singleGame)
	return args.Error(0)
}

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) GetRecentMatches(ctx context.Context, limit int) ([]*models.LadderMatch, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LadderMatch), args.Error(1)
}

type MockGameHost struct {
	mock.Mock
}

func (m *MockGameHost) QueryGame(ctx context.Context, gameID int64) (*gamehost.Game, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gamehost.Game), args.Error(1)
}

func (m *MockGameHost) CreateGame(ctx context.Context, players []gamehost.NewGamePlayer, templateID int64, name string, description string) (int64, error) {
	args := m.Called(ctx, players, templateID, name, description)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGameHost) DeleteGame(ctx context.Context, gameID int64) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

func (m *MockGameHost) ValidateInviteToken(ctx context.Context, token string, templateIDs []int64) (*gamehost.TokenValidation, error) {
	args := m.Called(ctx, token, templateIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gamehost.TokenValidation), args.Error(1)
}

type MockLadderRedisClient struct {
	mock.Mock
}

func (m *MockLadderRedisClient) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockLadderRedisClient) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func setupTestService() (*LadderService, *MockPlayerRepository, *MockMatchRepository, *MockGameHost, *MockLadderRedisClient) {
	mockPlayers := new(MockPlayerRepository)
	mockMatches := new(MockMatchRepository)
	mockHost := new(MockGameHost)
	mockRedis := new(MockLadderRedisClient)

	service := NewLadderService(&LadderServiceDeps{
		DB:        new(gorm.DB),
		GameHost:  mockHost,
		Redis:     mockRedis,
		Templates: []int64{1234, 5678},
	})
	service.PlayerRepository = mockPlayers
	service.MatchRepository = mockMatches

	return service, mockPlayers, mockMatches, mockHost, mockRedis
}

// Simple test for asserting that everything is fine with the service creation.
func TestNewLadderService(t *testing.T) {
	service, _, _, _, _ := setupTestService()
	assert.NotNil(t, service)
	assert.NotNil(t, service.PlayerRepository)
	assert.NotNil(t, service.MatchRepository)
}

// The standings come ranked from the repository on a cache miss and the
// result gets cached.
func TestGetStandings(t *testing.T) {
	service, mockPlayers, _, _, mockRedis := setupTestService()
	ctx := context.Background()

	mockRedis.On("Get", mock.Anything, "standings:limit_2").Return("", errors.New("redis: nil"))
	mockRedis.On("Set", mock.Anything, "standings:limit_2", mock.Anything, time.Minute).Return(nil)
	mockPlayers.On("GetStandings", ctx, 2).Return([]*models.LadderPlayer{
		{ID: 1, Name: "Alice", Elo: 1530, Wins: 3, Losses: 1, Active: true},
		{ID: 2, Name: "Bob", Elo: 1470, Wins: 1, Losses: 3, Active: true},
	}, nil)

	standings, err := service.GetStandings(ctx, 2)

	assert.NoError(t, err)
	assert.Equal(t, []dto.StandingsEntry{
		{Rank: 1, ID: 1, Name: "Alice", Elo: 1530, Wins: 3, Losses: 1, Active: true},
		{Rank: 2, ID: 2, Name: "Bob", Elo: 1470, Wins: 1, Losses: 3, Active: true},
	}, standings)
	mockRedis.AssertExpectations(t)
}

// A cache hit never touches the repository.
func TestGetStandingsCached(t *testing.T) {
	service, mockPlayers, _, _, mockRedis := setupTestService()

	cached := `[{"rank":1,"id":1,"name":"Alice","elo":1530,"wins":3,"losses":1,"active":true}]`
	mockRedis.On("Get", mock.Anything, "standings:limit_50").Return(cached, nil)

	standings, err := service.GetStandings(context.Background(), 50)

	assert.NoError(t, err)
	assert.Len(t, standings, 1)
	assert.Equal(t, "Alice", standings[0].Name)
	mockPlayers.AssertNotCalled(t, "GetStandings", mock.Anything, mock.Anything)
}

func TestGetStandingsRepositoryError(t *testing.T) {
	service, mockPlayers, _, _, mockRedis := setupTestService()
	ctx := context.Background()

	mockRedis.On("Get", mock.Anything, mock.Anything).Return("", errors.New("redis: nil"))
	mockPlayers.On("GetStandings", ctx, 50).Return(nil, errors.New("database error"))

	standings, err := service.GetStandings(ctx, 50)

	assert.Error(t, err)
	assert.Nil(t, standings)
}

// Decided games map onto the feed with winner and loser resolved.
func TestGetRecentGames(t *testing.T) {
	service, _, mockMatches, _, mockRedis := setupTestService()
	ctx := context.Background()

	endedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	winnerID := int64(2)
	mockRedis.On("Get", mock.Anything, "recent_games:limit_10").Return("", errors.New("redis: nil"))
	mockRedis.On("Set", mock.Anything, "recent_games:limit_10", mock.Anything, time.Minute).Return(nil)
	mockMatches.On("GetRecentMatches", ctx, 10).Return([]*models.LadderMatch{
		{
			ID:         9000,
			TemplateID: 1234,
			PlayerAID:  1,
			PlayerBID:  2,
			PlayerA:    models.LadderPlayer{ID: 1, Name: "Alice"},
			PlayerB:    models.LadderPlayer{ID: 2, Name: "Bob"},
			WinnerID:   &winnerID,
			Winner:     &models.LadderPlayer{ID: 2, Name: "Bob"},
			EndedAt:    &endedAt,
		},
	}, nil)

	games, err := service.GetRecentGames(ctx, 10)

	assert.NoError(t, err)
	assert.Len(t, games, 1)
	assert.Equal(t, "Bob", games[0].Winner)
	assert.Equal(t, "Alice", games[0].Loser)
	assert.Equal(t, gamehost.GameLink(9000), games[0].Link)
}

// Linking validates the token first and persists at the starting rating.
func TestLinkPlayer(t *testing.T) {
	tests := []struct {
		name          string
		validation    *gamehost.TokenValidation
		hostError     error
		expectedError error
	}{
		{
			name: "linked",
			validation: &gamehost.TokenValidation{
				Allowed:         true,
				HasAllTemplates: true,
				TemplateAccess:  map[int64]bool{1234: true, 5678: true},
			},
		},
		{
			name:          "blacklisted",
			validation:    &gamehost.TokenValidation{Allowed: false},
			expectedError: ErrPlayerBlacklisted,
		},
		{
			name: "missing template access",
			validation: &gamehost.TokenValidation{
				Allowed:         true,
				HasAllTemplates: false,
				TemplateAccess:  map[int64]bool{1234: true, 5678: false},
			},
			expectedError: ErrMissingTemplateAccess,
		},
		{
			name:          "host unavailable",
			hostError:     errors.New("request failed"),
			expectedError: errors.New("couldn't validate the player"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockPlayers, _, mockHost, _ := setupTestService()
			ctx := context.Background()

			if tt.hostError != nil {
				mockHost.On("ValidateInviteToken", ctx, "42", []int64{1234, 5678}).Return(nil, tt.hostError)
			} else {
				mockHost.On("ValidateInviteToken", ctx, "42", []int64{1234, 5678}).Return(tt.validation, nil)
			}
			mockPlayers.On("UpsertPlayer", ctx, mock.AnythingOfType("*models.LadderPlayer")).Return(nil)

			player, err := service.LinkPlayer(ctx, 99000, 42, "Alice")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, player)
				mockPlayers.AssertNotCalled(t, "UpsertPlayer", mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, int64(42), player.ID)
			assert.Equal(t, int64(99000), player.DiscordID)
			assert.Equal(t, ladder.StartingRating, player.Elo)
			mockPlayers.AssertExpectations(t)
		})
	}
}

// Activity changes go through the discord link.
func TestSetActivity(t *testing.T) {
	service, mockPlayers, _, _, _ := setupTestService()
	ctx := context.Background()

	mockPlayers.On("GetPlayerByDiscordID", ctx, int64(99000)).Return(
		&models.LadderPlayer{ID: 42, Name: "Alice", DiscordID: 99000}, nil)
	mockPlayers.On("SetActivity", ctx, int64(42), true, true).Return(nil)

	player, err := service.SetActivity(ctx, 99000, true, true)

	assert.NoError(t, err)
	assert.True(t, player.Active)
	assert.True(t, player.SingleGame)
	mockPlayers.AssertExpectations(t)
}

// An unlinked discord account resolves to no player, not an error.
func TestSetActivityUnlinked(t *testing.T) {
	service, mockPlayers, _, _, _ := setupTestService()
	ctx := context.Background()

	mockPlayers.On("GetPlayerByDiscordID", ctx, int64(12345)).Return(nil, nil)

	player, err := service.SetActivity(ctx, 12345, false, false)

	assert.NoError(t, err)
	assert.Nil(t, player)
	mockPlayers.AssertNotCalled(t, "SetActivity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
