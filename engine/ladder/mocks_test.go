package ladder

import (
	"context"
	"testing"

	"rtladder/engine/gamehost"
	"rtladder/engine/notifications"
	"rtladder/pkg/database/models"
	"rtladder/pkg/logger"

	"github.com/stretchr/testify/mock"
)

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

type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetEligiblePlayers(ctx context.Context) ([]*models.LadderPlayer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LadderPlayer), args.Error(1)
}

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) GetOpenMatches(ctx context.Context) ([]*models.LadderMatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LadderMatch), args.Error(1)
}

func (m *MockMatchRepository) CreateMatch(ctx context.Context, match *models.LadderMatch) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) FinishMatch(ctx context.Context, match *models.LadderMatch, winner *models.LadderPlayer, loser *models.LadderPlayer) error {
	args := m.Called(ctx, match, winner, loser)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) MatchFinished(ctx context.Context, event notifications.MatchFinishedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) NewMatch(ctx context.Context, event notifications.NewMatchEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) RosterChanged(ctx context.Context, event notifications.RosterChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.CreateLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(log.CleanFile)

	return log
}
