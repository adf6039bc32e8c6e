package repositories

import (
	"context"

	"rtladder/pkg/database/models"

	"gorm.io/gorm"
)

// PlayerRepository is what the engine needs from player storage.
type PlayerRepository interface {
	GetEligiblePlayers(ctx context.Context) ([]*models.LadderPlayer, error)
}

// playerRepository repository structure.
type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a player repository.
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

// GetEligiblePlayers returns every player that is seeking a game and not
// currently occupied by one. Only these are ever considered for pairing.
func (pr *playerRepository) GetEligiblePlayers(ctx context.Context) ([]*models.LadderPlayer, error) {
	var players []*models.LadderPlayer
	err := pr.db.WithContext(ctx).
		Where("active = ? AND in_game = ?", true, false).
		Find(&players).Error
	if err != nil {
		return nil, err
	}

	return players, nil
}
