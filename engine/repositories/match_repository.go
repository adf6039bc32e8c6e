package repositories

import (
	"context"
	"errors"

	"rtladder/pkg/database/models"

	"gorm.io/gorm"
)

// ErrMatchAlreadyEnded is returned when a finish write hits a match that some
// earlier write already decided. The ended state is set exactly once.
var ErrMatchAlreadyEnded = errors.New("match already ended")

// MatchRepository is what the engine needs from match storage.
type MatchRepository interface {
	GetOpenMatches(ctx context.Context) ([]*models.LadderMatch, error)
	CreateMatch(ctx context.Context, match *models.LadderMatch) error
	FinishMatch(ctx context.Context, match *models.LadderMatch, winner *models.LadderPlayer, loser *models.LadderPlayer) error
}

// matchRepository repository structure.
type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a match repository.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// GetOpenMatches returns every match without a result yet, with both players
// loaded.
func (mr *matchRepository) GetOpenMatches(ctx context.Context) ([]*models.LadderMatch, error) {
	var matches []*models.LadderMatch
	err := mr.db.WithContext(ctx).
		Preload("PlayerA").
		Preload("PlayerB").
		Where("ended_at IS NULL").
		Order("created_at ASC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	return matches, nil
}

// CreateMatch persists a freshly created game and marks both players as
// occupied, in one transaction. The match must already carry the remote game
// ID the host confirmed.
func (mr *matchRepository) CreateMatch(ctx context.Context, match *models.LadderMatch) error {
	return mr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("PlayerA", "PlayerB", "Winner").Create(match).Error; err != nil {
			return err
		}

		return tx.Model(&models.LadderPlayer{}).
			Where("id IN ?", []int64{match.PlayerAID, match.PlayerBID}).
			Update("in_game", true).Error
	})
}

// FinishMatch writes the decided match and both updated players in one
// transaction. The ended_at guard keeps a match from being decided twice.
func (mr *matchRepository) FinishMatch(ctx context.Context, match *models.LadderMatch, winner *models.LadderPlayer, loser *models.LadderPlayer) error {
	return mr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LadderMatch{}).
			Where("id = ? AND ended_at IS NULL", match.ID).
			Updates(map[string]interface{}{
				"ended_at":  match.EndedAt,
				"winner_id": match.WinnerID,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrMatchAlreadyEnded
		}

		for _, player := range []*models.LadderPlayer{winner, loser} {
			err := tx.Model(&models.LadderPlayer{}).
				Where("id = ?", player.ID).
				Updates(map[string]interface{}{
					"elo":     player.Elo,
					"wins":    player.Wins,
					"losses":  player.Losses,
					"active":  player.Active,
					"in_game": player.InGame,
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}
