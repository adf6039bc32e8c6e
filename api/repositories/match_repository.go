package repositories

import (
	"context"

	"rtladder/pkg/database/models"

	"gorm.io/gorm"
)

const defaultRecentLimit = 10

// MatchRepository is the public interface for reading ladder matches.
type MatchRepository interface {
	GetRecentMatches(ctx context.Context, limit int) ([]*models.LadderMatch, error)
}

// matchRepository repository structure.
type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a match repository.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// GetRecentMatches returns the latest decided matches, newest first, with
// both players and the winner loaded.
func (mr *matchRepository) GetRecentMatches(ctx context.Context, limit int) ([]*models.LadderMatch, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var matches []*models.LadderMatch
	err := mr.db.WithContext(ctx).
		Preload("PlayerA").
		Preload("PlayerB").
		Preload("Winner").
		Where("ended_at IS NOT NULL").
		Order("ended_at DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	return matches, nil
}
