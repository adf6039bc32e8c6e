package repositories

import (
	"context"
	"errors"
	"fmt"

	"rtladder/pkg/database/models"
	"rtladder/pkg/messages"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultStandingsLimit = 50

// PlayerRepository is the public interface for accessing ladder players.
type PlayerRepository interface {
	GetStandings(ctx context.Context, limit int) ([]*models.LadderPlayer, error)
	GetPlayerByID(ctx context.Context, playerID int64) (*models.LadderPlayer, error)
	GetPlayerByDiscordID(ctx context.Context, discordID int64) (*models.LadderPlayer, error)
	UpsertPlayer(ctx context.Context, player *models.LadderPlayer) error
	SetActivity(ctx context.Context, playerID int64, active bool, singleGame bool) error
}

// playerRepository repository structure.
type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a player repository.
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

// GetStandings returns players ordered by rating, best first.
func (pr *playerRepository) GetStandings(ctx context.Context, limit int) ([]*models.LadderPlayer, error) {
	if limit <= 0 {
		limit = defaultStandingsLimit
	}

	var players []*models.LadderPlayer
	err := pr.db.WithContext(ctx).
		Order("elo DESC").
		Order("wins DESC").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, err
	}

	return players, nil
}

// GetPlayerByID returns a single player by the game host identity.
func (pr *playerRepository) GetPlayerByID(ctx context.Context, playerID int64) (*models.LadderPlayer, error) {
	var player models.LadderPlayer
	if err := pr.db.WithContext(ctx).First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf(messages.PlayerNotFound, playerID)
		}
		return nil, err
	}

	return &player, nil
}

// GetPlayerByDiscordID returns the player linked to the given Discord
// account. Returns nil without error when no link exists.
func (pr *playerRepository) GetPlayerByDiscordID(ctx context.Context, discordID int64) (*models.LadderPlayer, error) {
	var player models.LadderPlayer
	if err := pr.db.WithContext(ctx).First(&player, "discord_id = ?", discordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &player, nil
}

// UpsertPlayer creates the player, or refreshes the link data when the same
// identity links again. Rating and record are never touched on relink.
func (pr *playerRepository) UpsertPlayer(ctx context.Context, player *models.LadderPlayer) error {
	return pr.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "discord_id"}),
	}).Create(player).Error
}

// SetActivity flips the player's ladder participation flags.
func (pr *playerRepository) SetActivity(ctx context.Context, playerID int64, active bool, singleGame bool) error {
	result := pr.db.WithContext(ctx).Model(&models.LadderPlayer{}).
		Where("id = ?", playerID).
		Updates(map[string]interface{}{
			"active":      active,
			"single_game": singleGame,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf(messages.PlayerNotFound, playerID)
	}

	return nil
}
