package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct{}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository() *GORMCartRepository {
	return &GORMCartRepository{}
}

// ListByUser returns all cart lines owned by the given user.
func (r *GORMCartRepository) ListByUser(db *gorm.DB, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := db.Where("user_id = ?", userID).Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart lines for user %s: %w", userID, err)
	}
	return lines, nil
}

// Insert appends a new cart line. Duplicate (user, menu item) pairs are
// allowed as separate lines.
func (r *GORMCartRepository) Insert(db *gorm.DB, line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := db.Create(line).Error; err != nil {
		return fmt.Errorf("failed to insert cart line: %w", err)
	}
	return nil
}

// Clear deletes all of the user's cart lines and returns the number of
// lines removed. Clearing an empty cart succeeds with zero.
func (r *GORMCartRepository) Clear(db *gorm.DB, userID string) (int64, error) {
	result := db.Where("user_id = ?", userID).Delete(&models.CartLine{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear cart for user %s: %w", userID, result.Error)
	}
	return result.RowsAffected, nil
}
