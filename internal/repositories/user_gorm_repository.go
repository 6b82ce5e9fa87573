package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user with their groups by username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Groups").First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with username %s: %w", username, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user with their groups by email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Groups").First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s: %w", email, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user with their groups by ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Groups").First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// ListGroupMembers returns every user belonging to the named group.
func (r *GORMUserRepository) ListGroupMembers(group string) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Joins("JOIN groups ON groups.id = user_groups.group_id").
		Where("groups.name = ?", group).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members of group %s: %w", group, err)
	}
	return users, nil
}

// AddToGroup adds the user to the named group. Adding an existing
// member is a no-op.
func (r *GORMUserRepository) AddToGroup(userID, group string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	var g models.Group
	if err := r.db.First(&g, "name = ?", group).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("group %s: %w", group, gorm.ErrRecordNotFound)
		}
		return fmt.Errorf("failed to get group %s: %w", group, err)
	}
	for _, existing := range user.Groups {
		if existing.Name == group {
			return nil
		}
	}
	if err := r.db.Model(user).Association("Groups").Append(&g); err != nil {
		return fmt.Errorf("failed to add user %s to group %s: %w", userID, group, err)
	}
	return nil
}

// RemoveFromGroup removes the user from the named group.
func (r *GORMUserRepository) RemoveFromGroup(userID, group string) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	var g models.Group
	if err := r.db.First(&g, "name = ?", group).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("group %s: %w", group, gorm.ErrRecordNotFound)
		}
		return fmt.Errorf("failed to get group %s: %w", group, err)
	}
	if err := r.db.Model(user).Association("Groups").Delete(&g); err != nil {
		return fmt.Errorf("failed to remove user %s from group %s: %w", userID, group, err)
	}
	return nil
}

// IsInGroup reports whether the user belongs to the named group.
func (r *GORMUserRepository) IsInGroup(userID, group string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Joins("JOIN groups ON groups.id = user_groups.group_id").
		Where("users.id = ? AND groups.name = ?", userID, group).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check group membership for user %s: %w", userID, err)
	}
	return count > 0, nil
}
