package repositories

import "github.com/SZL741023/Restaurant-API/internal/models"

// UserRepository defines the interface for user and group-membership
// data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	ListGroupMembers(group string) ([]models.User, error)
	AddToGroup(userID, group string) error
	RemoveFromGroup(userID, group string) error
	IsInGroup(userID, group string) (bool, error)
}
