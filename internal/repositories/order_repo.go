package repositories

import (
	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
)

// OrderRepository defines the interface for order data access.
// Create takes the *gorm.DB handle so the conversion pipeline can place
// it inside the same transaction that drains the cart. The guarded
// mutations return the number of rows affected so callers can tell a
// missed precondition from a missing row.
type OrderRepository interface {
	Create(db *gorm.DB, order *models.Order) error
	GetByID(id string) (*models.Order, error)
	ListAll() ([]models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	ListByDeliveryCrew(crewID string) ([]models.Order, error)
	// AssignDeliveryCrew sets the crew reference while the order is
	// still pending.
	AssignDeliveryCrew(orderID, crewID string) (int64, error)
	// MarkDelivered flips Pending to Delivered.
	MarkDelivered(orderID string) (int64, error)
	// Delete removes the order together with its order items.
	Delete(orderID string) (int64, error)
}
