package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order and its line items in one write. The caller
// supplies the handle, normally a transaction shared with the cart
// drain.
func (r *GORMOrderRepository) Create(db *gorm.DB, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListAll returns every order.
func (r *GORMOrderRepository) ListAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListByUser returns orders owned by the given user.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// ListByDeliveryCrew returns orders assigned to the given crew member.
func (r *GORMOrderRepository) ListByDeliveryCrew(crewID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("delivery_crew_id = ?", crewID).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for delivery crew %s: %w", crewID, err)
	}
	return orders, nil
}

// AssignDeliveryCrew sets the crew reference, guarded on the order still
// being pending. Zero rows affected means the order is missing or
// already delivered.
func (r *GORMOrderRepository) AssignDeliveryCrew(orderID, crewID string) (int64, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.StatusPending).
		Update("delivery_crew_id", crewID)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to assign delivery crew to order %s: %w", orderID, res.Error)
	}
	return res.RowsAffected, nil
}

// MarkDelivered flips Pending to Delivered. Zero rows affected means the
// order is missing or the flag was already set.
func (r *GORMOrderRepository) MarkDelivered(orderID string) (int64, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.StatusPending).
		Update("status", models.StatusDelivered)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark order %s delivered: %w", orderID, res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes the order and its items inside one transaction.
func (r *GORMOrderRepository) Delete(orderID string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, "id = ?", orderID)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}
	return affected, nil
}
