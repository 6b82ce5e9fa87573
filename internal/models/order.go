package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the numeric delivery flag carried by an order.
type OrderStatus int

const (
	StatusPending   OrderStatus = 0
	StatusDelivered OrderStatus = 1
)

func (s OrderStatus) String() string {
	if s == StatusDelivered {
		return "delivered"
	}
	return "pending"
}

// OrderItem is a line-item copy taken from the cart at conversion time.
// Immutable after creation.
type OrderItem struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string  `json:"order_id" gorm:"index;type:varchar(36)"`
	MenuItemID string  `json:"menu_item_id" gorm:"type:varchar(36)"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Price      float64 `json:"price"`
	gorm.Model
}

// Order is created only by cart conversion. Total and Date are computed
// at creation and never recomputed; the sum of Items[].Price equals
// Total at that instant.
type Order struct {
	ID             string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string      `json:"user_id" gorm:"index;type:varchar(36)"`
	DeliveryCrewID *string     `json:"delivery_crew_id" gorm:"index;type:varchar(36)"`
	Status         OrderStatus `json:"status"`
	Total          float64     `json:"total"`
	Date           time.Time   `json:"date"`
	Items          []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE;"`
	gorm.Model
}
