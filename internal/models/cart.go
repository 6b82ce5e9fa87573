package models

import "gorm.io/gorm"

// CartLine is one pending line item in a user's cart. UnitPrice is a
// snapshot of the menu price taken when the line was added; Price is
// Quantity * UnitPrice computed at the same moment. Re-adding the same
// menu item appends another line rather than merging quantities.
type CartLine struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string  `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	MenuItemID string  `json:"menu_item_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,min=1"`
	UnitPrice  float64 `json:"unit_price"`
	Price      float64 `json:"price"`
	gorm.Model
}
