package models

import "gorm.io/gorm"

// Category is a labeled grouping for menu items.
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug       string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	Title      string `json:"title" validate:"required,min=2,max=100"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// MenuItem represents a dish on the menu.
// Price changes here never touch cart lines or orders already written;
// both keep the unit price captured at the time they were created.
type MenuItem struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title      string   `json:"title" validate:"required,min=2,max=255"`
	Price      float64  `json:"price" validate:"required,gt=0"`
	Featured   bool     `json:"featured"`
	CategoryID string   `json:"category_id" gorm:"type:varchar(36)" validate:"required"`
	Category   Category `json:"category" validate:"-"`
	gorm.Model
}
