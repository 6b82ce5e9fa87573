package models

import "gorm.io/gorm"

// Group is a named role group ("Manager", "Delivery Crew").
type Group struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	gorm.Model
}

// User represents an account. Role is derived from group membership:
// no groups means Customer.
type User struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string  `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string  `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string  `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	IsSuperuser bool    `json:"-"`
	Groups      []Group `json:"-" gorm:"many2many:user_groups;"`
	gorm.Model  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// GroupNames flattens the loaded group memberships.
func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}
