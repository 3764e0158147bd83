package model

import "time"

// Tag is a user-owned label attachable to recipes. Names are unique per owner,
// case-sensitive; the owner never changes after creation.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"not null;index;uniqueIndex:idx_tags_owner_name"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex:idx_tags_owner_name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	User    User     `json:"-" gorm:"foreignKey:UserID"`
	Recipes []Recipe `json:"-" gorm:"many2many:recipe_tags"`
}
