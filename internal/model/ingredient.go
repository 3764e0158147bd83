package model

import "time"

// Ingredient has the same shape and lifecycle as Tag but lives in its own
// namespace: a user may own both a tag and an ingredient called "Ginger".
type Ingredient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"not null;index;uniqueIndex:idx_ingredients_owner_name"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex:idx_ingredients_owner_name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	User    User     `json:"-" gorm:"foreignKey:UserID"`
	Recipes []Recipe `json:"-" gorm:"many2many:recipe_ingredients"`
}
