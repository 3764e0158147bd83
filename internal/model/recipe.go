package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is the central user-owned entity. Tag and ingredient associations may
// only reference entities owned by the same user; that invariant is enforced by
// the repository layer, which scopes every lookup by owner.
type Recipe struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"-" gorm:"not null;index"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	TimeMinutes int             `json:"time_minutes" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(5,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Link        string          `json:"link" gorm:"size:255"`
	ImagePath   string          `json:"-" gorm:"size:255"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`

	// Relations
	User        User         `json:"-" gorm:"foreignKey:UserID"`
	Tags        []Tag        `json:"tags" gorm:"many2many:recipe_tags"`
	Ingredients []Ingredient `json:"ingredients" gorm:"many2many:recipe_ingredients"`
}

// String returns the recipe title.
func (r Recipe) String() string {
	return r.Title
}
