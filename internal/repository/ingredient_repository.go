package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recipebox/internal/model"
)

// IngredientRepository mirrors TagRepository over the ingredient namespace.
type IngredientRepository interface {
	ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Ingredient, error)
	FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Ingredient, error)
	GetOrCreate(ctx context.Context, ownerID uint, name string) (ingredient *model.Ingredient, created bool, err error)
	Update(ctx context.Context, ingredient *model.Ingredient) error
	Delete(ctx context.Context, ingredient *model.Ingredient) error
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a GORM-backed ingredient repository.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&model.Ingredient{}).Where("ingredients.user_id = ?", ownerID)
	if assignedOnly {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
			Distinct("ingredients.*")
	}
	var ingredients []model.Ingredient
	if err := q.Order("ingredients.name DESC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// GetOrCreate looks up an exact (owner, name) match and inserts only when
// absent. A lost race on the unique index falls back to re-reading the winner.
func (r *ingredientRepository) GetOrCreate(ctx context.Context, ownerID uint, name string) (*model.Ingredient, bool, error) {
	var ingredient model.Ingredient
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", ownerID, name).First(&ingredient).Error
	if err == nil {
		return &ingredient, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	ingredient = model.Ingredient{UserID: ownerID, Name: name}
	if err := r.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing model.Ingredient
			if lookupErr := r.db.WithContext(ctx).
				Where("user_id = ? AND name = ?", ownerID, name).First(&existing).Error; lookupErr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return &ingredient, true, nil
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *model.Ingredient) error {
	return r.db.WithContext(ctx).Save(ingredient).Error
}

// Delete removes the ingredient and detaches it from every recipe referencing it.
func (r *ingredientRepository) Delete(ctx context.Context, ingredient *model.Ingredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(ingredient).Association("Recipes").Clear(); err != nil {
			return err
		}
		return tx.Delete(ingredient).Error
	})
}
