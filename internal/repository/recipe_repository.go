package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebox/internal/model"
)

// RecipeRepository defines owner-scoped recipe persistence operations.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	Save(ctx context.Context, recipe *model.Recipe) error
	FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Recipe, error)
	List(ctx context.Context, ownerID uint, tagIDs, ingredientIDs []uint) ([]model.Recipe, error)
	ReplaceTags(ctx context.Context, recipe *model.Recipe, tags []model.Tag) error
	ReplaceIngredients(ctx context.Context, recipe *model.Recipe, ingredients []model.Ingredient) error
	UpdateImagePath(ctx context.Context, recipe *model.Recipe, path string) error
	Delete(ctx context.Context, recipe *model.Recipe) error
	// WithTransaction runs fn with transaction-bound repositories so that
	// nested get-or-create plus recipe writes commit or roll back as one unit.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, recipes RecipeRepository, tags TagRepository, ingredients IngredientRepository) error) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a GORM-backed recipe repository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// Save persists scalar fields only; associations are managed explicitly via
// ReplaceTags / ReplaceIngredients.
func (r *recipeRepository) Save(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(recipe).Error
}

func (r *recipeRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Tags").Preload("Ingredients").
		Where("user_id = ? AND id = ?", ownerID, id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns the owner's recipes, optionally narrowed to those associated
// with at least one of the given tag ids and at least one of the given
// ingredient ids. Results are distinct, newest first.
func (r *recipeRepository) List(ctx context.Context, ownerID uint, tagIDs, ingredientIDs []uint) ([]model.Recipe, error) {
	q := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("recipes.user_id = ?", ownerID)
	if len(tagIDs) > 0 {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", tagIDs)
	}
	if len(ingredientIDs) > 0 {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", ingredientIDs)
	}
	var recipes []model.Recipe
	if err := q.Distinct("recipes.*").Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ReplaceTags swaps the recipe's full tag set; an empty slice clears it.
func (r *recipeRepository) ReplaceTags(ctx context.Context, recipe *model.Recipe, tags []model.Tag) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Tags").Replace(tags); err != nil {
		return err
	}
	recipe.Tags = tags
	return nil
}

// ReplaceIngredients swaps the recipe's full ingredient set; an empty slice clears it.
func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipe *model.Recipe, ingredients []model.Ingredient) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
		return err
	}
	recipe.Ingredients = ingredients
	return nil
}

func (r *recipeRepository) UpdateImagePath(ctx context.Context, recipe *model.Recipe, path string) error {
	if err := r.db.WithContext(ctx).Model(recipe).Update("image_path", path).Error; err != nil {
		return err
	}
	recipe.ImagePath = path
	return nil
}

// Delete removes the recipe and its association rows.
func (r *recipeRepository) Delete(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

func (r *recipeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, recipes RecipeRepository, tags TagRepository, ingredients IngredientRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &recipeRepository{db: tx}, &tagRepository{db: tx}, &ingredientRepository{db: tx})
	})
}
