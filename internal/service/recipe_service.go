package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"recipebox/internal/apperrors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// RecipeInput carries the fields for creating a recipe. Tag and ingredient
// entries are names resolved with get-or-create in the owner's namespace.
type RecipeInput struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Link        string
	Tags        []string
	Ingredients []string
}

// RecipePatch carries a partial update. Nil fields stay untouched; a non-nil
// Tags or Ingredients pointer replaces the full association set, even when it
// points at an empty list.
type RecipePatch struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// RecipeService exposes owner-scoped recipe operations.
type RecipeService interface {
	List(ctx context.Context, ownerID uint, tagIDs, ingredientIDs []uint) ([]model.Recipe, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Recipe, error)
	Create(ctx context.Context, ownerID uint, in RecipeInput) (*model.Recipe, error)
	Update(ctx context.Context, ownerID, id uint, patch RecipePatch) (*model.Recipe, error)
	Delete(ctx context.Context, ownerID, id uint) error
	UploadImage(ctx context.Context, ownerID, id uint, data []byte) (*model.Recipe, error)
}

type recipeService struct {
	recipes  repository.RecipeRepository
	mediaDir string
}

// NewRecipeService builds a RecipeService. Uploaded images are stored under
// mediaDir.
func NewRecipeService(recipes repository.RecipeRepository, mediaDir string) RecipeService {
	return &recipeService{recipes: recipes, mediaDir: mediaDir}
}

func (s *recipeService) List(ctx context.Context, ownerID uint, tagIDs, ingredientIDs []uint) ([]model.Recipe, error) {
	return s.recipes.List(ctx, ownerID, tagIDs, ingredientIDs)
}

func (s *recipeService) Get(ctx context.Context, ownerID, id uint) (*model.Recipe, error) {
	recipe, err := s.recipes.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return recipe, nil
}

func validateRecipeFields(title string, timeMinutes int, price decimal.Decimal) error {
	ve := &apperrors.ValidationError{}
	if strings.TrimSpace(title) == "" {
		ve.Add("title", "title must not be blank")
	}
	if timeMinutes < 0 {
		ve.Add("time_minutes", "time_minutes must not be negative")
	}
	if price.IsNegative() {
		ve.Add("price", "price must not be negative")
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Create persists the recipe and its nested tag/ingredient names in one
// transaction: an invalid nested item rolls back the whole write.
func (s *recipeService) Create(ctx context.Context, ownerID uint, in RecipeInput) (*model.Recipe, error) {
	if err := validateRecipeFields(in.Title, in.TimeMinutes, in.Price); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		UserID:      ownerID,
		Title:       in.Title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Description: in.Description,
		Link:        in.Link,
	}
	err := s.recipes.WithTransaction(ctx, func(ctx context.Context, recipes repository.RecipeRepository, tags repository.TagRepository, ingredients repository.IngredientRepository) error {
		resolvedTags, err := resolveTags(ctx, tags, ownerID, in.Tags)
		if err != nil {
			return err
		}
		resolvedIngredients, err := resolveIngredients(ctx, ingredients, ownerID, in.Ingredients)
		if err != nil {
			return err
		}
		recipe.Tags = resolvedTags
		recipe.Ingredients = resolvedIngredients
		return recipes.Create(ctx, recipe)
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// Update applies a partial or full update. Ownership never changes; a user
// key in the payload has already been discarded by the handler's allowlist.
func (s *recipeService) Update(ctx context.Context, ownerID, id uint, patch RecipePatch) (*model.Recipe, error) {
	var recipe *model.Recipe
	err := s.recipes.WithTransaction(ctx, func(ctx context.Context, recipes repository.RecipeRepository, tags repository.TagRepository, ingredients repository.IngredientRepository) error {
		found, err := recipes.FindByOwnerAndID(ctx, ownerID, id)
		if err != nil {
			return asNotFound(err)
		}
		recipe = found

		if patch.Title != nil {
			recipe.Title = *patch.Title
		}
		if patch.TimeMinutes != nil {
			recipe.TimeMinutes = *patch.TimeMinutes
		}
		if patch.Price != nil {
			recipe.Price = *patch.Price
		}
		if patch.Description != nil {
			recipe.Description = *patch.Description
		}
		if patch.Link != nil {
			recipe.Link = *patch.Link
		}
		if err := validateRecipeFields(recipe.Title, recipe.TimeMinutes, recipe.Price); err != nil {
			return err
		}
		if err := recipes.Save(ctx, recipe); err != nil {
			return err
		}

		if patch.Tags != nil {
			resolved, err := resolveTags(ctx, tags, ownerID, *patch.Tags)
			if err != nil {
				return err
			}
			if err := recipes.ReplaceTags(ctx, recipe, resolved); err != nil {
				return err
			}
		}
		if patch.Ingredients != nil {
			resolved, err := resolveIngredients(ctx, ingredients, ownerID, *patch.Ingredients)
			if err != nil {
				return err
			}
			if err := recipes.ReplaceIngredients(ctx, recipe, resolved); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) Delete(ctx context.Context, ownerID, id uint) error {
	recipe, err := s.recipes.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return asNotFound(err)
	}
	return s.recipes.Delete(ctx, recipe)
}

var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
}

// UploadImage validates the payload as a raster image before anything is
// written, so a rejected upload leaves both disk and recipe untouched. An
// accepted image replaces the previous one.
func (s *recipeService) UploadImage(ctx context.Context, ownerID, id uint, data []byte) (*model.Recipe, error) {
	recipe, err := s.recipes.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, asNotFound(err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewValidationError("image", "upload a valid image")
	}
	ext, ok := imageExtensions[format]
	if !ok {
		return nil, apperrors.NewValidationError("image", "unsupported image format")
	}

	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	filename := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.mediaDir, filename), data, 0o644); err != nil {
		return nil, fmt.Errorf("write image: %w", err)
	}

	previous := recipe.ImagePath
	if err := s.recipes.UpdateImagePath(ctx, recipe, filename); err != nil {
		os.Remove(filepath.Join(s.mediaDir, filename))
		return nil, err
	}
	if previous != "" && previous != filename {
		os.Remove(filepath.Join(s.mediaDir, previous))
	}
	return recipe, nil
}

func resolveTags(ctx context.Context, tags repository.TagRepository, ownerID uint, names []string) ([]model.Tag, error) {
	resolved := make([]model.Tag, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, apperrors.NewValidationError("tags", "tag name must not be blank")
		}
		tag, _, err := tags.GetOrCreate(ctx, ownerID, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *tag)
	}
	return resolved, nil
}

func resolveIngredients(ctx context.Context, ingredients repository.IngredientRepository, ownerID uint, names []string) ([]model.Ingredient, error) {
	resolved := make([]model.Ingredient, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, apperrors.NewValidationError("ingredients", "ingredient name must not be blank")
		}
		ingredient, _, err := ingredients.GetOrCreate(ctx, ownerID, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *ingredient)
	}
	return resolved, nil
}
