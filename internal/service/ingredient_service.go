package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"recipebox/internal/apperrors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// IngredientService mirrors TagService over the ingredient namespace.
type IngredientService interface {
	List(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Ingredient, error)
	Create(ctx context.Context, ownerID uint, name string) (ingredient *model.Ingredient, created bool, err error)
	Update(ctx context.Context, ownerID, id uint, name string) (*model.Ingredient, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type ingredientService struct {
	ingredients repository.IngredientRepository
}

// NewIngredientService builds an IngredientService over the ingredient repository.
func NewIngredientService(ingredients repository.IngredientRepository) IngredientService {
	return &ingredientService{ingredients: ingredients}
}

func (s *ingredientService) List(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Ingredient, error) {
	return s.ingredients.ListByOwner(ctx, ownerID, assignedOnly)
}

func (s *ingredientService) Create(ctx context.Context, ownerID uint, name string) (*model.Ingredient, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, apperrors.NewValidationError("name", "name must not be blank")
	}
	return s.ingredients.GetOrCreate(ctx, ownerID, name)
}

func (s *ingredientService) Update(ctx context.Context, ownerID, id uint, name string) (*model.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name", "name must not be blank")
	}
	ingredient, err := s.ingredients.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	ingredient.Name = name
	if err := s.ingredients.Update(ctx, ingredient); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewValidationError("name", "ingredient with this name already exists")
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *ingredientService) Delete(ctx context.Context, ownerID, id uint) error {
	ingredient, err := s.ingredients.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return asNotFound(err)
	}
	return s.ingredients.Delete(ctx, ingredient)
}
