package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTagRepository is a mock implementation of repository.TagRepository.
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Tag, error) {
	args := m.Called(ctx, ownerID, assignedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Tag, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepository) GetOrCreate(ctx context.Context, ownerID uint, name string) (*model.Tag, bool, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Tag), args.Bool(1), args.Error(2)
}

func (m *MockTagRepository) Update(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// MockIngredientRepository is a mock implementation of repository.IngredientRepository.
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) ListByOwner(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Ingredient, error) {
	args := m.Called(ctx, ownerID, assignedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Ingredient, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetOrCreate(ctx context.Context, ownerID uint, name string) (*model.Ingredient, bool, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Ingredient), args.Bool(1), args.Error(2)
}

func (m *MockIngredientRepository) Update(ctx context.Context, ingredient *model.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockIngredientRepository) Delete(ctx context.Context, ingredient *model.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

// MockRecipeRepository is a mock implementation of repository.RecipeRepository.
// WithTransaction runs the callback against the mock itself plus the attached
// tag/ingredient mocks, so transactional flows are exercised inline.
type MockRecipeRepository struct {
	mock.Mock
	TagsTx        *MockTagRepository
	IngredientsTx *MockIngredientRepository
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Save(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Recipe, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, ownerID uint, tagIDs, ingredientIDs []uint) ([]model.Recipe, error) {
	args := m.Called(ctx, ownerID, tagIDs, ingredientIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) ReplaceTags(ctx context.Context, recipe *model.Recipe, tags []model.Tag) error {
	args := m.Called(ctx, recipe, tags)
	if args.Error(0) == nil {
		recipe.Tags = tags
	}
	return args.Error(0)
}

func (m *MockRecipeRepository) ReplaceIngredients(ctx context.Context, recipe *model.Recipe, ingredients []model.Ingredient) error {
	args := m.Called(ctx, recipe, ingredients)
	if args.Error(0) == nil {
		recipe.Ingredients = ingredients
	}
	return args.Error(0)
}

func (m *MockRecipeRepository) UpdateImagePath(ctx context.Context, recipe *model.Recipe, path string) error {
	args := m.Called(ctx, recipe, path)
	if args.Error(0) == nil {
		recipe.ImagePath = path
	}
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, recipes repository.RecipeRepository, tags repository.TagRepository, ingredients repository.IngredientRepository) error) error {
	return fn(ctx, m, m.TagsTx, m.IngredientsTx)
}
