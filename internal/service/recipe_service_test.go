package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"recipebox/internal/apperrors"
	"recipebox/internal/model"
)

func newRecipeMocks() (*MockRecipeRepository, *MockTagRepository, *MockIngredientRepository) {
	tags := new(MockTagRepository)
	ingredients := new(MockIngredientRepository)
	recipes := &MockRecipeRepository{TagsTx: tags, IngredientsTx: ingredients}
	return recipes, tags, ingredients
}

func TestRecipeService_Create(t *testing.T) {
	t.Run("nested tag names resolved per owner", func(t *testing.T) {
		recipes, tags, _ := newRecipeMocks()
		tags.On("GetOrCreate", mock.Anything, uint(1), "Thai").
			Return(&model.Tag{ID: 10, UserID: 1, Name: "Thai"}, true, nil)
		tags.On("GetOrCreate", mock.Anything, uint(1), "Dinner").
			Return(&model.Tag{ID: 11, UserID: 1, Name: "Dinner"}, true, nil)
		recipes.On("Create", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)

		svc := NewRecipeService(recipes, t.TempDir())
		recipe, err := svc.Create(context.Background(), 1, RecipeInput{
			Title:       "Pad Thai",
			TimeMinutes: 30,
			Price:       decimal.NewFromFloat(5.50),
			Tags:        []string{"Thai", "Dinner"},
		})

		assert.NoError(t, err)
		assert.Len(t, recipe.Tags, 2)
		for _, tag := range recipe.Tags {
			assert.Equal(t, uint(1), tag.UserID)
		}
		assert.Equal(t, uint(1), recipe.UserID)
		recipes.AssertExpectations(t)
		tags.AssertExpectations(t)
	})

	t.Run("existing tag reused, no duplicate row", func(t *testing.T) {
		recipes, tags, _ := newRecipeMocks()
		tags.On("GetOrCreate", mock.Anything, uint(1), "Thai").
			Return(&model.Tag{ID: 10, UserID: 1, Name: "Thai"}, false, nil)
		recipes.On("Create", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)

		svc := NewRecipeService(recipes, t.TempDir())
		recipe, err := svc.Create(context.Background(), 1, RecipeInput{
			Title:       "Green Curry",
			TimeMinutes: 25,
			Price:       decimal.NewFromFloat(4.25),
			Tags:        []string{"Thai"},
		})

		assert.NoError(t, err)
		assert.Equal(t, uint(10), recipe.Tags[0].ID)
	})

	t.Run("invalid fields rejected before any write", func(t *testing.T) {
		tests := []struct {
			name  string
			input RecipeInput
			field string
		}{
			{"blank title", RecipeInput{Title: " ", TimeMinutes: 5, Price: decimal.NewFromInt(1)}, "title"},
			{"negative time", RecipeInput{Title: "Soup", TimeMinutes: -1, Price: decimal.NewFromInt(1)}, "time_minutes"},
			{"negative price", RecipeInput{Title: "Soup", TimeMinutes: 5, Price: decimal.NewFromInt(-1)}, "price"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				recipes, _, _ := newRecipeMocks()
				svc := NewRecipeService(recipes, t.TempDir())

				_, err := svc.Create(context.Background(), 1, tt.input)

				ve, ok := apperrors.AsValidation(err)
				assert.True(t, ok)
				assert.Contains(t, ve.Fields, tt.field)
				recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestRecipeService_Update(t *testing.T) {
	t.Run("empty tags key clears the tag set", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		existing := &model.Recipe{
			ID: 5, UserID: 1, Title: "Pad Thai", TimeMinutes: 30,
			Price: decimal.NewFromFloat(5.50),
			Tags:  []model.Tag{{ID: 10, UserID: 1, Name: "Thai"}},
		}
		recipes.On("FindByOwnerAndID", mock.Anything, uint(1), uint(5)).Return(existing, nil)
		recipes.On("Save", mock.Anything, existing).Return(nil)
		recipes.On("ReplaceTags", mock.Anything, existing, []model.Tag{}).Return(nil)

		svc := NewRecipeService(recipes, t.TempDir())
		empty := []string{}
		recipe, err := svc.Update(context.Background(), 1, 5, RecipePatch{Tags: &empty})

		assert.NoError(t, err)
		assert.Empty(t, recipe.Tags)
		recipes.AssertExpectations(t)
	})

	t.Run("absent tags key leaves associations alone", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		existing := &model.Recipe{
			ID: 5, UserID: 1, Title: "Pad Thai", TimeMinutes: 30,
			Price: decimal.NewFromFloat(5.50),
			Tags:  []model.Tag{{ID: 10, UserID: 1, Name: "Thai"}},
		}
		recipes.On("FindByOwnerAndID", mock.Anything, uint(1), uint(5)).Return(existing, nil)
		recipes.On("Save", mock.Anything, existing).Return(nil)

		svc := NewRecipeService(recipes, t.TempDir())
		title := "Pad See Ew"
		recipe, err := svc.Update(context.Background(), 1, 5, RecipePatch{Title: &title})

		assert.NoError(t, err)
		assert.Equal(t, "Pad See Ew", recipe.Title)
		assert.Len(t, recipe.Tags, 1)
		recipes.AssertNotCalled(t, "ReplaceTags", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("patch reuses existing owner-scoped tag", func(t *testing.T) {
		recipes, tags, _ := newRecipeMocks()
		existing := &model.Recipe{
			ID: 5, UserID: 1, Title: "Pad Thai", TimeMinutes: 30,
			Price: decimal.NewFromFloat(5.50),
		}
		reused := model.Tag{ID: 10, UserID: 1, Name: "Thai"}
		recipes.On("FindByOwnerAndID", mock.Anything, uint(1), uint(5)).Return(existing, nil)
		recipes.On("Save", mock.Anything, existing).Return(nil)
		tags.On("GetOrCreate", mock.Anything, uint(1), "Thai").Return(&reused, false, nil)
		recipes.On("ReplaceTags", mock.Anything, existing, []model.Tag{reused}).Return(nil)

		svc := NewRecipeService(recipes, t.TempDir())
		names := []string{"Thai"}
		recipe, err := svc.Update(context.Background(), 1, 5, RecipePatch{Tags: &names})

		assert.NoError(t, err)
		assert.Equal(t, uint(10), recipe.Tags[0].ID)
		recipes.AssertExpectations(t)
		tags.AssertExpectations(t)
	})

	t.Run("foreign recipe id reports not found", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		recipes.On("FindByOwnerAndID", mock.Anything, uint(2), uint(5)).
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewRecipeService(recipes, t.TempDir())
		title := "Hijack"
		_, err := svc.Update(context.Background(), 2, 5, RecipePatch{Title: &title})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		recipes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("patched fields still validated", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		existing := &model.Recipe{
			ID: 5, UserID: 1, Title: "Pad Thai", TimeMinutes: 30,
			Price: decimal.NewFromFloat(5.50),
		}
		recipes.On("FindByOwnerAndID", mock.Anything, uint(1), uint(5)).Return(existing, nil)

		svc := NewRecipeService(recipes, t.TempDir())
		bad := -3
		_, err := svc.Update(context.Background(), 1, 5, RecipePatch{TimeMinutes: &bad})

		ve, ok := apperrors.AsValidation(err)
		assert.True(t, ok)
		assert.Contains(t, ve.Fields, "time_minutes")
		recipes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRecipeService_Delete(t *testing.T) {
	t.Run("foreign recipe id reports not found", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		recipes.On("FindByOwnerAndID", mock.Anything, uint(2), uint(5)).
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewRecipeService(recipes, t.TempDir())
		err := svc.Delete(context.Background(), 2, 5)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		recipes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRecipeService_UploadImage(t *testing.T) {
	t.Run("valid png stored and path updated", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		existing := &model.Recipe{ID: 5, UserID: 1, Title: "Pad Thai"}
		recipes.On("FindByOwnerAndID", mock.Anything, uint(1), uint(5)).Return(existing, nil)
		recipes.On("UpdateImagePath", mock.Anything, existing, mock.AnythingOfType("string")).Return(nil)

		mediaDir := t.TempDir()
		svc := NewRecipeService(recipes, mediaDir)
		recipe, err := svc.UploadImage(context.Background(), 1, 5, pngBytes(t))

		assert.NoError(t, err)
		assert.NotEmpty(t, recipe.ImagePath)
		assert.Equal(t, ".png", filepath.Ext(recipe.ImagePath))
		_, statErr := os.Stat(filepath.Join(mediaDir, recipe.ImagePath))
		assert.NoError(t, statErr)
		recipes.AssertExpectations(t)
	})

	t.Run("replacing image removes the previous file", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		mediaDir := t.TempDir()
		previous := filepath.Join(mediaDir, "old.png")
		assert.NoError(t, os.WriteFile(previous, pngBytes(t), 0o644))

		existing := &model.Recipe{ID: 5, UserID: 1, Title: "Pad Thai", ImagePath: "old.png"}
		recipes.On("FindByOwnerAndID", mock.Anything, uint(1), uint(5)).Return(existing, nil)
		recipes.On("UpdateImagePath", mock.Anything, existing, mock.AnythingOfType("string")).Return(nil)

		svc := NewRecipeService(recipes, mediaDir)
		recipe, err := svc.UploadImage(context.Background(), 1, 5, pngBytes(t))

		assert.NoError(t, err)
		assert.NotEqual(t, "old.png", recipe.ImagePath)
		_, statErr := os.Stat(previous)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("non-image payload rejected, prior image untouched", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		mediaDir := t.TempDir()
		previous := filepath.Join(mediaDir, "old.png")
		assert.NoError(t, os.WriteFile(previous, pngBytes(t), 0o644))

		existing := &model.Recipe{ID: 5, UserID: 1, Title: "Pad Thai", ImagePath: "old.png"}
		recipes.On("FindByOwnerAndID", mock.Anything, uint(1), uint(5)).Return(existing, nil)

		svc := NewRecipeService(recipes, mediaDir)
		_, err := svc.UploadImage(context.Background(), 1, 5, []byte("notanimage"))

		ve, ok := apperrors.AsValidation(err)
		assert.True(t, ok)
		assert.Contains(t, ve.Fields, "image")
		assert.Equal(t, "old.png", existing.ImagePath)
		_, statErr := os.Stat(previous)
		assert.NoError(t, statErr)
		recipes.AssertNotCalled(t, "UpdateImagePath", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign recipe id reports not found", func(t *testing.T) {
		recipes, _, _ := newRecipeMocks()
		recipes.On("FindByOwnerAndID", mock.Anything, uint(2), uint(5)).
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewRecipeService(recipes, t.TempDir())
		_, err := svc.UploadImage(context.Background(), 2, 5, pngBytes(t))

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRecipeService_List(t *testing.T) {
	recipes, _, _ := newRecipeMocks()
	recipes.On("List", mock.Anything, uint(1), []uint{10, 11}, []uint(nil)).
		Return([]model.Recipe{{ID: 6, UserID: 1, Title: "Pad Thai"}}, nil)

	svc := NewRecipeService(recipes, t.TempDir())
	result, err := svc.List(context.Background(), 1, []uint{10, 11}, nil)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	recipes.AssertExpectations(t)
}
