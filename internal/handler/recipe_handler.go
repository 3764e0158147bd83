package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"recipebox/internal/apperrors"
	"recipebox/internal/model"
	"recipebox/internal/service"
)

// RecipeHandler handles owner-scoped recipe endpoints.
type RecipeHandler struct {
	recipes service.RecipeService
}

// NewRecipeHandler creates a recipe handler.
func NewRecipeHandler(recipes service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RecipeRequest represents a recipe create or full-replace payload.
// TimeMinutes and Price are pointers so that a supplied zero survives the
// presence check below; the validator's required tag would reject it.
type RecipeRequest struct {
	Title       string           `json:"title" validate:"required"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
	Link        string           `json:"link"`
	Tags        []LabelRequest   `json:"tags" validate:"omitempty,dive"`
	Ingredients []LabelRequest   `json:"ingredients" validate:"omitempty,dive"`
}

func (req *RecipeRequest) checkRequired() error {
	ve := &apperrors.ValidationError{}
	if req.TimeMinutes == nil {
		ve.Add("time_minutes", "this field is required")
	}
	if req.Price == nil {
		ve.Add("price", "this field is required")
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// RecipePatchRequest represents a partial update. A present tags or
// ingredients key, even an empty list, replaces the full association set.
type RecipePatchRequest struct {
	Title       *string          `json:"title"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Link        *string          `json:"link"`
	Tags        *[]LabelRequest  `json:"tags"`
	Ingredients *[]LabelRequest  `json:"ingredients"`
	// User is accepted for payload compatibility and deliberately dropped:
	// ownership never changes through an update.
	User json.RawMessage `json:"user"`
}

// RecipeListItem is the compact list representation.
type RecipeListItem struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
}

// RecipeDetail is the full representation returned by detail and mutation
// endpoints.
type RecipeDetail struct {
	RecipeListItem
	Description string             `json:"description"`
	Tags        []model.Tag        `json:"tags"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Image       string             `json:"image"`
}

func listItemOf(r *model.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
	}
}

func detailOf(r *model.Recipe) RecipeDetail {
	detail := RecipeDetail{
		RecipeListItem: listItemOf(r),
		Description:    r.Description,
		Tags:           r.Tags,
		Ingredients:    r.Ingredients,
	}
	if detail.Tags == nil {
		detail.Tags = []model.Tag{}
	}
	if detail.Ingredients == nil {
		detail.Ingredients = []model.Ingredient{}
	}
	if r.ImagePath != "" {
		detail.Image = "/media/" + r.ImagePath
	}
	return detail
}

func labelNames(labels []LabelRequest) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}

// List godoc
// @Summary List own recipes, newest first
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param tags query string false "Comma-separated tag ids"
// @Param ingredients query string false "Comma-separated ingredient ids"
// @Success 200 {array} RecipeListItem
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Router /recipes [get]
func (h *RecipeHandler) List(c echo.Context) error {
	tagIDs, err := parseIDList("tags", c.QueryParam("tags"))
	if err != nil {
		return err
	}
	ingredientIDs, err := parseIDList("ingredients", c.QueryParam("ingredients"))
	if err != nil {
		return err
	}
	owner := CurrentUser(c)
	recipes, err := h.recipes.List(c.Request().Context(), owner.ID, tagIDs, ingredientIDs)
	if err != nil {
		return err
	}
	items := make([]RecipeListItem, 0, len(recipes))
	for i := range recipes {
		items = append(items, listItemOf(&recipes[i]))
	}
	return c.JSON(http.StatusOK, items)
}

// Create godoc
// @Summary Create a recipe with nested tag/ingredient names
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecipeRequest true "Recipe payload"
// @Success 201 {object} RecipeDetail
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Router /recipes [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	var req RecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := req.checkRequired(); err != nil {
		return err
	}
	owner := CurrentUser(c)
	recipe, err := h.recipes.Create(c.Request().Context(), owner.ID, service.RecipeInput{
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        labelNames(req.Tags),
		Ingredients: labelNames(req.Ingredients),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, detailOf(recipe))
}

// Get godoc
// @Summary Retrieve a recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} RecipeDetail
// @Failure 401
// @Failure 404
// @Router /recipes/{id} [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := CurrentUser(c)
	recipe, err := h.recipes.Get(c.Request().Context(), owner.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailOf(recipe))
}

// Patch godoc
// @Summary Partially update a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body RecipePatchRequest true "Fields to change"
// @Success 200 {object} RecipeDetail
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Failure 404
// @Router /recipes/{id} [patch]
func (h *RecipeHandler) Patch(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req RecipePatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	owner := CurrentUser(c)
	recipe, err := h.recipes.Update(c.Request().Context(), owner.ID, id, patchOf(&req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailOf(recipe))
}

// Put godoc
// @Summary Replace a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body RecipeRequest true "Full recipe payload"
// @Success 200 {object} RecipeDetail
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Failure 404
// @Router /recipes/{id} [put]
func (h *RecipeHandler) Put(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req RecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := req.checkRequired(); err != nil {
		return err
	}
	patch := service.RecipePatch{
		Title:       &req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: &req.Description,
		Link:        &req.Link,
	}
	if req.Tags != nil {
		names := labelNames(req.Tags)
		patch.Tags = &names
	}
	if req.Ingredients != nil {
		names := labelNames(req.Ingredients)
		patch.Ingredients = &names
	}
	owner := CurrentUser(c)
	recipe, err := h.recipes.Update(c.Request().Context(), owner.ID, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailOf(recipe))
}

// Delete godoc
// @Summary Delete a recipe
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401
// @Failure 404
// @Router /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := CurrentUser(c)
	if err := h.recipes.Delete(c.Request().Context(), owner.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Attach an image to a recipe
// @Tags recipes
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param image formData file true "Image file"
// @Success 200 {object} RecipeDetail
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Failure 404
// @Router /recipes/{id}/upload-image [post]
func (h *RecipeHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image", "no image provided")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("image", "no image provided")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewValidationError("image", "unreadable image payload")
	}

	owner := CurrentUser(c)
	recipe, err := h.recipes.UploadImage(c.Request().Context(), owner.ID, id, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailOf(recipe))
}

func patchOf(req *RecipePatchRequest) service.RecipePatch {
	patch := service.RecipePatch{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.Tags != nil {
		names := labelNames(*req.Tags)
		patch.Tags = &names
	}
	if req.Ingredients != nil {
		names := labelNames(*req.Ingredients)
		patch.Ingredients = &names
	}
	return patch
}
