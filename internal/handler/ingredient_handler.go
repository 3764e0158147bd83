package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"recipebox/internal/service"
)

// IngredientHandler handles owner-scoped ingredient endpoints; same surface
// shape as tags.
type IngredientHandler struct {
	ingredients service.IngredientService
}

// NewIngredientHandler creates an ingredient handler.
func NewIngredientHandler(ingredients service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

// List godoc
// @Summary List own ingredients, reverse alphabetical
// @Tags ingredients
// @Produce json
// @Security BearerAuth
// @Param assigned_only query bool false "Only ingredients assigned to at least one recipe"
// @Success 200 {array} model.Ingredient
// @Failure 401
// @Router /ingredients [get]
func (h *IngredientHandler) List(c echo.Context) error {
	owner := CurrentUser(c)
	ingredients, err := h.ingredients.List(c.Request().Context(), owner.ID, parseFlag(c.QueryParam("assigned_only")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ingredients)
}

// Create godoc
// @Summary Create an ingredient (idempotent per owner and name)
// @Tags ingredients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LabelRequest true "Ingredient payload"
// @Success 201 {object} model.Ingredient
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Router /ingredients [post]
func (h *IngredientHandler) Create(c echo.Context) error {
	var req LabelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	owner := CurrentUser(c)
	ingredient, created, err := h.ingredients.Create(c.Request().Context(), owner.ID, req.Name)
	if err != nil {
		return err
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	return c.JSON(status, ingredient)
}

// Update godoc
// @Summary Rename an ingredient
// @Tags ingredients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ingredient ID"
// @Param request body LabelRequest true "Ingredient payload"
// @Success 200 {object} model.Ingredient
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Failure 404
// @Router /ingredients/{id} [patch]
func (h *IngredientHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req LabelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	owner := CurrentUser(c)
	ingredient, err := h.ingredients.Update(c.Request().Context(), owner.ID, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ingredient)
}

// Delete godoc
// @Summary Delete an ingredient, detaching it from all recipes
// @Tags ingredients
// @Security BearerAuth
// @Param id path int true "Ingredient ID"
// @Success 204
// @Failure 401
// @Failure 404
// @Router /ingredients/{id} [delete]
func (h *IngredientHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := CurrentUser(c)
	if err := h.ingredients.Delete(c.Request().Context(), owner.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
