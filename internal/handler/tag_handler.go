package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"recipebox/internal/service"
)

// TagHandler handles owner-scoped tag endpoints.
type TagHandler struct {
	tags service.TagService
}

// NewTagHandler creates a tag handler.
func NewTagHandler(tags service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// LabelRequest represents a tag or ingredient payload.
type LabelRequest struct {
	Name string `json:"name" validate:"required"`
}

// List godoc
// @Summary List own tags, reverse alphabetical
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param assigned_only query bool false "Only tags assigned to at least one recipe"
// @Success 200 {array} model.Tag
// @Failure 401
// @Router /tags [get]
func (h *TagHandler) List(c echo.Context) error {
	owner := CurrentUser(c)
	tags, err := h.tags.List(c.Request().Context(), owner.ID, parseFlag(c.QueryParam("assigned_only")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// Create godoc
// @Summary Create a tag (idempotent per owner and name)
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LabelRequest true "Tag payload"
// @Success 201 {object} model.Tag
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Router /tags [post]
func (h *TagHandler) Create(c echo.Context) error {
	var req LabelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	owner := CurrentUser(c)
	tag, created, err := h.tags.Create(c.Request().Context(), owner.ID, req.Name)
	if err != nil {
		return err
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	return c.JSON(status, tag)
}

// Update godoc
// @Summary Rename a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Param request body LabelRequest true "Tag payload"
// @Success 200 {object} model.Tag
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Failure 404
// @Router /tags/{id} [patch]
func (h *TagHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req LabelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	owner := CurrentUser(c)
	tag, err := h.tags.Update(c.Request().Context(), owner.ID, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// Delete godoc
// @Summary Delete a tag, detaching it from all recipes
// @Tags tags
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 204
// @Failure 401
// @Failure 404
// @Router /tags/{id} [delete]
func (h *TagHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := CurrentUser(c)
	if err := h.tags.Delete(c.Request().Context(), owner.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
