package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"recipebox/internal/auth"
	"recipebox/internal/model"
	"recipebox/internal/service"
)

// UserHandler handles registration, token issuance and profile endpoints.
type UserHandler struct {
	users  service.UserService
	tokens *auth.TokenService
}

// NewUserHandler creates a user handler.
func NewUserHandler(users service.UserService, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name"`
}

// TokenRequest represents a token issuance request.
type TokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse is the self-service view of a user. The password hash is
// never serialized.
type ProfileResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProfileUpdateRequest represents a partial profile update. Only name and
// password are mutable through this endpoint.
type ProfileUpdateRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

func profileOf(user *model.User) ProfileResponse {
	return ProfileResponse{Email: user.Email, Name: user.Name}
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} map[string][]string
// @Router /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profileOf(user))
}

// Token godoc
// @Summary Issue an auth token for valid credentials
// @Tags users
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string][]string
// @Router /users/token [post]
func (h *UserHandler) Token(c echo.Context) error {
	var req TokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	token, err := h.tokens.Issue(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Me godoc
// @Summary Read own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, profileOf(CurrentUser(c)))
}

// UpdateMe godoc
// @Summary Update own profile (name and password only)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileUpdateRequest true "Profile changes"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} map[string][]string
// @Failure 401
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req ProfileUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.Request().Context(), CurrentUser(c), req.Name, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileOf(user))
}
