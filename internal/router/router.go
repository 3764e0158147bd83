package router

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"recipebox/internal/apperrors"
	"recipebox/internal/auth"
	"recipebox/internal/config"
	"recipebox/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens *auth.TokenService,
	userHandler *handler.UserHandler,
	recipeHandler *handler.RecipeHandler,
	tagHandler *handler.TagHandler,
	ingredientHandler *handler.IngredientHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/media", cfg.MediaDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/users", userHandler.Register)
	api.POST("/users/token", userHandler.Token)

	// Secured routes: the bearer token resolves to a principal, and every
	// operation below is scoped to it.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey: handler.PrincipalKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.Resolve(c.Request().Context(), token)
		},
		// a missing header must read the same as a bad token
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrUnauthenticated
		},
	}))

	secured.GET("/users/me", userHandler.Me)
	secured.PATCH("/users/me", userHandler.UpdateMe)

	secured.GET("/recipes", recipeHandler.List)
	secured.POST("/recipes", recipeHandler.Create)
	secured.GET("/recipes/:id", recipeHandler.Get)
	secured.PATCH("/recipes/:id", recipeHandler.Patch)
	secured.PUT("/recipes/:id", recipeHandler.Put)
	secured.DELETE("/recipes/:id", recipeHandler.Delete)
	secured.POST("/recipes/:id/upload-image", recipeHandler.UploadImage)

	secured.GET("/tags", tagHandler.List)
	secured.POST("/tags", tagHandler.Create)
	secured.PATCH("/tags/:id", tagHandler.Update)
	secured.DELETE("/tags/:id", tagHandler.Delete)

	secured.GET("/ingredients", ingredientHandler.List)
	secured.POST("/ingredients", ingredientHandler.Create)
	secured.PATCH("/ingredients/:id", ingredientHandler.Update)
	secured.DELETE("/ingredients/:id", ingredientHandler.Delete)
}

// CustomValidator wraps validator for Echo, reporting fields by json name.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the echo request validator.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// errorHandler maps the error taxonomy to the wire contract: 400 carries a
// field-to-messages map, 401/403/404/405 carry an empty body.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ve *apperrors.ValidationError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ve):
		err = c.JSON(http.StatusBadRequest, ve.Fields)
	case errors.Is(err, apperrors.ErrNotFound):
		err = c.NoContent(http.StatusNotFound)
	case errors.Is(err, apperrors.ErrUnauthenticated):
		err = c.NoContent(http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		err = c.JSON(http.StatusBadRequest, map[string][]string{
			"non_field_errors": {err.Error()},
		})
	case errors.As(err, &he):
		switch he.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusMethodNotAllowed:
			err = c.NoContent(he.Code)
		case http.StatusBadRequest:
			err = c.JSON(he.Code, map[string][]string{
				"non_field_errors": {fmt.Sprint(he.Message)},
			})
		default:
			err = c.JSON(he.Code, map[string]interface{}{"detail": he.Message})
		}
	default:
		c.Logger().Error(err)
		err = c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
