package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents a category creation request.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "Category payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categoryService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"category": category,
	})
}

// List godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categoryService.List(c.Request().Context())
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}
