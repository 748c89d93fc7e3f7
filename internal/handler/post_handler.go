package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"blogapi/internal/auth"
	"blogapi/internal/service"
)

// PostHandler handles post CRUD endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest represents a post creation request.
type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Published bool     `json:"published,omitempty"`
}

// UpdatePostRequest represents a partial post update. Absent fields are left
// untouched; the author cannot be changed through any payload.
type UpdatePostRequest struct {
	Title     *string   `json:"title,omitempty"`
	Content   *string   `json:"content,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Published *bool     `json:"published,omitempty"`
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.Create(c.Request().Context(), claims.UserID, service.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.Category,
		Tags:       req.Tags,
		Published:  req.Published,
	})
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "post created successfully",
		"post":    post,
	})
}

// List godoc
// @Summary List posts
// @Tags posts
// @Produce json
// @Param page query int false "Page number (1-indexed)"
// @Param limit query int false "Page size"
// @Param category query string false "Filter by category id"
// @Param author query string false "Filter by author id"
// @Success 200 {object} service.PostPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.postService.List(c.Request().Context(), service.ListPostsQuery{
		Page:     page,
		Limit:    limit,
		Category: c.QueryParam("category"),
		Author:   c.QueryParam("author"),
	})
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.postService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"post": post,
	})
}

// Update godoc
// @Summary Update one of the caller's posts
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body UpdatePostRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	var req UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	post, err := h.postService.Update(c.Request().Context(), c.Param("id"), claims.UserID, service.UpdatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.Category,
		Tags:       req.Tags,
		Published:  req.Published,
	})
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "post updated successfully",
		"post":    post,
	})
}

// Delete godoc
// @Summary Delete one of the caller's posts
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	if err := h.postService.Delete(c.Request().Context(), c.Param("id"), claims.UserID); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "post deleted successfully",
	})
}
