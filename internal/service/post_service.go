package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogapi/internal/cache"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

const postCacheTTL = 5 * time.Minute

const (
	minTitleLen   = 3
	maxTitleLen   = 200
	minContentLen = 10

	defaultPageLimit = 10
	maxPageLimit     = 100
)

// CreatePostInput carries the fields an author supplies for a new post.
type CreatePostInput struct {
	Title      string
	Content    string
	CategoryID string
	Tags       []string
	Published  bool
}

// UpdatePostInput is a partial patch; nil fields are left untouched.
// The author reference is not patchable.
type UpdatePostInput struct {
	Title      *string
	Content    *string
	CategoryID *string
	Tags       *[]string
	Published  *bool
}

// ListPostsQuery carries pagination and filter parameters for listings.
type ListPostsQuery struct {
	Page     int
	Limit    int
	Category string
	Author   string
}

// PostPage is one page of posts with pagination metadata.
type PostPage struct {
	Posts       []model.Post `json:"posts"`
	TotalPages  int64        `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Total       int64        `json:"total"`
}

// PostService orchestrates the post CRUD workflow, including ownership checks.
type PostService interface {
	Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*model.Post, error)
	List(ctx context.Context, query ListPostsQuery) (*PostPage, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, id string, callerID uuid.UUID, input UpdatePostInput) (*model.Post, error)
	Delete(ctx context.Context, id string, callerID uuid.UUID) error
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewPostService builds a PostService with repositories and cache.
func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, cache *cache.Client) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (s *postService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("post:%s", id)
}

// Create persists a new post for authorID. The author reference is fixed
// here and never changed afterwards.
func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*model.Post, error) {
	fields := map[string]string{}
	validateTitle(input.Title, fields)
	validateContent(input.Content, fields)

	categoryID, err := s.resolveCategory(ctx, input.CategoryID, fields)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	post := &model.Post{
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		AuthorID:   authorID,
		CategoryID: categoryID,
		Tags:       normalizeTags(input.Tags),
		Published:  input.Published,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("load created post: %w", err)
	}
	return created, nil
}

// List returns one page of posts newest-first with pagination metadata.
func (s *postService) List(ctx context.Context, query ListPostsQuery) (*PostPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := repository.PostFilter{}
	if query.Author != "" {
		authorID, err := uuid.Parse(query.Author)
		if err != nil {
			return nil, apperrors.ErrInvalidID
		}
		filter.AuthorID = &authorID
	}
	if query.Category != "" {
		categoryID, err := uuid.Parse(query.Category)
		if err != nil {
			return nil, apperrors.ErrInvalidID
		}
		filter.CategoryID = &categoryID
	}

	posts, total, err := s.postRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	if posts == nil {
		posts = []model.Post{}
	}
	return &PostPage{
		Posts:       posts,
		TotalPages:  totalPages,
		CurrentPage: page,
		Total:       total,
	}, nil
}

// Get loads a single post. A malformed id fails before the store is touched,
// distinct from a well-formed id that matches nothing.
func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}

	var cached model.Post
	if s.cache.GetJSON(ctx, s.cacheKey(postID), &cached) {
		return &cached, nil
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(postID), post, postCacheTTL)
	return post, nil
}

// Update applies a patch to the caller's own post. The mutation is a single
// conditional statement keyed on id and author, so ownership cannot race with
// a concurrent write. Zero rows affected is disambiguated into NotFound vs
// Forbidden with a follow-up existence check.
func (s *postService) Update(ctx context.Context, id string, callerID uuid.UUID, input UpdatePostInput) (*model.Post, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}

	fields := map[string]string{}
	updates := map[string]interface{}{}

	if input.Title != nil {
		validateTitle(*input.Title, fields)
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		validateContent(*input.Content, fields)
		updates["content"] = *input.Content
	}
	if input.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, *input.CategoryID, fields)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
	}
	if input.Tags != nil {
		updates["tags"] = normalizeTags(*input.Tags)
	}
	if input.Published != nil {
		updates["published"] = *input.Published
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	if len(updates) == 0 {
		return s.loadOwned(ctx, postID, callerID)
	}

	rows, err := s.postRepo.UpdateOwned(ctx, postID, callerID, updates)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if rows == 0 {
		return nil, s.notFoundOrForbidden(ctx, postID)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(postID))

	updated, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load updated post: %w", err)
	}
	return updated, nil
}

// Delete removes the caller's own post permanently, with the same conditional
// ownership discipline as Update.
func (s *postService) Delete(ctx context.Context, id string, callerID uuid.UUID) error {
	postID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.ErrInvalidID
	}

	rows, err := s.postRepo.DeleteOwned(ctx, postID, callerID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if rows == 0 {
		return s.notFoundOrForbidden(ctx, postID)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(postID))
	return nil
}

// loadOwned answers an empty patch: the post is returned if the caller owns
// it, otherwise the usual NotFound/Forbidden distinction applies.
func (s *postService) loadOwned(ctx context.Context, postID, callerID uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	if post.AuthorID != callerID {
		return nil, apperrors.ErrForbidden
	}
	return post, nil
}

func (s *postService) notFoundOrForbidden(ctx context.Context, postID uuid.UUID) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("check post existence: %w", err)
	}
	if exists {
		return apperrors.ErrForbidden
	}
	return apperrors.ErrNotFound
}

// resolveCategory parses and verifies an optional category reference.
// An empty raw value clears the reference.
func (s *postService) resolveCategory(ctx context.Context, raw string, fields map[string]string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	categoryID, err := uuid.Parse(raw)
	if err != nil {
		fields["category"] = "must be a valid category id"
		return nil, nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if err == gorm.ErrRecordNotFound {
			fields["category"] = "category not found"
			return nil, nil
		}
		return nil, fmt.Errorf("check category: %w", err)
	}
	return &categoryID, nil
}

func validateTitle(title string, fields map[string]string) {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < minTitleLen || len(trimmed) > maxTitleLen {
		fields["title"] = fmt.Sprintf("must be between %d and %d characters", minTitleLen, maxTitleLen)
	}
}

func validateContent(content string, fields map[string]string) {
	if len(content) < minContentLen {
		fields["content"] = fmt.Sprintf("must be at least %d characters", minContentLen)
	}
}

// normalizeTags trims each tag and drops empties, preserving order.
func normalizeTags(tags []string) model.StringList {
	out := make(model.StringList, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
