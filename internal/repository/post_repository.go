package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogapi/internal/model"
)

// PostFilter narrows post listings by author and/or category.
type PostFilter struct {
	AuthorID   *uuid.UUID
	CategoryID *uuid.UUID
}

// PostRepository defines post persistence operations.
//
// UpdateOwned and DeleteOwned are single conditional statements keyed on both
// id and author, so an ownership check and the mutation happen atomically at
// the row level. They report rows affected; zero means the post is either
// missing or owned by someone else.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter PostFilter, page, limit int) ([]model.Post, int64, error)
	UpdateOwned(ctx context.Context, id, authorID uuid.UUID, fields map[string]interface{}) (int64, error)
	DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns one page of posts newest-first plus the unpaged total.
func (r *postRepository) List(ctx context.Context, filter PostFilter, page, limit int) ([]model.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	if err := q.
		Preload("Author").
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) UpdateOwned(ctx context.Context, id, authorID uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *postRepository) DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&model.Post{})
	return res.RowsAffected, res.Error
}
