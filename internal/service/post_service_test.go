package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// MockPostRepository is a mock implementation of PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter, page, limit int) ([]model.Post, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) UpdateOwned(ctx context.Context, id, authorID uuid.UUID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, authorID, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) DeleteOwned(ctx context.Context, id, authorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, authorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByNameOrCreate(ctx context.Context, category *model.Category) (*model.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func newPostService(postRepo *MockPostRepository, categoryRepo *MockCategoryRepository) PostService {
	return NewPostService(postRepo, categoryRepo, nil)
}

func TestPostService_Create_Validation(t *testing.T) {
	tests := []struct {
		name          string
		input         CreatePostInput
		setupCategory func(*MockCategoryRepository)
		expectedField string
	}{
		{
			name:          "title too short",
			input:         CreatePostInput{Title: "ab", Content: "long enough content"},
			expectedField: "title",
		},
		{
			name:          "content too short",
			input:         CreatePostInput{Title: "A valid title", Content: "short"},
			expectedField: "content",
		},
		{
			name:          "malformed category id",
			input:         CreatePostInput{Title: "A valid title", Content: "long enough content", CategoryID: "not-a-uuid"},
			expectedField: "category",
		},
		{
			name:  "unknown category",
			input: CreatePostInput{Title: "A valid title", Content: "long enough content", CategoryID: uuid.NewString()},
			setupCategory: func(m *MockCategoryRepository) {
				m.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedField: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(MockPostRepository)
			categoryRepo := new(MockCategoryRepository)
			if tt.setupCategory != nil {
				tt.setupCategory(categoryRepo)
			}
			svc := newPostService(postRepo, categoryRepo)

			post, err := svc.Create(context.Background(), uuid.New(), tt.input)

			require.Error(t, err)
			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.expectedField)
			assert.Nil(t, post)
			postRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestPostService_Create_SetsAuthorAndNormalizesTags(t *testing.T) {
	postRepo := new(MockPostRepository)
	categoryRepo := new(MockCategoryRepository)
	authorID := uuid.New()

	var created *model.Post
	postRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Post)
		}).
		Return(nil)
	postRepo.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&model.Post{Title: "My First Post"}, nil)

	svc := newPostService(postRepo, categoryRepo)
	_, err := svc.Create(context.Background(), authorID, CreatePostInput{
		Title:   "  My First Post  ",
		Content: "this is long enough content",
		Tags:    []string{" go ", "", "web"},
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, authorID, created.AuthorID)
	assert.Equal(t, "My First Post", created.Title)
	assert.Equal(t, model.StringList{"go", "web"}, created.Tags)
}

func TestPostService_Get(t *testing.T) {
	postID := uuid.New()
	stored := &model.Post{ID: postID, Title: "A post", AuthorID: uuid.New()}

	tests := []struct {
		name          string
		id            string
		setupMock     func(*MockPostRepository)
		expectedError error
	}{
		{
			name: "found",
			id:   postID.String(),
			setupMock: func(m *MockPostRepository) {
				m.On("FindByID", mock.Anything, postID).Return(stored, nil)
			},
		},
		{
			name:          "malformed id is rejected before the store",
			id:            "not-a-valid-id",
			setupMock:     func(m *MockPostRepository) {},
			expectedError: apperrors.ErrInvalidID,
		},
		{
			name: "well-formed id with no post",
			id:   postID.String(),
			setupMock: func(m *MockPostRepository) {
				m.On("FindByID", mock.Anything, postID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(MockPostRepository)
			tt.setupMock(postRepo)
			svc := newPostService(postRepo, new(MockCategoryRepository))

			post, err := svc.Get(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, post)
			} else {
				require.NoError(t, err)
				assert.Equal(t, postID, post.ID)
			}
			postRepo.AssertExpectations(t)
		})
	}
}

func TestPostService_List_PaginationMetadata(t *testing.T) {
	tests := []struct {
		name               string
		query              ListPostsQuery
		total              int64
		expectedPage       int
		expectedLimit      int
		expectedTotalPages int64
	}{
		{
			name:               "defaults applied",
			query:              ListPostsQuery{},
			total:              25,
			expectedPage:       1,
			expectedLimit:      10,
			expectedTotalPages: 3,
		},
		{
			name:               "exact multiple of limit",
			query:              ListPostsQuery{Page: 2, Limit: 5},
			total:              20,
			expectedPage:       2,
			expectedLimit:      5,
			expectedTotalPages: 4,
		},
		{
			name:               "limit capped",
			query:              ListPostsQuery{Page: 1, Limit: 1000},
			total:              50,
			expectedPage:       1,
			expectedLimit:      100,
			expectedTotalPages: 1,
		},
		{
			name:               "empty result",
			query:              ListPostsQuery{Page: 1, Limit: 10},
			total:              0,
			expectedPage:       1,
			expectedLimit:      10,
			expectedTotalPages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(MockPostRepository)
			postRepo.On("List", mock.Anything, repository.PostFilter{}, tt.expectedPage, tt.expectedLimit).
				Return([]model.Post{}, tt.total, nil)
			svc := newPostService(postRepo, new(MockCategoryRepository))

			page, err := svc.List(context.Background(), tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedPage, page.CurrentPage)
			assert.Equal(t, tt.total, page.Total)
			assert.Equal(t, tt.expectedTotalPages, page.TotalPages)
			assert.NotNil(t, page.Posts)
			postRepo.AssertExpectations(t)
		})
	}
}

func TestPostService_List_MalformedFilters(t *testing.T) {
	svc := newPostService(new(MockPostRepository), new(MockCategoryRepository))

	_, err := svc.List(context.Background(), ListPostsQuery{Author: "not-a-uuid"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)

	_, err = svc.List(context.Background(), ListPostsQuery{Category: "not-a-uuid"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)
}

func TestPostService_Update_OwnershipDisambiguation(t *testing.T) {
	postID := uuid.New()
	callerID := uuid.New()
	title := "Updated title"

	tests := []struct {
		name          string
		setupMock     func(*MockPostRepository)
		expectedError error
	}{
		{
			name: "post missing",
			setupMock: func(m *MockPostRepository) {
				m.On("UpdateOwned", mock.Anything, postID, callerID, mock.Anything).Return(int64(0), nil)
				m.On("Exists", mock.Anything, postID).Return(false, nil)
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name: "post owned by someone else",
			setupMock: func(m *MockPostRepository) {
				m.On("UpdateOwned", mock.Anything, postID, callerID, mock.Anything).Return(int64(0), nil)
				m.On("Exists", mock.Anything, postID).Return(true, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name: "owned post is updated",
			setupMock: func(m *MockPostRepository) {
				m.On("UpdateOwned", mock.Anything, postID, callerID, mock.Anything).Return(int64(1), nil)
				m.On("FindByID", mock.Anything, postID).Return(&model.Post{ID: postID, Title: title, AuthorID: callerID}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(MockPostRepository)
			tt.setupMock(postRepo)
			svc := newPostService(postRepo, new(MockCategoryRepository))

			post, err := svc.Update(context.Background(), postID.String(), callerID, UpdatePostInput{Title: &title})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, post)
			} else {
				require.NoError(t, err)
				assert.Equal(t, title, post.Title)
			}
			postRepo.AssertExpectations(t)
		})
	}
}

func TestPostService_Update_AuthorNeverPatched(t *testing.T) {
	postID := uuid.New()
	callerID := uuid.New()
	title := "New title"
	content := "completely new content body"
	published := true

	postRepo := new(MockPostRepository)
	var captured map[string]interface{}
	postRepo.On("UpdateOwned", mock.Anything, postID, callerID, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(3).(map[string]interface{})
		}).
		Return(int64(1), nil)
	postRepo.On("FindByID", mock.Anything, postID).
		Return(&model.Post{ID: postID, AuthorID: callerID}, nil)

	svc := newPostService(postRepo, new(MockCategoryRepository))
	_, err := svc.Update(context.Background(), postID.String(), callerID, UpdatePostInput{
		Title:     &title,
		Content:   &content,
		Published: &published,
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.NotContains(t, captured, "author_id")
	assert.NotContains(t, captured, "slug")
}

func TestPostService_Update_MalformedID(t *testing.T) {
	svc := newPostService(new(MockPostRepository), new(MockCategoryRepository))
	title := "whatever"

	_, err := svc.Update(context.Background(), "bad-id", uuid.New(), UpdatePostInput{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)
}

func TestPostService_Update_EmptyPatchChecksOwnership(t *testing.T) {
	postID := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()

	postRepo := new(MockPostRepository)
	postRepo.On("FindByID", mock.Anything, postID).
		Return(&model.Post{ID: postID, AuthorID: owner}, nil)

	svc := newPostService(postRepo, new(MockCategoryRepository))

	post, err := svc.Update(context.Background(), postID.String(), owner, UpdatePostInput{})
	require.NoError(t, err)
	assert.Equal(t, postID, post.ID)

	_, err = svc.Update(context.Background(), postID.String(), stranger, UpdatePostInput{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestPostService_Delete(t *testing.T) {
	postID := uuid.New()
	callerID := uuid.New()

	tests := []struct {
		name          string
		id            string
		setupMock     func(*MockPostRepository)
		expectedError error
	}{
		{
			name: "owned post is deleted",
			id:   postID.String(),
			setupMock: func(m *MockPostRepository) {
				m.On("DeleteOwned", mock.Anything, postID, callerID).Return(int64(1), nil)
			},
		},
		{
			name: "someone else's post",
			id:   postID.String(),
			setupMock: func(m *MockPostRepository) {
				m.On("DeleteOwned", mock.Anything, postID, callerID).Return(int64(0), nil)
				m.On("Exists", mock.Anything, postID).Return(true, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name: "missing post",
			id:   postID.String(),
			setupMock: func(m *MockPostRepository) {
				m.On("DeleteOwned", mock.Anything, postID, callerID).Return(int64(0), nil)
				m.On("Exists", mock.Anything, postID).Return(false, nil)
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name:          "malformed id",
			id:            "nope",
			setupMock:     func(m *MockPostRepository) {},
			expectedError: apperrors.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(MockPostRepository)
			tt.setupMock(postRepo)
			svc := newPostService(postRepo, new(MockCategoryRepository))

			err := svc.Delete(context.Background(), tt.id, callerID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			postRepo.AssertExpectations(t)
		})
	}
}
