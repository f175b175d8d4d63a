package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockPostRepository is a mock implementation of PostRepository
type mockPostRepository struct {
	post           *models.Post
	getErr         error
	countResult    int
	countErr       error
	listResult     []models.PostSummary
	listErr        error
	listOffset     int
	listLimit      int
	incrementCalls int
	incrementErr   error
	created        *models.Post
	createErr      error
	updateCalled   bool
	updateTitle    string
	updateContent  string
	updateErr      error
	deleteCalled   bool
	deleteErr      error
}

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	if m.createErr != nil {
		return m.createErr
	}
	post.ID = 1
	m.created = post
	return nil
}

func (m *mockPostRepository) Count(ctx context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.countResult, nil
}

func (m *mockPostRepository) List(ctx context.Context, offset, limit int) ([]models.PostSummary, error) {
	m.listOffset = offset
	m.listLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResult, nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int) (*models.Post, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	// Return a copy so the service cannot mutate the stored row directly,
	// mirroring a real store round-trip.
	p := *m.post
	return &p, nil
}

func (m *mockPostRepository) IncrementViewCount(ctx context.Context, postID int) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.incrementCalls++
	m.post.ViewCount++
	return nil
}

func (m *mockPostRepository) Update(ctx context.Context, postID int, title, content string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updateCalled = true
	m.updateTitle = title
	m.updateContent = content
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, postID int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleteCalled = true
	return nil
}

func TestNewPostService(t *testing.T) {
	logger := zap.NewNop()
	repo := &mockPostRepository{}

	svc := NewPostService(repo, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, repo, svc.postRepo)
	assert.Equal(t, logger, svc.logger)
}

func TestPostService_ListPage_PageCount(t *testing.T) {
	tests := []struct {
		name          string
		totalCount    int
		expectedPages int
	}{
		{name: "empty board has zero pages", totalCount: 0, expectedPages: 0},
		{name: "one post", totalCount: 1, expectedPages: 1},
		{name: "exactly one full page", totalCount: 10, expectedPages: 1},
		{name: "one past a full page", totalCount: 11, expectedPages: 2},
		{name: "many pages", totalCount: 95, expectedPages: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPostRepository{countResult: tt.totalCount}
			svc := NewPostService(repo, zap.NewNop())

			page, err := svc.ListPage(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, tt.totalCount, page.TotalCount)
			assert.Equal(t, tt.expectedPages, page.PageCount)
			assert.Equal(t, 1, page.CurrentPage)
		})
	}
}

func TestPostService_ListPage_Offset(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		expectedOffset int
	}{
		{name: "first page", page: 1, expectedOffset: 0},
		{name: "second page", page: 2, expectedOffset: 10},
		{name: "fifth page", page: 5, expectedOffset: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPostRepository{countResult: 100}
			svc := NewPostService(repo, zap.NewNop())

			_, err := svc.ListPage(context.Background(), tt.page)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedOffset, repo.listOffset)
			assert.Equal(t, PageSize, repo.listLimit)
		})
	}
}

func TestPostService_ListPage_NewestFirst(t *testing.T) {
	// The repository returns rows ordered by descending id; the service
	// must hand them through untouched.
	summaries := []models.PostSummary{
		{ID: 42, Title: "newest"},
		{ID: 41, Title: "older"},
		{ID: 40, Title: "oldest"},
	}
	repo := &mockPostRepository{countResult: 3, listResult: summaries}
	svc := NewPostService(repo, zap.NewNop())

	page, err := svc.ListPage(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	assert.Equal(t, 42, page.Posts[0].ID)
	for i := 1; i < len(page.Posts); i++ {
		assert.Greater(t, page.Posts[i-1].ID, page.Posts[i].ID)
	}
}

func TestPostService_ListPage_CountError(t *testing.T) {
	repo := &mockPostRepository{countErr: errors.New("database error")}
	svc := NewPostService(repo, zap.NewNop())

	_, err := svc.ListPage(context.Background(), 1)

	assert.Error(t, err)
}

func TestPostService_GetPost(t *testing.T) {
	t.Run("view increments are monotonic", func(t *testing.T) {
		repo := &mockPostRepository{post: &models.Post{ID: 1, AuthorID: 2, ViewCount: 0}}
		svc := NewPostService(repo, zap.NewNop())

		post, err := svc.GetPost(context.Background(), 1, true)
		require.NoError(t, err)
		assert.Equal(t, 1, post.ViewCount)

		post, err = svc.GetPost(context.Background(), 1, true)
		require.NoError(t, err)
		assert.Equal(t, 2, post.ViewCount)

		assert.Equal(t, 2, repo.incrementCalls)
	})

	t.Run("no increment when not requested", func(t *testing.T) {
		repo := &mockPostRepository{post: &models.Post{ID: 1, ViewCount: 5}}
		svc := NewPostService(repo, zap.NewNop())

		post, err := svc.GetPost(context.Background(), 1, false)

		require.NoError(t, err)
		assert.Equal(t, 5, post.ViewCount)
		assert.Equal(t, 0, repo.incrementCalls)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockPostRepository{getErr: shared.ErrNotFound}
		svc := NewPostService(repo, zap.NewNop())

		_, err := svc.GetPost(context.Background(), 99, true)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("increment failure surfaces", func(t *testing.T) {
		repo := &mockPostRepository{
			post:         &models.Post{ID: 1},
			incrementErr: errors.New("database error"),
		}
		svc := NewPostService(repo, zap.NewNop())

		_, err := svc.GetPost(context.Background(), 1, true)

		assert.Error(t, err)
	})
}

func TestPostService_CreatePost(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &mockPostRepository{}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.CreatePost(context.Background(), 3, "title", "content")

		require.NoError(t, err)
		require.NotNil(t, repo.created)
		assert.Equal(t, 3, repo.created.AuthorID)
		assert.Equal(t, "title", repo.created.Title)
		assert.Equal(t, 0, repo.created.ViewCount)
		assert.WithinDuration(t, time.Now(), repo.created.CreatedAt, time.Second)
	})

	t.Run("anonymous author rejected", func(t *testing.T) {
		repo := &mockPostRepository{}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.CreatePost(context.Background(), 0, "title", "content")

		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
		assert.Nil(t, repo.created)
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	post := &models.Post{ID: 1, AuthorID: 3, Title: "old", Content: "old body"}

	t.Run("author updates own post", func(t *testing.T) {
		repo := &mockPostRepository{post: post}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.UpdatePost(context.Background(), 3, 1, "new", "new body")

		require.NoError(t, err)
		assert.True(t, repo.updateCalled)
		assert.Equal(t, "new", repo.updateTitle)
		assert.Equal(t, "new body", repo.updateContent)
	})

	t.Run("non-author is rejected and post untouched", func(t *testing.T) {
		repo := &mockPostRepository{post: post}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.UpdatePost(context.Background(), 4, 1, "new", "new body")

		assert.ErrorIs(t, err, shared.ErrNotOwner)
		assert.False(t, repo.updateCalled)
	})

	t.Run("missing post", func(t *testing.T) {
		repo := &mockPostRepository{getErr: shared.ErrNotFound}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.UpdatePost(context.Background(), 3, 99, "new", "new body")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("anonymous requester rejected", func(t *testing.T) {
		repo := &mockPostRepository{post: post}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.UpdatePost(context.Background(), 0, 1, "new", "new body")

		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
		assert.False(t, repo.updateCalled)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	post := &models.Post{ID: 1, AuthorID: 3}

	admin := &models.SessionContext{UserID: 9, Roles: []string{models.RoleUser, models.RoleAdmin}}
	author := &models.SessionContext{UserID: 3, Roles: []string{models.RoleUser}}
	stranger := &models.SessionContext{UserID: 4, Roles: []string{models.RoleUser}}

	t.Run("admin deletes regardless of authorship", func(t *testing.T) {
		repo := &mockPostRepository{post: post}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.DeletePost(context.Background(), admin, 1)

		require.NoError(t, err)
		assert.True(t, repo.deleteCalled)
	})

	t.Run("author deletes own post", func(t *testing.T) {
		repo := &mockPostRepository{post: post}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.DeletePost(context.Background(), author, 1)

		require.NoError(t, err)
		assert.True(t, repo.deleteCalled)
	})

	t.Run("non-owner non-admin is a silent no-op", func(t *testing.T) {
		repo := &mockPostRepository{post: post}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.DeletePost(context.Background(), stranger, 1)

		require.NoError(t, err)
		assert.False(t, repo.deleteCalled)
	})

	t.Run("nil identity rejected", func(t *testing.T) {
		repo := &mockPostRepository{post: post}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.DeletePost(context.Background(), nil, 1)

		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
		assert.False(t, repo.deleteCalled)
	})

	t.Run("missing post for non-admin", func(t *testing.T) {
		repo := &mockPostRepository{getErr: shared.ErrNotFound}
		svc := NewPostService(repo, zap.NewNop())

		err := svc.DeletePost(context.Background(), author, 99)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
