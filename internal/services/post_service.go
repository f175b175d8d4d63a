package services

import (
	"context"
	"fmt"
	"time"

	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/shared"
	"go.uber.org/zap"
)

// PostRepository is the interface that wraps methods for Post table data access
type PostRepository interface {
	// Method Create inserts a new post with view_count = 0.
	//
	// The generated id is written back to "post".
	// If some error occurs during post creation, the error will be returned.
	Create(ctx context.Context, post *models.Post) error
	// Method Count returns the total number of posts.
	Count(ctx context.Context) (int, error)
	// Method List retrieves one page of post summaries, newest id first,
	// joined with the author display name.
	//
	// An out-of-range offset yields an empty slice, not an error.
	List(ctx context.Context, offset, limit int) ([]models.PostSummary, error)
	// Method GetByID retrieves a post joined with the author display name.
	//
	// If no post has that id, shared.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, postID int) (*models.Post, error)
	// Method IncrementViewCount atomically adds one to the post's view counter.
	//
	// The increment must be a store-level atomic add, never a read-modify-write
	// in application code, so concurrent viewers do not lose updates.
	IncrementViewCount(ctx context.Context, postID int) error
	// Method Update overwrites title and content of an existing post.
	Update(ctx context.Context, postID int, title, content string) error
	// Method Delete removes a post. Deleting an absent post is not an error.
	Delete(ctx context.Context, postID int) error
}

// PageSize is the fixed number of posts per list page
const PageSize = 10

// postService implements pagination, view-count accounting and the
// ownership/role rules governing post mutation
type postService struct {
	postRepo PostRepository
	logger   *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(postRepo PostRepository, logger *zap.Logger) *postService {
	return &postService{
		postRepo: postRepo,
		logger:   logger,
	}
}

// ListPage returns one page of post summaries with pagination totals.
//
// pageCount = ceil(totalCount / PageSize), so an empty board has zero pages.
// The page number is not validated or clamped here: callers are responsible
// for passing a sane value, and an out-of-range offset simply produces an
// empty page.
func (s *postService) ListPage(ctx context.Context, page int) (*models.PostPage, error) {
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	offset := (page - 1) * PageSize
	posts, err := s.postRepo.List(ctx, offset, PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &models.PostPage{
		Posts:       posts,
		TotalCount:  total,
		PageCount:   (total + PageSize - 1) / PageSize,
		CurrentPage: page,
	}, nil
}

// GetPost fetches a single post. When incrementView is true the view
// counter is bumped by a separate atomic write after the read succeeds,
// and the returned post reflects the bumped value.
func (s *postService) GetPost(ctx context.Context, postID int, incrementView bool) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if incrementView {
		if err := s.postRepo.IncrementViewCount(ctx, postID); err != nil {
			return nil, fmt.Errorf("failed to increment view count: %w", err)
		}
		post.ViewCount++
	}

	return post, nil
}

// CreatePost inserts a new post for the given author. Rejecting anonymous
// requests is the caller's job; an unresolved author id is still refused
// here so a post can never be written with a null author.
func (s *postService) CreatePost(ctx context.Context, authorID int, title, content string) error {
	if authorID <= 0 {
		return shared.ErrUnauthenticated
	}

	post := &models.Post{
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return err
	}

	s.logger.Info("post created", zap.Int("postId", post.ID), zap.Int("authorId", authorID))
	return nil
}

// UpdatePost overwrites title and content of a post the requester wrote.
//
// Only the author may ever edit: there is no admin override for updates.
// Returns shared.ErrNotFound if the post is absent and shared.ErrNotOwner
// if the requester is not the author.
func (s *postService) UpdatePost(ctx context.Context, requesterID, postID int, title, content string) error {
	if requesterID <= 0 {
		return shared.ErrUnauthenticated
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != requesterID {
		return shared.ErrNotOwner
	}

	return s.postRepo.Update(ctx, postID, title, content)
}

// DeletePost removes a post under the board's deletion policy: an admin
// deletes unconditionally, the author deletes their own post, and a
// non-owner non-admin request does nothing and reports no error.
//
// The silent no-op on the last branch is long-standing observable
// behavior; surfacing a forbidden error instead would be a policy change
// to take deliberately, not a drive-by fix.
func (s *postService) DeletePost(ctx context.Context, identity *models.SessionContext, postID int) error {
	if identity == nil {
		return shared.ErrUnauthenticated
	}

	if identity.HasRole(models.RoleAdmin) {
		return s.postRepo.Delete(ctx, postID)
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != identity.UserID {
		s.logger.Info("delete ignored for non-owner",
			zap.Int("postId", postID),
			zap.Int("userId", identity.UserID),
		)
		return nil
	}

	return s.postRepo.Delete(ctx, postID)
}
