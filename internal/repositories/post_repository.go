package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/shared"
	"go.uber.org/zap"
)

// postRepository implements PostRepository over the posts table
type postRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *sql.DB, logger *zap.Logger) *postRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new post and writes the generated id back to post.ID
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (author_id, title, content, created_at, view_count)
		VALUES (?, ?, ?, ?, 0)
	`

	result, err := r.db.ExecContext(ctx, query, post.AuthorID, post.Title, post.Content, post.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create post", zap.Error(err))
		return fmt.Errorf("failed to create post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	post.ID = int(id)
	return nil
}

// Count returns the total number of posts
func (r *postRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM posts`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		r.logger.Error("failed to count posts", zap.Error(err))
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return count, nil
}

// List retrieves one page of post summaries joined with the author name,
// newest id first. An out-of-range offset yields an empty slice.
func (r *postRepository) List(ctx context.Context, offset, limit int) ([]models.PostSummary, error) {
	query := `
		SELECT p.id, p.author_id, p.title, p.created_at, p.view_count, u.name
		FROM posts p
		JOIN users u ON p.author_id = u.id
		ORDER BY p.id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("failed to list posts", zap.Error(err), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	summaries := []models.PostSummary{}
	for rows.Next() {
		var s models.PostSummary
		if err := rows.Scan(&s.ID, &s.AuthorID, &s.Title, &s.CreatedAt, &s.ViewCount, &s.AuthorName); err != nil {
			r.logger.Error("failed to scan post summary", zap.Error(err))
			return nil, fmt.Errorf("failed to scan post summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return summaries, nil
}

// GetByID retrieves a single post joined with the author name
func (r *postRepository) GetByID(ctx context.Context, postID int) (*models.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.title, p.content, p.created_at, p.view_count, u.name
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = ?
	`

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.ViewCount,
		&post.AuthorName,
	)

	if err == sql.ErrNoRows {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get post by id", zap.Error(err), zap.Int("postId", postID))
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

// IncrementViewCount adds one to the post's view counter. The increment is
// a single atomic UPDATE; concurrent viewers never lose updates.
func (r *postRepository) IncrementViewCount(ctx context.Context, postID int) error {
	query := `UPDATE posts SET view_count = view_count + 1 WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		r.logger.Error("failed to increment view count", zap.Error(err), zap.Int("postId", postID))
		return fmt.Errorf("failed to increment view count: %w", err)
	}

	return nil
}

// Update overwrites title and content, leaving id, author and timestamps unchanged
func (r *postRepository) Update(ctx context.Context, postID int, title, content string) error {
	query := `UPDATE posts SET title = ?, content = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, title, content, postID); err != nil {
		r.logger.Error("failed to update post", zap.Error(err), zap.Int("postId", postID))
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// Delete removes the post row. Deletion is destructive and immediate.
func (r *postRepository) Delete(ctx context.Context, postID int) error {
	query := `DELETE FROM posts WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		r.logger.Error("failed to delete post", zap.Error(err), zap.Int("postId", postID))
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}
