package models

import "time"

// Post represents a board post.
//
// AuthorName is projected from the users table at read time and is never
// part of the persisted post row.
type Post struct {
	ID         int       `json:"id"`
	AuthorID   int       `json:"authorId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ViewCount  int       `json:"viewCount"`
	AuthorName string    `json:"authorName"`
}

// PostSummary is the list-view projection of Post (no content body)
type PostSummary struct {
	ID         int       `json:"id"`
	AuthorID   int       `json:"authorId"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	ViewCount  int       `json:"viewCount"`
	AuthorName string    `json:"authorName"`
}

// PostPage is one page of the post list together with pagination totals
type PostPage struct {
	Posts       []PostSummary `json:"posts"`
	TotalCount  int           `json:"totalCount"`
	PageCount   int           `json:"pageCount"`
	CurrentPage int           `json:"currentPage"`
}

// CreatePostRequest is the payload for creating a post
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest is the payload for editing a post
type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
