package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/boardhub/backend/internal/middleware"
	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/shared"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostService is the interface that wraps methods for post business logic.
type PostService interface {
	// Method ListPage returns one page of post summaries with pagination totals.
	//
	// Page numbering is 1-based; the service does not clamp out-of-range pages.
	ListPage(ctx context.Context, page int) (*models.PostPage, error)
	// Method GetPost fetches a single post, bumping its view counter when
	// "incrementView" is true.
	//
	// If no post has that id, shared.ErrNotFound will be returned together with "nil" value.
	GetPost(ctx context.Context, postID int, incrementView bool) (*models.Post, error)
	// Method CreatePost inserts a new post for the given author.
	CreatePost(ctx context.Context, authorID int, title, content string) error
	// Method UpdatePost overwrites title and content of a post the requester wrote.
	//
	// Returns shared.ErrNotFound if the post is absent and shared.ErrNotOwner
	// if the requester is not the author.
	UpdatePost(ctx context.Context, requesterID, postID int, title, content string) error
	// Method DeletePost removes a post under the deletion policy: admins
	// delete unconditionally, authors delete their own posts, and any other
	// request is a silent no-op.
	DeletePost(ctx context.Context, identity *models.SessionContext, postID int) error
}

// PostHandler handles post CRUD HTTP requests
type PostHandler struct {
	BaseHandler
	service PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(service PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     service,
	}
}

// RegisterRoutes registers all post handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /posts
// @Summary List posts
// @Description Get one page of posts, newest first, with pagination totals
// @Tags posts
// @Produce json
// @Param page query int false "1-based page number, default 1"
// @Success 200 {object} models.PostPage
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		p, err := strconv.Atoi(pageParam)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid page parameter")
			return
		}
		page = p
	}
	// Clamping is this layer's job: the service passes whatever it gets
	// straight to the store.
	if page < 1 {
		page = 1
	}

	postPage, err := h.service.ListPage(r.Context(), page)
	if err != nil {
		h.Logger.Error("failed to list posts", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	h.RespondJSON(w, http.StatusOK, postPage)
}

// Get handles GET /posts/{id}
// @Summary Get a post
// @Description Get a post by id. Viewing increments the view counter unless forEdit=true is passed by an authenticated user prefilling the edit form.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Param forEdit query bool false "Fetch for the edit form without counting a view"
// @Success 200 {object} models.Post
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /posts/{id} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	// The no-increment variant exists only for the edit-form prefill and
	// needs a logged-in caller; anonymous reads always count a view.
	incrementView := true
	if r.URL.Query().Get("forEdit") == "true" {
		if _, ok := middleware.GetSessionContext(r.Context()); ok {
			incrementView = false
		}
	}

	post, err := h.service.GetPost(r.Context(), id, incrementView)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.RespondError(w, http.StatusNotFound, "post not found")
			return
		}
		h.Logger.Error("failed to get post", zap.Error(err), zap.Int("postId", id))
		h.RespondError(w, http.StatusInternalServerError, "failed to get post")
		return
	}

	h.RespondJSON(w, http.StatusOK, post)
}

// Create handles POST /posts
// @Summary Create a post
// @Description Create a new post for the logged-in user
// @Tags posts
// @Accept json
// @Produce json
// @Param request body models.CreatePostRequest true "Post content"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetSessionContext(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.Content == "" {
		h.RespondError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	if err := h.service.CreatePost(r.Context(), identity.UserID, req.Title, req.Content); err != nil {
		h.Logger.Error("failed to create post", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]string{"message": "post created"})
}

// Update handles PUT /posts/{id}
// @Summary Update a post
// @Description Overwrite title and content of a post. Only the author may edit; admins have no override here.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body models.UpdatePostRequest true "New content"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /posts/{id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetSessionContext(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.Content == "" {
		h.RespondError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	if err := h.service.UpdatePost(r.Context(), identity.UserID, id, req.Title, req.Content); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			h.RespondError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, shared.ErrNotOwner):
			h.RespondError(w, http.StatusForbidden, "only the author may edit this post")
		default:
			h.Logger.Error("failed to update post", zap.Error(err), zap.Int("postId", id))
			h.RespondError(w, http.StatusInternalServerError, "failed to update post")
		}
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "post updated"})
}

// Delete handles DELETE /posts/{id}
// @Summary Delete a post
// @Description Delete a post. Admins delete any post; authors delete their own. A non-owner request responds 204 without deleting anything, which mirrors the board's historical behavior (an explicit 403 would be the stricter design).
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 204 "Deleted (or silently ignored for a non-owner)"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetSessionContext(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	if err := h.service.DeletePost(r.Context(), identity, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.RespondError(w, http.StatusNotFound, "post not found")
			return
		}
		h.Logger.Error("failed to delete post", zap.Error(err), zap.Int("postId", id))
		h.RespondError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
