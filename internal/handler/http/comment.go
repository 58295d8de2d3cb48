package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/service"
	"github.com/shop-project/catalog/pkg/httputil"
)

// CommentHandler handles the comment endpoints.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new comment HTTP handler.
func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: svc, logger: logger}
}

// CreateCommentRequest is the JSON body of POST /comments.
type CreateCommentRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Body      string `json:"body" validate:"required"`
}

// ListComments handles GET /comments.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comments})
}

// GetComment handles GET /comments/{id}.
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comment})
}

// CreateComment handles POST /comments.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if !decode(w, r, &req) {
		return
	}

	comment, err := h.service.Create(r.Context(), domain.NewComment{
		ProductID: req.ProductID,
		Name:      req.Name,
		Email:     req.Email,
		Body:      req.Body,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: comment})
}

// DeleteComment handles DELETE /comments/{id}.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}
