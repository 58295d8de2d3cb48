package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/mapper"
	"github.com/shop-project/catalog/internal/repository"
	apperrors "github.com/shop-project/catalog/pkg/errors"
)

// CommentService manages comments independently of products. Comments are
// only joined to products at read time.
type CommentService struct {
	comments repository.CommentRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, products repository.ProductRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, products: products, logger: logger}
}

func (s *CommentService) List(ctx context.Context) ([]domain.Comment, error) {
	rows, err := s.comments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	comments, err := mapper.Comments(rows)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*domain.Comment, error) {
	row, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "comment", id)
	}
	comment, err := mapper.Comment(*row)
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}
	return &comment, nil
}

// Create stores a comment on an existing product.
func (s *CommentService) Create(ctx context.Context, in domain.NewComment) (*domain.Comment, error) {
	ok, err := s.products.Exists(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if !ok {
		return nil, apperrors.NotFound("product", in.ProductID)
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		ProductID: in.ProductID,
		Name:      in.Name,
		Email:     in.Email,
		Body:      in.Body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created",
		slog.String("comment_id", comment.ID),
		slog.String("product_id", comment.ProductID),
	)
	return &comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		return notFoundAs(err, "comment", id)
	}
	s.logger.InfoContext(ctx, "comment deleted", slog.String("comment_id", id))
	return nil
}
