package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
	apperrors "github.com/shop-project/catalog/pkg/errors"
)

func newCommentService() (*CommentService, *mockCommentRepository, *mockProductRepository) {
	comments := new(mockCommentRepository)
	products := new(mockProductRepository)
	return NewCommentService(comments, products, newTestLogger()), comments, products
}

func TestCommentService_Create(t *testing.T) {
	svc, comments, products := newCommentService()
	in := domain.NewComment{ProductID: "p1", Name: "Ann", Email: "ann@example.com", Body: "nice"}

	products.On("Exists", mock.Anything, "p1").Return(true, nil)
	comments.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Comment) bool {
		return c.ID != "" && c.ProductID == "p1" && c.Email == in.Email
	})).Return(nil)

	comment, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Ann", comment.Name)
	comments.AssertExpectations(t)
}

func TestCommentService_Create_UnknownProduct(t *testing.T) {
	svc, comments, products := newCommentService()
	products.On("Exists", mock.Anything, "ghost").Return(false, nil)

	_, err := svc.Create(ctx, domain.NewComment{ProductID: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentService_Get(t *testing.T) {
	svc, comments, _ := newCommentService()
	row := commentRow("c1", "p1")
	comments.On("GetByID", mock.Anything, "c1").Return(&row, nil)
	comments.On("GetByID", mock.Anything, "c2").Return(nil, fmt.Errorf("get: %w", apperrors.ErrNotFound))

	comment, err := svc.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "p1", comment.ProductID)

	_, err = svc.Get(ctx, "c2")
	assert.Contains(t, err.Error(), "comment with id c2 not found")
}

func TestCommentService_List(t *testing.T) {
	svc, comments, _ := newCommentService()
	comments.On("List", mock.Anything).Return([]entity.CommentRow{commentRow("c1", "p1"), commentRow("c2", "p2")}, nil)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCommentService_Delete(t *testing.T) {
	svc, comments, _ := newCommentService()
	comments.On("Delete", mock.Anything, "c1").Return(nil)
	comments.On("Delete", mock.Anything, "c2").Return(fmt.Errorf("delete: %w", apperrors.ErrNotFound))
	comments.On("Delete", mock.Anything, "c3").Return(errors.New("timeout"))

	assert.NoError(t, svc.Delete(ctx, "c1"))
	assert.Equal(t, 404, apperrors.HTTPStatus(svc.Delete(ctx, "c2")))
	assert.Equal(t, 500, apperrors.HTTPStatus(svc.Delete(ctx, "c3")))
}
