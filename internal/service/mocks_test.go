package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
	"github.com/shop-project/catalog/internal/similarity"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) List(ctx context.Context) ([]entity.ProductRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.ProductRow), args.Error(1)
}

func (m *mockProductRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]entity.ProductRow, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entity.ProductRow), args.Error(1)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*entity.ProductRow, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, string) *entity.ProductRow); ok {
		return fn(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductRow), args.Error(1)
}

func (m *mockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.ProductRow, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]entity.ProductRow), args.Error(1)
}

func (m *mockProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepository) Create(ctx context.Context, id string, p domain.NewProduct) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *mockProductRepository) Update(ctx context.Context, id string, u domain.ProductUpdate) error {
	args := m.Called(ctx, id, u)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) List(ctx context.Context) ([]entity.CommentRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.CommentRow), args.Error(1)
}

func (m *mockCommentRepository) ListByProduct(ctx context.Context, productID string) ([]entity.CommentRow, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]entity.CommentRow), args.Error(1)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*entity.CommentRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommentRow), args.Error(1)
}

func (m *mockCommentRepository) Create(ctx context.Context, c domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepository) DeleteByProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type mockImageRepository struct {
	mock.Mock
}

func (m *mockImageRepository) List(ctx context.Context) ([]entity.ImageRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.ImageRow), args.Error(1)
}

func (m *mockImageRepository) ListByProduct(ctx context.Context, productID string) ([]entity.ImageRow, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]entity.ImageRow), args.Error(1)
}

func (m *mockImageRepository) CreateBatch(ctx context.Context, images []domain.Image) error {
	args := m.Called(ctx, images)
	return args.Error(0)
}

func (m *mockImageRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *mockImageRepository) DeleteByProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *mockImageRepository) SetMain(ctx context.Context, productID, imageID string) error {
	args := m.Called(ctx, productID, imageID)
	return args.Error(0)
}

type mockEdgeStore struct {
	mock.Mock
}

func (m *mockEdgeStore) Neighbors(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockEdgeStore) InsertEdge(ctx context.Context, from, to string) error {
	args := m.Called(ctx, from, to)
	return args.Error(0)
}

func (m *mockEdgeStore) DeleteTouching(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// --- Mock Event Publisher ---

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishProductCreated(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockEvents) PublishProductUpdated(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockEvents) PublishProductDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEvents) PublishSimilarityLinked(ctx context.Context, rels []domain.Relation) error {
	return m.Called(ctx, rels).Error(0)
}

func (m *mockEvents) PublishSimilarityUnlinked(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

// --- Test Helpers ---

type fixture struct {
	products *mockProductRepository
	comments *mockCommentRepository
	images   *mockImageRepository
	edges    *mockEdgeStore
	events   *mockEvents
	svc      *ProductService
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture() *fixture {
	f := &fixture{
		products: new(mockProductRepository),
		comments: new(mockCommentRepository),
		images:   new(mockImageRepository),
		edges:    new(mockEdgeStore),
		events:   new(mockEvents),
	}
	f.svc = NewProductService(f.products, f.comments, f.images,
		similarity.NewGraph(f.edges, 2), f.events, newTestLogger())
	return f
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.products.AssertExpectations(t)
	f.comments.AssertExpectations(t)
	f.images.AssertExpectations(t)
	f.edges.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func productRow(id, title string) entity.ProductRow {
	return entity.ProductRow{ProductID: strPtr(id), Title: strPtr(title)}
}

func imageRow(id, productID string, main bool) entity.ImageRow {
	return entity.ImageRow{ImageID: strPtr(id), ProductID: strPtr(productID), URL: strPtr("https://cdn/" + id), Main: boolPtr(main)}
}

func commentRow(id, productID string) entity.CommentRow {
	return entity.CommentRow{
		CommentID: strPtr(id),
		ProductID: strPtr(productID),
		Name:      strPtr("Ann"),
		Email:     strPtr("ann@example.com"),
		Body:      strPtr("nice"),
	}
}
