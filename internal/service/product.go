package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shop-project/catalog/internal/aggregate"
	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/event"
	"github.com/shop-project/catalog/internal/mapper"
	"github.com/shop-project/catalog/internal/repository"
	"github.com/shop-project/catalog/internal/similarity"
	apperrors "github.com/shop-project/catalog/pkg/errors"
	"github.com/shop-project/catalog/pkg/validator"
)

// ProductService implements the product and similarity operations.
type ProductService struct {
	products repository.ProductRepository
	comments repository.CommentRepository
	images   repository.ImageRepository
	graph    *similarity.Graph
	events   EventPublisher
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	comments repository.CommentRepository,
	images repository.ImageRepository,
	graph *similarity.Graph,
	events EventPublisher,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		comments: comments,
		images:   images,
		graph:    graph,
		events:   events,
		logger:   logger,
	}
}

// relations reads every comment and image concurrently.
func (s *ProductService) relations(ctx context.Context) ([]domain.Comment, []domain.Image, error) {
	var (
		comments []domain.Comment
		images   []domain.Image
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.comments.List(gctx)
		if err != nil {
			return err
		}
		comments, err = mapper.Comments(rows)
		return err
	})
	g.Go(func() error {
		rows, err := s.images.List(gctx)
		if err != nil {
			return err
		}
		images, err = mapper.Images(rows)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return comments, images, nil
}

// List returns every product with its comments, images and thumbnail.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products, err := mapper.Products(rows)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	comments, images, err := s.relations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return aggregate.Products(products, comments, images), nil
}

// Search returns the aggregated products matching filter. When nothing
// matches, comments and images are not read.
func (s *ProductService) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Product, error) {
	rows, err := s.products.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	if len(rows) == 0 {
		return []domain.Product{}, nil
	}
	products, err := mapper.Products(rows)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	comments, images, err := s.relations(ctx)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return aggregate.Products(products, comments, images), nil
}

// Get returns one aggregated product.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	row, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "product", id)
	}
	product, err := mapper.Product(*row)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	commentRows, err := s.comments.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	comments, err := mapper.Comments(commentRows)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	imageRows, err := s.images.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	images, err := mapper.Images(imageRows)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	result := aggregate.Attach(product, comments, images)
	return &result, nil
}

func (s *ProductService) ensureExists(ctx context.Context, id string) error {
	ok, err := s.products.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check product %s: %w", id, err)
	}
	if !ok {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func newImages(productID string, in []domain.NewImage) []domain.Image {
	images := make([]domain.Image, len(in))
	for i, img := range in {
		images[i] = domain.Image{
			ID:        uuid.NewString(),
			ProductID: productID,
			URL:       img.URL,
			Main:      img.Main,
		}
	}
	return images
}

// Create stores a new product and its images and returns the aggregated view.
func (s *ProductService) Create(ctx context.Context, in domain.NewProduct) (*domain.Product, error) {
	id := uuid.NewString()
	if err := s.products.Create(ctx, id, in); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if len(in.Images) > 0 {
		if err := s.images.CreateBatch(ctx, newImages(id, in.Images)); err != nil {
			return nil, fmt.Errorf("create product images: %w", err)
		}
	}

	product, err := s.Get(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Internal(fmt.Errorf("failed to retrieve created product %s: %w", id, err))
	}
	if err != nil {
		return nil, err
	}

	if err := s.events.PublishProductCreated(ctx, product); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicProductCreated, err, slog.String("product_id", id))
	}
	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", id),
		slog.Int("images", len(in.Images)),
	)
	return product, nil
}

// Update changes the fields present in u and returns the aggregated view.
func (s *ProductService) Update(ctx context.Context, id string, u domain.ProductUpdate) (*domain.Product, error) {
	if u.IsEmpty() {
		return s.Get(ctx, id)
	}
	if err := s.products.Update(ctx, id, u); err != nil {
		return nil, notFoundAs(err, "product", id)
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.events.PublishProductUpdated(ctx, product); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicProductUpdated, err, slog.String("product_id", id))
	}
	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", id))
	return product, nil
}

// Delete removes the product's images, then its comments, then the product.
// Similarity edges are left in place.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.ensureExists(ctx, id); err != nil {
		return err
	}
	if err := s.images.DeleteByProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if err := s.comments.DeleteByProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	if err := s.events.PublishProductDeleted(ctx, id); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicProductDeleted, err, slog.String("product_id", id))
	}
	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

// AddImages attaches images to an existing product.
func (s *ProductService) AddImages(ctx context.Context, productID string, in []domain.NewImage) error {
	if len(in) == 0 {
		return fieldError("images", "must contain at least 1 item(s)")
	}
	if err := s.ensureExists(ctx, productID); err != nil {
		return err
	}
	if err := s.images.CreateBatch(ctx, newImages(productID, in)); err != nil {
		return fmt.Errorf("add images to product %s: %w", productID, err)
	}
	s.logger.InfoContext(ctx, "images added",
		slog.String("product_id", productID),
		slog.Int("count", len(in)),
	)
	return nil
}

// RemoveImages deletes the given images. Unknown ids are ignored.
func (s *ProductService) RemoveImages(ctx context.Context, imageIDs []string) error {
	if err := requireNonEmpty("imageIds", imageIDs); err != nil {
		return err
	}
	if err := s.images.DeleteByIDs(ctx, imageIDs); err != nil {
		return fmt.Errorf("remove images: %w", err)
	}
	return nil
}

// ReplaceThumbnail makes imageID the only main image of the product.
func (s *ProductService) ReplaceThumbnail(ctx context.Context, productID, imageID string) (*domain.Product, error) {
	if err := validator.ValidateVar("newThumbnailId", imageID, "required"); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.images.SetMain(ctx, productID, imageID); err != nil {
		return nil, notFoundAs(err, "image", imageID)
	}
	return s.Get(ctx, productID)
}

// Similar returns the products linked to id. Results carry no comments or
// images.
func (s *ProductService) Similar(ctx context.Context, id string) ([]domain.Product, error) {
	if err := validator.ValidateVar("id", id, "required"); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}

	ids, err := s.graph.Neighbors(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	rows, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("similar of %s: %w", id, err)
	}
	products, err := mapper.Products(rows)
	if err != nil {
		return nil, fmt.Errorf("similar of %s: %w", id, err)
	}
	return products, nil
}

// AddSimilar links every pair in both directions.
func (s *ProductService) AddSimilar(ctx context.Context, relations []domain.Relation) error {
	if len(relations) == 0 {
		return fieldError("relations", "must contain at least 1 item(s)")
	}
	var details []validator.FieldError
	for i, rel := range relations {
		if rel.ProductID == "" {
			details = append(details, validator.FieldError{Field: fmt.Sprintf("relations[%d].productId", i), Message: "is required"})
		}
		if rel.SimilarProductID == "" {
			details = append(details, validator.FieldError{Field: fmt.Sprintf("relations[%d].similarProductId", i), Message: "is required"})
		}
	}
	if len(details) > 0 {
		return &validator.ValidationError{Details: details}
	}

	if err := s.graph.Link(ctx, relations); err != nil {
		return err
	}

	if err := s.events.PublishSimilarityLinked(ctx, relations); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicSimilarityLinked, err)
	}
	s.logger.InfoContext(ctx, "similar products linked", slog.Int("relations", len(relations)))
	return nil
}

// RemoveSimilar drops every edge touching any of productIDs.
func (s *ProductService) RemoveSimilar(ctx context.Context, productIDs []string) error {
	if err := requireNonEmpty("productIds", productIDs); err != nil {
		return err
	}
	if err := s.graph.Unlink(ctx, productIDs); err != nil {
		return err
	}

	if err := s.events.PublishSimilarityUnlinked(ctx, productIDs); err != nil {
		logPublishFailure(ctx, s.logger, event.TopicSimilarityUnlinked, err)
	}
	s.logger.InfoContext(ctx, "similar links removed", slog.Int("products", len(productIDs)))
	return nil
}
