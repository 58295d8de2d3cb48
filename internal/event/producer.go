package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/shop-project/catalog/internal/domain"
	pkgkafka "github.com/shop-project/catalog/pkg/kafka"
	"github.com/shop-project/catalog/pkg/logger"
)

// Kafka topics for catalog domain events.
const (
	TopicProductCreated     = "catalog.product.created"
	TopicProductUpdated     = "catalog.product.updated"
	TopicProductDeleted     = "catalog.product.deleted"
	TopicSimilarityLinked   = "catalog.similarity.linked"
	TopicSimilarityUnlinked = "catalog.similarity.unlinked"
)

// Aggregate types.
const (
	AggregateTypeProduct    = "product"
	AggregateTypeSimilarity = "similarity"
)

// SourceCatalog identifies events originating from this service.
const SourceCatalog = "catalog"

// ProductData is the payload of product.created and product.updated.
type ProductData struct {
	ID          string              `json:"id"`
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	ImageIDs    []string            `json:"image_ids,omitempty"`
}

// ProductDeletedData is the payload of product.deleted.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// RelationData is one symmetric link in a similarity.linked payload.
type RelationData struct {
	ProductID        string `json:"product_id"`
	SimilarProductID string `json:"similar_product_id"`
}

// SimilarityLinkedData is the payload of similarity.linked.
type SimilarityLinkedData struct {
	Relations []RelationData `json:"relations"`
}

// SimilarityUnlinkedData is the payload of similarity.unlinked.
type SimilarityUnlinkedData struct {
	ProductIDs []string `json:"product_ids"`
}

// Producer publishes catalog domain events.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer on top of publisher.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
		slog.String("event_id", evt.EventID),
	)
	return nil
}

func productData(product *domain.Product) ProductData {
	data := ProductData{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
	}
	for _, img := range product.Images {
		data.ImageIDs = append(data.ImageIDs, img.ID)
	}
	return data
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id})
}

// PublishSimilarityLinked publishes one similarity.linked event for the
// whole batch, keyed by the first product so a batch stays on one partition.
func (p *Producer) PublishSimilarityLinked(ctx context.Context, relations []domain.Relation) error {
	if len(relations) == 0 {
		return nil
	}
	data := SimilarityLinkedData{Relations: make([]RelationData, len(relations))}
	for i, rel := range relations {
		data.Relations[i] = RelationData{ProductID: rel.ProductID, SimilarProductID: rel.SimilarProductID}
	}
	return p.publish(ctx, TopicSimilarityLinked, relations[0].ProductID, AggregateTypeSimilarity, data)
}

// PublishSimilarityUnlinked publishes a similarity.unlinked event.
func (p *Producer) PublishSimilarityUnlinked(ctx context.Context, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	return p.publish(ctx, TopicSimilarityUnlinked, productIDs[0], AggregateTypeSimilarity,
		SimilarityUnlinkedData{ProductIDs: productIDs})
}

// Noop discards every event. It is wired when Kafka is disabled.
type Noop struct{}

func (Noop) PublishProductCreated(context.Context, *domain.Product) error     { return nil }
func (Noop) PublishProductUpdated(context.Context, *domain.Product) error     { return nil }
func (Noop) PublishProductDeleted(context.Context, string) error              { return nil }
func (Noop) PublishSimilarityLinked(context.Context, []domain.Relation) error { return nil }
func (Noop) PublishSimilarityUnlinked(context.Context, []string) error        { return nil }
