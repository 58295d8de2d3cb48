// Package service orchestrates catalog reads and writes. Reads go through
// the mapper and the aggregation engine; writes persist, re-read the
// aggregated view, and publish a domain event.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shop-project/catalog/internal/domain"
	apperrors "github.com/shop-project/catalog/pkg/errors"
	"github.com/shop-project/catalog/pkg/validator"
)

// EventPublisher emits catalog domain events. Publish failures are logged
// by the services and never fail the operation.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id string) error
	PublishSimilarityLinked(ctx context.Context, relations []domain.Relation) error
	PublishSimilarityUnlinked(ctx context.Context, productIDs []string) error
}

// notFoundAs replaces a bare ErrNotFound with an AppError naming id.
func notFoundAs(err error, resource, id string) error {
	var appErr *apperrors.AppError
	if errors.Is(err, apperrors.ErrNotFound) && !errors.As(err, &appErr) {
		return apperrors.NotFound(resource, id)
	}
	return err
}

func logPublishFailure(ctx context.Context, l *slog.Logger, topic string, err error, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("event", topic), slog.String("error", err.Error()))
	l.LogAttrs(ctx, slog.LevelError, "failed to publish event", attrs...)
}

func fieldError(field, message string) *validator.ValidationError {
	return &validator.ValidationError{Details: []validator.FieldError{{Field: field, Message: message}}}
}

func requireNonEmpty(field string, values []string) error {
	if len(values) == 0 {
		return fieldError(field, "must contain at least 1 item(s)")
	}
	var details []validator.FieldError
	for i, v := range values {
		if v == "" {
			details = append(details, validator.FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Message: "is required"})
		}
	}
	if len(details) > 0 {
		return &validator.ValidationError{Details: details}
	}
	return nil
}
