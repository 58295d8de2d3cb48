// Package similarity maintains the symmetric "similar product" relation.
// Each undirected edge {a, b} is stored as the two directed rows (a, b) and
// (b, a); the store's unique key makes repeated links a no-op.
package similarity

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/shop-project/catalog/internal/domain"
)

// DefaultConcurrency bounds the directed inserts in flight per Link call.
const DefaultConcurrency = 8

// EdgeStore persists directed similarity rows.
type EdgeStore interface {
	// Neighbors returns the ids reachable from id in storage order.
	Neighbors(ctx context.Context, id string) ([]string, error)
	// InsertEdge stores (from, to). An existing row is not an error.
	InsertEdge(ctx context.Context, from, to string) error
	// DeleteTouching removes every row whose either end is in ids.
	DeleteTouching(ctx context.Context, ids []string) error
}

// Graph exposes the undirected view over an EdgeStore.
type Graph struct {
	store       EdgeStore
	concurrency int
}

// NewGraph creates a Graph. A non-positive concurrency uses DefaultConcurrency.
func NewGraph(store EdgeStore, concurrency int) *Graph {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Graph{store: store, concurrency: concurrency}
}

// Neighbors returns the ids similar to id; never nil.
func (g *Graph) Neighbors(ctx context.Context, id string) ([]string, error) {
	ids, err := g.store.Neighbors(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("similar of %s: %w", id, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Link stores both directions of every relation. Inserts run concurrently;
// the first failure cancels the rest and is returned. Rows already written
// stay written.
func (g *Graph) Link(ctx context.Context, relations []domain.Relation) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for _, rel := range relations {
		for _, e := range [2][2]string{
			{rel.ProductID, rel.SimilarProductID},
			{rel.SimilarProductID, rel.ProductID},
		} {
			eg.Go(func() error {
				if err := g.store.InsertEdge(ctx, e[0], e[1]); err != nil {
					return fmt.Errorf("link %s -> %s: %w", e[0], e[1], err)
				}
				return nil
			})
		}
	}
	return eg.Wait()
}

// Unlink removes every edge touching any of ids in a single store call.
func (g *Graph) Unlink(ctx context.Context, ids []string) error {
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	if err := g.store.DeleteTouching(ctx, unique); err != nil {
		return fmt.Errorf("unlink %d products: %w", len(unique), err)
	}
	return nil
}
