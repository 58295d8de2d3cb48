package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shop-project/catalog/pkg/database"
)

// SimilarityRepository stores directed similarity edges. It implements
// similarity.EdgeStore.
type SimilarityRepository struct {
	db database.DBTX
}

// NewSimilarityRepository creates an edge store over db.
func NewSimilarityRepository(db database.DBTX) *SimilarityRepository {
	return &SimilarityRepository{db: db}
}

// Neighbors returns the ids linked from id in retrieval order.
func (r *SimilarityRepository) Neighbors(ctx context.Context, id string) (_ []string, err error) {
	const sql = "SELECT similar_product_id FROM product_similarities WHERE product_id = $1"
	ctx, end := database.TraceQuery(ctx, "ListSimilar", sql)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, sql, id)
	if err != nil {
		return nil, fmt.Errorf("list similar of %s: %w", id, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list similar of %s: %w", id, err)
	}
	return ids, nil
}

// InsertEdge stores the directed edge from -> to. An existing edge is left
// as is.
func (r *SimilarityRepository) InsertEdge(ctx context.Context, from, to string) (err error) {
	const sql = `INSERT INTO product_similarities (product_id, similar_product_id)
VALUES ($1, $2) ON CONFLICT DO NOTHING`
	ctx, end := database.TraceQuery(ctx, "InsertSimilar", sql)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, sql, from, to); err != nil {
		return fmt.Errorf("insert similar %s -> %s: %w", from, to, err)
	}
	return nil
}

// DeleteTouching removes every edge with either endpoint in ids.
func (r *SimilarityRepository) DeleteTouching(ctx context.Context, ids []string) (err error) {
	const sql = `DELETE FROM product_similarities
WHERE product_id = ANY($1) OR similar_product_id = ANY($1)`
	ctx, end := database.TraceQuery(ctx, "DeleteSimilar", sql)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, sql, ids); err != nil {
		return fmt.Errorf("delete similar: %w", err)
	}
	return nil
}
