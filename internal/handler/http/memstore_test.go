package http

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
	apperrors "github.com/shop-project/catalog/pkg/errors"
)

// memDB keeps the three catalog tables and the edge table in insertion
// order, the way a heap scan without ORDER BY usually returns them.
type memDB struct {
	mu       sync.Mutex
	products []entity.ProductRow
	comments []entity.CommentRow
	images   []entity.ImageRow
	edges    [][2]string

	productQueries int
	commentLists   int
	imageLists     int
}

func newMemDB() *memDB { return &memDB{} }

func ptr[T any](v T) *T { return &v }

// --- products ---

type memProducts struct{ db *memDB }

func (m memProducts) List(context.Context) ([]entity.ProductRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.productQueries++
	return slices.Clone(m.db.products), nil
}

func containsFold(field *string, needle string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), strings.ToLower(needle))
}

func (m memProducts) Search(_ context.Context, f domain.SearchFilter) ([]entity.ProductRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.productQueries++

	out := []entity.ProductRow{}
	for _, p := range m.db.products {
		if f.Search != nil && !containsFold(p.Title, *f.Search) && !containsFold(p.Description, *f.Search) {
			continue
		}
		if f.Title != nil && !containsFold(p.Title, *f.Title) {
			continue
		}
		if f.Description != nil && !containsFold(p.Description, *f.Description) {
			continue
		}
		if f.MinPrice != nil && (!p.Price.Valid || p.Price.Decimal.LessThan(*f.MinPrice)) {
			continue
		}
		if f.MaxPrice != nil && (!p.Price.Valid || p.Price.Decimal.GreaterThan(*f.MaxPrice)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m memProducts) find(id string) int {
	return slices.IndexFunc(m.db.products, func(p entity.ProductRow) bool { return *p.ProductID == id })
}

func (m memProducts) GetByID(_ context.Context, id string) (*entity.ProductRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.productQueries++
	i := m.find(id)
	if i < 0 {
		return nil, fmt.Errorf("get product %s: %w", id, apperrors.ErrNotFound)
	}
	row := m.db.products[i]
	return &row, nil
}

func (m memProducts) GetByIDs(_ context.Context, ids []string) ([]entity.ProductRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.productQueries++
	out := []entity.ProductRow{}
	for _, p := range m.db.products {
		if slices.Contains(ids, *p.ProductID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memProducts) Exists(_ context.Context, id string) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return m.find(id) >= 0, nil
}

func (m memProducts) Create(_ context.Context, id string, p domain.NewProduct) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.products = append(m.db.products, entity.ProductRow{
		ProductID:   ptr(id),
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
	})
	return nil
}

func (m memProducts) Update(_ context.Context, id string, u domain.ProductUpdate) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return fmt.Errorf("update product %s: %w", id, apperrors.ErrNotFound)
	}
	row := &m.db.products[i]
	if u.Title != nil {
		row.Title = u.Title
	}
	if u.Description != nil {
		row.Description = u.Description
	}
	if u.Price != nil {
		row.Price = decimal.NewNullDecimal(*u.Price)
	}
	return nil
}

func (m memProducts) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.products = slices.DeleteFunc(m.db.products, func(p entity.ProductRow) bool { return *p.ProductID == id })
	return nil
}

// --- comments ---

type memComments struct{ db *memDB }

func (m memComments) List(context.Context) ([]entity.CommentRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.commentLists++
	return slices.Clone(m.db.comments), nil
}

func (m memComments) ListByProduct(_ context.Context, productID string) ([]entity.CommentRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []entity.CommentRow{}
	for _, c := range m.db.comments {
		if *c.ProductID == productID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memComments) GetByID(_ context.Context, id string) (*entity.CommentRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, c := range m.db.comments {
		if *c.CommentID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("get comment %s: %w", id, apperrors.ErrNotFound)
}

func (m memComments) Create(_ context.Context, c domain.Comment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.comments = append(m.db.comments, entity.CommentRow{
		CommentID: ptr(c.ID),
		ProductID: ptr(c.ProductID),
		Name:      ptr(c.Name),
		Email:     ptr(c.Email),
		Body:      ptr(c.Body),
	})
	return nil
}

func (m memComments) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	n := len(m.db.comments)
	m.db.comments = slices.DeleteFunc(m.db.comments, func(c entity.CommentRow) bool { return *c.CommentID == id })
	if len(m.db.comments) == n {
		return fmt.Errorf("delete comment %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (m memComments) DeleteByProduct(_ context.Context, productID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.comments = slices.DeleteFunc(m.db.comments, func(c entity.CommentRow) bool { return *c.ProductID == productID })
	return nil
}

// --- images ---

type memImages struct{ db *memDB }

func (m memImages) List(context.Context) ([]entity.ImageRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.imageLists++
	return slices.Clone(m.db.images), nil
}

func (m memImages) ListByProduct(_ context.Context, productID string) ([]entity.ImageRow, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []entity.ImageRow{}
	for _, img := range m.db.images {
		if *img.ProductID == productID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (m memImages) CreateBatch(_ context.Context, images []domain.Image) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, img := range images {
		m.db.images = append(m.db.images, entity.ImageRow{
			ImageID:   ptr(img.ID),
			ProductID: ptr(img.ProductID),
			URL:       ptr(img.URL),
			Main:      ptr(img.Main),
		})
	}
	return nil
}

func (m memImages) DeleteByIDs(_ context.Context, ids []string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.images = slices.DeleteFunc(m.db.images, func(img entity.ImageRow) bool { return slices.Contains(ids, *img.ImageID) })
	return nil
}

func (m memImages) DeleteByProduct(_ context.Context, productID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.images = slices.DeleteFunc(m.db.images, func(img entity.ImageRow) bool { return *img.ProductID == productID })
	return nil
}

func (m memImages) SetMain(_ context.Context, productID, imageID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	owned := slices.ContainsFunc(m.db.images, func(img entity.ImageRow) bool {
		return *img.ImageID == imageID && *img.ProductID == productID
	})
	if !owned {
		return apperrors.NotFound("image", imageID)
	}
	for i := range m.db.images {
		if *m.db.images[i].ProductID == productID {
			m.db.images[i].Main = ptr(*m.db.images[i].ImageID == imageID)
		}
	}
	return nil
}

// --- similarity edges ---

type memEdges struct{ db *memDB }

func (m memEdges) Neighbors(_ context.Context, id string) ([]string, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []string
	for _, e := range m.db.edges {
		if e[0] == id {
			out = append(out, e[1])
		}
	}
	return out, nil
}

func (m memEdges) InsertEdge(_ context.Context, from, to string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if !slices.Contains(m.db.edges, [2]string{from, to}) {
		m.db.edges = append(m.db.edges, [2]string{from, to})
	}
	return nil
}

func (m memEdges) DeleteTouching(_ context.Context, ids []string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.edges = slices.DeleteFunc(m.db.edges, func(e [2]string) bool {
		return slices.Contains(ids, e[0]) || slices.Contains(ids, e[1])
	})
	return nil
}

func (m *memDB) edgeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edges)
}
