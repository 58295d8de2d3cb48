package similarity

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop-project/catalog/internal/domain"
)

// memStore keeps directed rows under a unique (from, to) key.
type memStore struct {
	mu        sync.Mutex
	rows      [][2]string
	failOn    string
	deletions int
}

func (s *memStore) Neighbors(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, r := range s.rows {
		if r[0] == id {
			out = append(out, r[1])
		}
	}
	return out, nil
}

func (s *memStore) InsertEdge(_ context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from == s.failOn {
		return errors.New("insert failed")
	}
	if slices.Contains(s.rows, [2]string{from, to}) {
		return nil
	}
	s.rows = append(s.rows, [2]string{from, to})
	return nil
}

func (s *memStore) DeleteTouching(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletions++
	s.rows = slices.DeleteFunc(s.rows, func(r [2]string) bool {
		return slices.Contains(ids, r[0]) || slices.Contains(ids, r[1])
	})
	return nil
}

func TestLink_IsSymmetric(t *testing.T) {
	store := &memStore{}
	g := NewGraph(store, 2)
	ctx := context.Background()

	require.NoError(t, g.Link(ctx, []domain.Relation{{ProductID: "a", SimilarProductID: "b"}}))

	na, err := g.Neighbors(ctx, "a")
	require.NoError(t, err)
	nb, err := g.Neighbors(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, na)
	assert.Equal(t, []string{"a"}, nb)
}

func TestLink_IsIdempotent(t *testing.T) {
	store := &memStore{}
	g := NewGraph(store, 0)
	ctx := context.Background()

	rels := []domain.Relation{{ProductID: "a", SimilarProductID: "b"}}
	require.NoError(t, g.Link(ctx, rels))
	require.NoError(t, g.Link(ctx, rels))
	require.NoError(t, g.Link(ctx, []domain.Relation{{ProductID: "b", SimilarProductID: "a"}}))

	assert.Len(t, store.rows, 2)
	na, _ := g.Neighbors(ctx, "a")
	assert.Equal(t, []string{"b"}, na)
}

func TestLink_ManyRelations(t *testing.T) {
	store := &memStore{}
	g := NewGraph(store, 3)

	rels := []domain.Relation{
		{ProductID: "a", SimilarProductID: "b"},
		{ProductID: "a", SimilarProductID: "c"},
		{ProductID: "c", SimilarProductID: "d"},
	}
	require.NoError(t, g.Link(context.Background(), rels))

	na, _ := g.Neighbors(context.Background(), "a")
	nc, _ := g.Neighbors(context.Background(), "c")
	assert.ElementsMatch(t, []string{"b", "c"}, na)
	assert.ElementsMatch(t, []string{"a", "d"}, nc)
}

func TestLink_FailureFailsBatch(t *testing.T) {
	store := &memStore{failOn: "b"}
	g := NewGraph(store, 1)

	err := g.Link(context.Background(), []domain.Relation{{ProductID: "a", SimilarProductID: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link b -> a")
}

func TestNeighbors_NoEdgesIsEmptyNotNil(t *testing.T) {
	got, err := NewGraph(&memStore{}, 1).Neighbors(context.Background(), "lonely")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUnlink_RemovesBothDirections(t *testing.T) {
	store := &memStore{}
	g := NewGraph(store, 2)
	ctx := context.Background()

	require.NoError(t, g.Link(ctx, []domain.Relation{
		{ProductID: "a", SimilarProductID: "b"},
		{ProductID: "b", SimilarProductID: "c"},
		{ProductID: "d", SimilarProductID: "e"},
	}))

	require.NoError(t, g.Unlink(ctx, []string{"b", "b"}))
	assert.Equal(t, 1, store.deletions)

	for _, id := range []string{"a", "b", "c"} {
		n, _ := g.Neighbors(ctx, id)
		assert.Empty(t, n, id)
	}
	nd, _ := g.Neighbors(ctx, "d")
	assert.Equal(t, []string{"e"}, nd)
}

type errStore struct{ memStore }

func (*errStore) Neighbors(context.Context, string) ([]string, error) {
	return nil, errors.New("timeout")
}

func TestNeighbors_WrapsStoreError(t *testing.T) {
	_, err := NewGraph(&errStore{}, 1).Neighbors(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "similar of a")
}
