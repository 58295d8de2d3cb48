package mapper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
)

func ptr[T any](v T) *T { return &v }

func TestProducts_PreservesOrderAndNulls(t *testing.T) {
	rows := []entity.ProductRow{
		{ProductID: ptr("p2"), Title: ptr("Desk"), Price: decimal.NewNullDecimal(decimal.RequireFromString("120.50"))},
		{ProductID: ptr("p1")},
	}

	got, err := Products(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, "Desk", *got[0].Title)
	assert.True(t, got[0].Price.Valid)
	assert.Equal(t, "120.5", got[0].Price.Decimal.String())

	assert.Equal(t, "p1", got[1].ID)
	assert.Nil(t, got[1].Title)
	assert.Nil(t, got[1].Description)
	assert.False(t, got[1].Price.Valid)
	assert.Nil(t, got[1].Images)
	assert.Nil(t, got[1].Comments)
}

func TestProducts_Empty(t *testing.T) {
	got, err := Products(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProducts_MissingIDIsMalformed(t *testing.T) {
	_, err := Products([]entity.ProductRow{{ProductID: ptr("p1")}, {Title: ptr("orphan")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), "row 1")
}

func TestComments(t *testing.T) {
	got, err := Comments([]entity.CommentRow{{
		CommentID: ptr("c1"),
		ProductID: ptr("p1"),
		Name:      ptr("Ada"),
		Email:     ptr("ada@example.com"),
		Body:      ptr("Sturdy."),
	}, {
		CommentID: ptr("c2"),
		ProductID: ptr("p1"),
	}})
	require.NoError(t, err)

	assert.Equal(t, domain.Comment{ID: "c1", ProductID: "p1", Name: "Ada", Email: "ada@example.com", Body: "Sturdy."}, got[0])
	assert.Equal(t, domain.Comment{ID: "c2", ProductID: "p1"}, got[1])
}

func TestComments_MissingID(t *testing.T) {
	_, err := Comments([]entity.CommentRow{{Name: ptr("x")}})
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestImages(t *testing.T) {
	got, err := Images([]entity.ImageRow{
		{ImageID: ptr("i1"), ProductID: ptr("p1"), URL: ptr("a.jpg"), Main: ptr(true)},
		{ImageID: ptr("i2"), ProductID: ptr("p1"), URL: ptr("b.jpg")},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Image{ID: "i1", ProductID: "p1", URL: "a.jpg", Main: true}, got[0])
	assert.False(t, got[1].Main)
}

func TestImages_MissingProductIsMalformed(t *testing.T) {
	_, err := Images([]entity.ImageRow{{ImageID: ptr("i1"), URL: ptr("a.jpg")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), "image i1")
}
