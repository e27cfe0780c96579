package product

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseCatalogQuery(t *testing.T) {
	values, err := url.ParseQuery("search=clavier&category=Informatique&minPrice=10&maxPrice=99.99&inStock=true&onSale=true&featured=true&sort=-price&page=3")
	require.NoError(t, err)

	q := parseCatalogQuery(values)

	assert.Equal(t, "clavier", q.Search)
	assert.Equal(t, "Informatique", q.Category)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, 10.0, *q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 99.99, *q.MaxPrice)
	assert.True(t, q.InStock)
	assert.True(t, q.OnSale)
	assert.True(t, q.Featured)
	assert.Equal(t, "-price", q.Sort)
	assert.Equal(t, int64(3), q.Page)
}

func TestParseCatalogQueryDefaults(t *testing.T) {
	q := parseCatalogQuery(url.Values{})

	assert.Empty(t, q.Search)
	assert.Empty(t, q.Category)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.False(t, q.InStock)
	assert.False(t, q.OnSale)
	assert.False(t, q.Featured)
	assert.Equal(t, int64(1), q.Page)
}

func TestParseCatalogQueryIgnoresInvalidValues(t *testing.T) {
	values := url.Values{
		"minPrice": {"abc"},
		"page":     {"0"},
		"inStock":  {"yes"},
	}

	q := parseCatalogQuery(values)

	assert.Nil(t, q.MinPrice)
	assert.Equal(t, int64(1), q.Page)
	assert.False(t, q.InStock)
}

func TestCatalogFilterEmpty(t *testing.T) {
	q := catalogQuery{}
	assert.Equal(t, bson.M{}, q.filter())
}

func TestCatalogFilterSearchEscapesRegex(t *testing.T) {
	q := catalogQuery{Search: "c++ (pro)"}
	filter := q.filter()

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	re := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `c\+\+ \(pro\)`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestCatalogFilterCombinesCriteria(t *testing.T) {
	min, max := 10.0, 50.0
	q := catalogQuery{
		Category: "Audio",
		MinPrice: &min,
		MaxPrice: &max,
		InStock:  true,
		OnSale:   true,
		Featured: true,
	}

	filter := q.filter()

	assert.Equal(t, "Audio", filter["category"])
	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 50.0}, filter["price"])
	assert.Equal(t, bson.M{"$gt": 0}, filter["count_in_stock"])
	assert.Equal(t, bson.M{"$gt": 0}, filter["discount"])
	assert.Equal(t, true, filter["featured"])
}

func TestCatalogFilterMinPriceOnly(t *testing.T) {
	min := 25.0
	q := catalogQuery{MinPrice: &min}

	assert.Equal(t, bson.M{"price": bson.M{"$gte": 25.0}}, q.filter())
}

func TestCatalogSortOrder(t *testing.T) {
	tests := []struct {
		sort  string
		field string
		dir   int
	}{
		{"price", "price", 1},
		{"-price", "price", -1},
		{"rating", "rating", 1},
		{"-rating", "rating", -1},
		{"numReviews", "num_reviews", 1},
		{"-numReviews", "num_reviews", -1},
		{"", "created_at", -1},
		{"prix", "created_at", -1},
	}

	for _, tt := range tests {
		t.Run("sort="+tt.sort, func(t *testing.T) {
			order := catalogQuery{Sort: tt.sort}.sortOrder()
			require.Len(t, order, 1)
			assert.Equal(t, tt.field, order[0].Key)
			assert.Equal(t, tt.dir, order[0].Value)
		})
	}
}
