package models

import (
	"testing"

	"boutique_back_end/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func line(id primitive.ObjectID, price float64, discount, stock, qty int) CartLine {
	return CartLine{
		ProductID:    id,
		Name:         "produit",
		Price:        price,
		Discount:     discount,
		CountInStock: stock,
		Quantity:     qty,
	}
}

func TestCartAdd(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	cart := Cart{UserID: "u1"}

	require.NoError(t, cart.Add(line(p1, 20, 0, 10, 2)))
	require.NoError(t, cart.Add(line(p2, 5, 0, 3, 1)))
	require.Len(t, cart.Items, 2)

	// Le même produit fusionne la quantité au lieu de dupliquer la ligne
	require.NoError(t, cart.Add(line(p1, 20, 0, 10, 3)))
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// La quantité est bornée au stock de l'instantané
	require.NoError(t, cart.Add(line(p1, 20, 0, 10, 99)))
	assert.Equal(t, 10, cart.Items[0].Quantity)
}

func TestCartAddOutOfStock(t *testing.T) {
	cart := Cart{UserID: "u1"}
	err := cart.Add(line(primitive.NewObjectID(), 20, 0, 0, 1))
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, cart.Items)
}

func TestCartSetQuantity(t *testing.T) {
	p1 := primitive.NewObjectID()
	cart := Cart{UserID: "u1"}
	require.NoError(t, cart.Add(line(p1, 20, 0, 4, 1)))

	assert.True(t, cart.SetQuantity(p1, 3))
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// bornes: jamais au-dessus du stock, jamais sous 1
	assert.True(t, cart.SetQuantity(p1, 50))
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.True(t, cart.SetQuantity(p1, 0))
	assert.Equal(t, 1, cart.Items[0].Quantity)

	assert.False(t, cart.SetQuantity(primitive.NewObjectID(), 2))
}

func TestCartRemove(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	cart := Cart{UserID: "u1"}
	require.NoError(t, cart.Add(line(p1, 20, 0, 10, 1)))
	require.NoError(t, cart.Add(line(p2, 5, 0, 10, 1)))

	cart.Remove(p1)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, p2, cart.Items[0].ProductID)

	// retirer un produit absent est un no-op
	cart.Remove(p1)
	assert.Len(t, cart.Items, 1)
}

func TestCartTotals(t *testing.T) {
	cart := Cart{UserID: "u1"}
	require.NoError(t, cart.Add(line(primitive.NewObjectID(), 50, 10, 10, 2)))

	got := cart.Totals()
	want := pricing.Compute([]pricing.Line{{Price: 50, Discount: 10, Quantity: 2}})
	assert.Equal(t, want, got)
	assert.InDelta(t, 109, got.TotalPrice, 0.001)
}
