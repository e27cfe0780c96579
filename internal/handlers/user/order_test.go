package user

import (
	"testing"

	"boutique_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validOrderInput() createOrderInput {
	return createOrderInput{
		OrderItems: []orderItemInput{
			{
				ProductID: primitive.NewObjectID().Hex(),
				Name:      "Casque sans fil",
				Image:     "/images/casque.jpg",
				Price:     45,
				Quantity:  2,
			},
		},
		ShippingAddress: models.ShippingAddress{
			Address:    "12 rue de la Paix",
			City:       "Bruxelles",
			PostalCode: "1000",
			Country:    "Belgique",
		},
		PaymentMethod: "card",
		ItemsPrice:    90,
		TaxPrice:      9,
		ShippingPrice: 10,
		TotalPrice:    109,
	}
}

func TestOrderFromInput(t *testing.T) {
	userOID := primitive.NewObjectID()
	input := validOrderInput()

	order, err := orderFromInput(input, userOID)
	require.NoError(t, err)

	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, userOID, order.UserID)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Casque sans fil", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// Montants recalculés côté serveur
	assert.Equal(t, 90.0, order.ItemsPrice)
	assert.Equal(t, 9.0, order.TaxPrice)
	assert.Equal(t, 10.0, order.ShippingPrice)
	assert.Equal(t, 109.0, order.TotalPrice)
}

func TestOrderFromInputToleratesRoundingGap(t *testing.T) {
	input := validOrderInput()
	input.TotalPrice = 109.01

	_, err := orderFromInput(input, primitive.NewObjectID())
	assert.NoError(t, err)
}

func TestOrderFromInputRejectsEmptyCart(t *testing.T) {
	input := validOrderInput()
	input.OrderItems = nil

	_, err := orderFromInput(input, primitive.NewObjectID())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vide")
}

func TestOrderFromInputRejectsIncompleteAddress(t *testing.T) {
	fields := []func(*models.ShippingAddress){
		func(a *models.ShippingAddress) { a.Address = "" },
		func(a *models.ShippingAddress) { a.City = "" },
		func(a *models.ShippingAddress) { a.PostalCode = "" },
		func(a *models.ShippingAddress) { a.Country = "" },
	}

	for _, clear := range fields {
		input := validOrderInput()
		clear(&input.ShippingAddress)

		_, err := orderFromInput(input, primitive.NewObjectID())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "adresse de livraison")
	}
}

func TestOrderFromInputRejectsUnknownPaymentMethod(t *testing.T) {
	input := validOrderInput()
	input.PaymentMethod = "cheque"

	_, err := orderFromInput(input, primitive.NewObjectID())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode de paiement inconnu")
}

func TestOrderFromInputRejectsBadLines(t *testing.T) {
	t.Run("identifiant produit invalide", func(t *testing.T) {
		input := validOrderInput()
		input.OrderItems[0].ProductID = "pas-un-objectid"

		_, err := orderFromInput(input, primitive.NewObjectID())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ligne 1")
	})

	t.Run("quantité nulle", func(t *testing.T) {
		input := validOrderInput()
		input.OrderItems[0].Quantity = 0

		_, err := orderFromInput(input, primitive.NewObjectID())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quantité invalide")
	})

	t.Run("prix négatif", func(t *testing.T) {
		input := validOrderInput()
		input.OrderItems[0].Price = -1

		_, err := orderFromInput(input, primitive.NewObjectID())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prix négatif")
	})
}

func TestOrderFromInputRejectsTotalsMismatch(t *testing.T) {
	input := validOrderInput()
	input.TotalPrice = 95 // le client a « oublié » la livraison et une partie de la taxe

	_, err := orderFromInput(input, primitive.NewObjectID())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "montants incohérents")
}

func TestOrderTotalsAreConsistent(t *testing.T) {
	order, err := orderFromInput(validOrderInput(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, order.ItemsPrice+order.TaxPrice+order.ShippingPrice, order.TotalPrice)
}
