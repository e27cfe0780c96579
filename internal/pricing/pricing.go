// Package pricing calcule les montants d'un panier: sous-total remisé,
// TVA, livraison et total. Fonction pure, les mêmes lignes donnent
// toujours les mêmes montants, côté client comme côté serveur.
package pricing

import "math"

const (
	TaxRate               = 0.10  // 10% sur le sous-total
	FreeShippingThreshold = 100.0 // livraison offerte strictement au-dessus
	FlatShippingPrice     = 10.0
)

// Line est la projection minimale d'une ligne de panier ou de commande.
type Line struct {
	Price    float64
	Discount int // pourcentage, 0-100
	Quantity int
}

type Totals struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// UnitPrice retourne le prix unitaire effectif, remise appliquée.
func UnitPrice(price float64, discount int) float64 {
	if discount > 0 {
		return price * (1 - float64(discount)/100)
	}
	return price
}

// Compute calcule les quatre montants, arrondis à 2 décimales.
// La livraison est offerte quand le sous-total dépasse strictement
// FreeShippingThreshold, sinon forfait FlatShippingPrice.
func Compute(lines []Line) Totals {
	var items float64
	for _, l := range lines {
		items += UnitPrice(l.Price, l.Discount) * float64(l.Quantity)
	}
	items = Round2(items)

	tax := Round2(items * TaxRate)

	shipping := FlatShippingPrice
	if items > FreeShippingThreshold {
		shipping = 0
	}

	return Totals{
		ItemsPrice:    items,
		TaxPrice:      tax,
		ShippingPrice: shipping,
		TotalPrice:    Round2(items + tax + shipping),
	}
}

// Round2 arrondit au centime.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
