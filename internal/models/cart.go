package models

import (
	"errors"

	"boutique_back_end/internal/pricing"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrOutOfStock = errors.New("produit en rupture de stock")

// CartLine porte un instantané dénormalisé du produit au moment de
// l'ajout, plus la quantité choisie.
type CartLine struct {
	ProductID    primitive.ObjectID `json:"product"`
	Name         string             `json:"name"`
	Image        string             `json:"image"`
	Price        float64            `json:"price"`
	Discount     int                `json:"discount"`
	CountInStock int                `json:"countInStock"`
	Quantity     int                `json:"quantity"`
}

// Cart est le panier d'un utilisateur, persisté en Redis sous la clé
// cart:<userID> et vidé à la finalisation de la commande.
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartLine `json:"items"`
}

// clampQuantity ramène la quantité dans [1, stock].
func clampQuantity(qty, stock int) int {
	if qty < 1 {
		qty = 1
	}
	if qty > stock {
		qty = stock
	}
	return qty
}

// Add fusionne la ligne avec une ligne existante du même produit au
// lieu de la dupliquer, puis borne la quantité au stock de l'instantané.
func (c *Cart) Add(line CartLine) error {
	if line.CountInStock < 1 {
		return ErrOutOfStock
	}
	for i := range c.Items {
		if c.Items[i].ProductID == line.ProductID {
			c.Items[i].Quantity = clampQuantity(c.Items[i].Quantity+line.Quantity, c.Items[i].CountInStock)
			return nil
		}
	}
	line.Quantity = clampQuantity(line.Quantity, line.CountInStock)
	c.Items = append(c.Items, line)
	return nil
}

// SetQuantity fixe la quantité d'une ligne, bornée au stock.
// Retourne false si le produit n'est pas dans le panier.
func (c *Cart) SetQuantity(productID primitive.ObjectID, qty int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = clampQuantity(qty, c.Items[i].CountInStock)
			return true
		}
	}
	return false
}

// Remove retire la ligne du produit donné. Retirer un produit absent
// est un no-op.
func (c *Cart) Remove(productID primitive.ObjectID) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// Totals recalcule les montants du panier à partir des instantanés.
func (c *Cart) Totals() pricing.Totals {
	lines := make([]pricing.Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, pricing.Line{Price: item.Price, Discount: item.Discount, Quantity: item.Quantity})
	}
	return pricing.Compute(lines)
}
