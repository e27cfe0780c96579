package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts de commande. Processing est l'état initial, Delivered et
// Cancelled sont terminaux.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal indique qu'aucune transition n'est permise depuis ce statut.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// StatusTransitionError nomme le statut courant et le statut demandé,
// pour que le refus soit explicite côté client.
type StatusTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("transition de statut invalide: %q vers %q", e.From, e.To)
}

// forward encode le seul chemin autorisé: Processing > Shipped > Delivered.
var forward = map[OrderStatus]OrderStatus{
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// ValidateTransition applique la machine à états des commandes:
//   - tout statut inconnu est refusé
//   - aucun départ depuis un statut terminal
//   - Cancelled uniquement depuis Processing
//   - sinon strictement vers l'avant, sans saut d'étape
func ValidateTransition(from, to OrderStatus) error {
	if !to.Valid() || from.Terminal() || from == to {
		return &StatusTransitionError{From: from, To: to}
	}
	if to == StatusCancelled {
		if from != StatusProcessing {
			return &StatusTransitionError{From: from, To: to}
		}
		return nil
	}
	if forward[from] != to {
		return &StatusTransitionError{From: from, To: to}
	}
	return nil
}

// TransitionWrite construit l'écriture conditionnelle d'un changement de
// statut: le filtre fige le statut déjà validé, donc une commande qui a
// changé d'état entre la lecture et l'écriture ne matche plus et deux
// transitions concurrentes ne passent jamais toutes les deux.
func TransitionWrite(id primitive.ObjectID, from, to OrderStatus) (filter, update bson.M) {
	filter = bson.M{"_id": id, "status": from}
	update = bson.M{"$set": bson.M{"status": to}}
	return filter, update
}

// OrderItem est l'instantané d'une ligne au moment de la commande.
// Le prix unitaire est figé ici, volontairement découplé du prix
// vivant du produit: les commandes passées ne bougent plus.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"` // prix unitaire effectif au moment de l'achat
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// Order est le document commande. Les items sont écrits une seule fois à
// la création; seuls status, is_paid, paid_at et tracking_number sont
// mutables ensuite.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference string             `bson:"reference" json:"reference"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`

	Items           []OrderItem     `bson:"order_items" json:"orderItems"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string          `bson:"payment_method" json:"paymentMethod"`

	ItemsPrice    float64 `bson:"items_price" json:"itemsPrice"`
	TaxPrice      float64 `bson:"tax_price" json:"taxPrice"`
	ShippingPrice float64 `bson:"shipping_price" json:"shippingPrice"`
	TotalPrice    float64 `bson:"total_price" json:"totalPrice"`

	IsPaid bool       `bson:"is_paid" json:"isPaid"`
	PaidAt *time.Time `bson:"paid_at,omitempty" json:"paidAt,omitempty"`

	Status         OrderStatus `bson:"status" json:"status"`
	TrackingNumber string      `bson:"tracking_number,omitempty" json:"trackingNumber,omitempty"` // renseigné uniquement au passage en Shipped

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
