package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review est un avis client embarqué dans le document produit.
// Un utilisateur ne peut laisser qu'un seul avis par produit.
type Review struct {
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	UserName  string             `bson:"name" json:"name"`
	Rating    int                `bson:"rating" json:"rating"` // 1-5
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Brand        string             `bson:"brand" json:"brand"`
	Category     string             `bson:"category" json:"category"` // libellé libre, pas de taxonomie référencée
	Image        string             `bson:"image" json:"image"`
	Price        float64            `bson:"price" json:"price"`
	CountInStock int                `bson:"count_in_stock" json:"countInStock"`
	Discount     int                `bson:"discount" json:"discount"` // pourcentage, 0-100
	Featured     bool               `bson:"featured" json:"featured"`

	// rating et num_reviews sont dérivés des avis embarqués et recalculés
	// côté base à chaque insertion d'avis (voir handlers/product/reviews.go)
	Rating     float64  `bson:"rating" json:"rating"`
	NumReviews int      `bson:"num_reviews" json:"numReviews"`
	Reviews    []Review `bson:"reviews" json:"reviews"`

	Features       []string          `bson:"features,omitempty" json:"features,omitempty"`
	Specifications map[string]string `bson:"specifications,omitempty" json:"specifications,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
