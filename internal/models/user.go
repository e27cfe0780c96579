package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"` // unique (index à la connexion)
	Password string             `bson:"password" json:"-"`  // hash argon2id, jamais le mot de passe en clair
	IsAdmin  bool               `bson:"is_admin" json:"isAdmin"`

	// Ensemble d'identifiants produits, unicité garantie par $addToSet
	Wishlist []primitive.ObjectID `bson:"wishlist" json:"wishlist"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
