package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetWishlist retourne les produits de la wishlist de l'utilisateur.
func GetWishlist(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	products := []models.Product{}
	if len(user.Wishlist) > 0 {
		cursor, err := database.Products.Find(ctx, bson.M{"_id": bson.M{"$in": user.Wishlist}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture wishlist"})
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur décodage produits"})
			return
		}
	}

	c.JSON(http.StatusOK, products)
}

// AddToWishlist ajoute un produit à la wishlist via $addToSet: l'écriture
// est atomique et l'unicité tient sous les ajouts concurrents, un doublon
// ne modifie rien et est signalé comme tel.
func AddToWishlist(c *gin.Context) {
	userOID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	productOID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Vérifier que le produit existe
	if err := database.Products.FindOne(ctx, bson.M{"_id": productOID}).Err(); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	result, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userOID},
		bson.M{"$addToSet": bson.M{"wishlist": productOID}},
	)
	if err != nil {
		log.Printf("❌ Erreur ajout wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur ajout à la wishlist"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Produit déjà dans la wishlist"})
		return
	}

	log.Printf("⭐ Produit %s ajouté à la wishlist de %s", req.ProductID, userOID.Hex())

	c.JSON(http.StatusCreated, gin.H{"message": "Produit ajouté à la wishlist"})
}

// RemoveFromWishlist retire un produit via $pull. Retirer un produit
// absent répond comme un succès: l'état final est le même.
func RemoveFromWishlist(c *gin.Context) {
	userOID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	productOID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userOID},
		bson.M{"$pull": bson.M{"wishlist": productOID}},
	); err != nil {
		log.Printf("❌ Erreur suppression wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur suppression de la wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit retiré de la wishlist"})
}
