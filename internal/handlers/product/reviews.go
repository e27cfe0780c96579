package product

import (
	"context"
	"log"
	"net/http"
	"time"

	"boutique_back_end/internal/cache"
	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// reviewInsert construit l'écriture conditionnelle d'un avis: le filtre
// ne matche que si l'auteur n'a pas encore d'avis sur ce produit, et le
// pipeline ajoute l'avis puis recalcule num_reviews et rating à partir
// de la liste complète, dans la même écriture atomique.
func reviewInsert(productOID, userOID primitive.ObjectID, review models.Review) (bson.M, mongo.Pipeline) {
	filter := bson.M{
		"_id":          productOID,
		"reviews.user": bson.M{"$ne": userOID},
	}

	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
				bson.A{bson.M{"$literal": review}},
			}},
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"num_reviews": bson.M{"$size": "$reviews"},
			"rating":      bson.M{"$avg": "$reviews.rating"},
		}}},
	}

	return filter, update
}

// CreateReview ajoute un avis sur un produit. L'insertion et le recalcul
// de rating/num_reviews se font en une seule écriture conditionnelle:
// le filtre exclut les auteurs déjà présents, donc deux avis concurrents
// du même utilisateur ne passent jamais tous les deux, et deux avis
// concurrents d'utilisateurs différents n'écrasent pas leurs agrégats.
func CreateReview(c *gin.Context) {
	userID := c.GetString("user_id")
	userName := c.GetString("user_name")

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides", "details": err.Error()})
		return
	}

	productOID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	review := models.Review{
		UserID:    userOID,
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter, update := reviewInsert(productOID, userOID, review)

	result, err := database.Products.UpdateOne(ctx, filter, update)
	if err != nil {
		log.Printf("❌ Erreur création avis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur création avis"})
		return
	}

	if result.MatchedCount == 0 {
		// Produit absent, ou avis déjà déposé: on distingue les deux
		err := database.Products.FindOne(ctx, bson.M{"_id": productOID}).Err()
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Vous avez déjà laissé un avis sur ce produit"})
		return
	}

	cache.InvalidateCatalog(ctx, productOID.Hex())

	log.Printf("⭐ Avis créé par %s sur produit %s (note: %d/5)", userID, productOID.Hex(), req.Rating)

	c.JSON(http.StatusCreated, gin.H{"message": "Avis ajouté", "review": review})
}

// GetProductReviews retourne les avis embarqués d'un produit avec les
// agrégats persistés.
func GetProductReviews(c *gin.Context) {
	productOID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products.FindOne(ctx, bson.M{"_id": productOID}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":    product.Reviews,
		"numReviews": product.NumReviews,
		"rating":     product.Rating,
	})
}
