package admin

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
	"go.mongodb.org/mongo-driver/mongo"
)

// GetUsers liste tous les utilisateurs (admin).
func GetUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture utilisateurs"})
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur décodage utilisateurs"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUserByID retourne un utilisateur (admin).
func GetUserByID(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID utilisateur invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser modifie nom, email ou drapeau admin d'un utilisateur (admin).
func UpdateUser(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID utilisateur invalide"})
		return
	}

	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin *bool  `json:"isAdmin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	set := bson.M{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		set["email"] = input.Email
	}
	if input.IsAdmin != nil {
		set["is_admin"] = *input.IsAdmin
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Aucun champ à mettre à jour"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Un compte avec cet email existe déjà"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur mise à jour utilisateur"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture utilisateur"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser supprime un utilisateur (admin).
func DeleteUser(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID utilisateur invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.Users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur suppression utilisateur"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	log.Printf("🗑️ Utilisateur supprimé: %s", oid.Hex())

	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé"})
}
