package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthRequired valide le jeton porteur puis recharge l'utilisateur depuis
// la base à chaque requête: pas de session serveur, le drapeau admin fait
// foi en base et non dans le jeton.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token manquant"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Format Authorization invalide"})
			c.Abort()
			return
		}

		claims, err := utils.ParseJWT(parts[1])
		if err != nil {
			log.Printf("❌ Erreur parsing JWT: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token invalide"})
			c.Abort()
			return
		}

		// Vérifier l'expiration
		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Token expiré"})
				c.Abort()
				return
			}
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "user_id manquant"})
			c.Abort()
			return
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "user_id invalide"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := database.Users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur introuvable"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID.Hex())
		c.Set("user_name", user.Name)
		c.Set("email", user.Email)
		c.Set("is_admin", user.IsAdmin)

		c.Next()
	}
}
