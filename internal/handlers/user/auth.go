package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/middleware"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// authResponse est la forme commune renvoyée par register et login.
type authResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

// Register crée un compte local. L'email est unique: vérification
// applicative ici, index unique en base en filet de sécurité.
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données d'inscription invalides", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// email déjà pris ?
	var existing models.User
	err := database.Users.FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Un compte avec cet email existe déjà"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur création utilisateur"})
		return
	}

	user := models.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  hashed,
		IsAdmin:   false,
		Wishlist:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	result, err := database.Users.InsertOne(ctx, user)
	if err != nil {
		// L'index unique attrape la course entre la vérification et l'insertion
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Un compte avec cet email existe déjà"})
			return
		}
		log.Printf("❌ Erreur création utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur création utilisateur"})
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération du token"})
		return
	}

	log.Printf("✅ Nouvel utilisateur: %s (%s)", user.Email, user.ID.Hex())

	c.JSON(http.StatusCreated, authResponse{
		ID:      user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	})
}

// Login authentifie par email/mot de passe et émet un jeton porteur.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données de connexion invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		middleware.RecordFailedLogin(ctx, input.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email ou mot de passe incorrect"})
		return
	}

	middleware.ResetLoginAttempts(ctx, input.Email)

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération du token"})
		return
	}

	c.JSON(http.StatusOK, authResponse{
		ID:      user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	})
}

// GetProfile retourne le profil de l'utilisateur connecté.
func GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":      c.GetString("user_id"),
		"name":    c.GetString("user_name"),
		"email":   c.GetString("email"),
		"isAdmin": c.GetBool("is_admin"),
	})
}

// UpdateProfile modifie nom/email, et le mot de passe uniquement si le
// mot de passe courant est fourni et vérifié.
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	set := bson.M{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		set["email"] = input.Email
	}

	if input.NewPassword != "" {
		if input.CurrentPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Le mot de passe actuel est requis pour en changer"})
			return
		}
		ok, err := utils.VerifyPassword(input.CurrentPassword, user.Password)
		if err != nil || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Mot de passe actuel incorrect"})
			return
		}
		if len(input.NewPassword) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Le nouveau mot de passe doit faire au moins 6 caractères"})
			return
		}
		hashed, err := utils.HashPassword(input.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur mise à jour du mot de passe"})
			return
		}
		set["password"] = hashed
	}

	if len(set) > 0 {
		if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Un compte avec cet email existe déjà"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur mise à jour du profil"})
			return
		}
		if err := database.Users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture du profil"})
			return
		}
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération du token"})
		return
	}

	c.JSON(http.StatusOK, authResponse{
		ID:      user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	})
}
