package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"boutique_back_end/internal/cache"
	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadCart lit le panier Redis de l'utilisateur, vide si absent.
func loadCart(ctx context.Context, userID string) models.Cart {
	cart := models.Cart{UserID: userID, Items: []models.CartLine{}}
	cache.GetJSON(ctx, cache.CartKey(userID), &cart)
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	return cart
}

func saveCart(ctx context.Context, cart models.Cart) {
	cache.SetJSON(ctx, cache.CartKey(cart.UserID), cart, cache.CartTTL)
}

func cartResponse(cart models.Cart) gin.H {
	return gin.H{"items": cart.Items, "totals": cart.Totals()}
}

// GetCart retourne le panier avec ses montants recalculés.
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.JSON(http.StatusOK, cartResponse(loadCart(ctx, userID)))
}

// AddToCart ajoute un produit au panier avec un instantané dénormalisé
// du produit. Un produit déjà présent voit sa quantité fusionnée, la
// quantité est bornée au stock de l'instantané.
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	productOID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products.FindOne(ctx, bson.M{"_id": productOID}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	cart := loadCart(ctx, userID)
	err = cart.Add(models.CartLine{
		ProductID:    product.ID,
		Name:         product.Name,
		Image:        product.Image,
		Price:        product.Price,
		Discount:     product.Discount,
		CountInStock: product.CountInStock,
		Quantity:     input.Quantity,
	})
	if errors.Is(err, models.ErrOutOfStock) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Produit en rupture de stock"})
		return
	}

	saveCart(ctx, cart)

	c.JSON(http.StatusOK, cartResponse(cart))
}

// UpdateCartItem fixe la quantité d'une ligne du panier.
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")

	productOID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantité invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart := loadCart(ctx, userID)
	if !cart.SetQuantity(productOID, input.Quantity) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit absent du panier"})
		return
	}

	saveCart(ctx, cart)

	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveFromCart retire une ligne du panier.
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")

	productOID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart := loadCart(ctx, userID)
	cart.Remove(productOID)
	saveCart(ctx, cart)

	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart vide complètement le panier.
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cache.Delete(ctx, cache.CartKey(userID))

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
