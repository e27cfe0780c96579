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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAllOrders liste toutes les commandes (admin), filtrables par
// statut, les plus récentes en premier.
func GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := models.OrderStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Statut inconnu: " + string(status)})
			return
		}
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Orders.Find(ctx, filter, opts)
	if err != nil {
		log.Println("❌ Erreur MongoDB Find:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur récupération commandes"})
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur décodage commandes"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus fait avancer le statut d'une commande (admin). Le
// numéro de suivi ne peut être posé qu'avec le passage en Shipped.
func UpdateOrderStatus(c *gin.Context) {
	orderOID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID commande invalide"})
		return
	}

	var input struct {
		Status         string `json:"status" binding:"required"`
		TrackingNumber string `json:"trackingNumber"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	target := models.OrderStatus(input.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := database.Orders.FindOne(ctx, bson.M{"_id": orderOID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Commande introuvable"})
		return
	}

	if err := models.ValidateTransition(order.Status, target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if input.TrackingNumber != "" && target != models.StatusShipped {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Le numéro de suivi ne peut être posé qu'au passage en Shipped"})
		return
	}

	// Le filtre porte le statut validé: une transition concurrente (dont
	// une annulation du propriétaire) fait échouer le match
	filter, update := models.TransitionWrite(orderOID, order.Status, target)
	if target == models.StatusShipped && input.TrackingNumber != "" {
		update["$set"].(bson.M)["tracking_number"] = input.TrackingNumber
	}

	result, err := database.Orders.UpdateOne(ctx, filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur mise à jour du statut"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "La commande a changé d'état, statut non modifié"})
		return
	}
	order.Status = target
	if target == models.StatusShipped && input.TrackingNumber != "" {
		order.TrackingNumber = input.TrackingNumber
	}

	log.Printf("📦 Commande %s: statut %s", order.Reference, target)

	c.JSON(http.StatusOK, order)
}

// DeliverOrder marque une commande expédiée comme livrée (admin), via la
// même machine à états que UpdateOrderStatus.
func DeliverOrder(c *gin.Context) {
	orderOID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID commande invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := database.Orders.FindOne(ctx, bson.M{"_id": orderOID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Commande introuvable"})
		return
	}

	if err := models.ValidateTransition(order.Status, models.StatusDelivered); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	filter, update := models.TransitionWrite(orderOID, order.Status, models.StatusDelivered)
	result, err := database.Orders.UpdateOne(ctx, filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur mise à jour du statut"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "La commande a changé d'état, statut non modifié"})
		return
	}
	order.Status = models.StatusDelivered

	log.Printf("📬 Commande %s livrée", order.Reference)

	c.JSON(http.StatusOK, order)
}
