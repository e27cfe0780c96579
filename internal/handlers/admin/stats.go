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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetStats agrège le tableau de bord admin: compteurs globaux, chiffre
// d'affaires des commandes payées, produits en stock faible, dernières
// commandes.
func GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	totalUsers, err := database.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}
	totalProducts, err := database.Products.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}
	totalOrders, err := database.Orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}

	// Chiffre d'affaires: somme des totaux des commandes payées
	pipeline := []bson.M{
		{"$match": bson.M{"is_paid": true}},
		{"$group": bson.M{"_id": nil, "totalRevenue": bson.M{"$sum": "$total_price"}}},
	}
	cursor, err := database.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		log.Println("❌ Erreur agrégation revenus:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}
	var revenue []struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	if err := cursor.All(ctx, &revenue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}
	totalRevenue := 0.0
	if len(revenue) > 0 {
		totalRevenue = revenue[0].TotalRevenue
	}

	// Produits en stock faible (5 ou moins)
	lowStockCursor, err := database.Products.Find(ctx,
		bson.M{"count_in_stock": bson.M{"$lte": 5}},
		options.Find().
			SetSort(bson.D{{Key: "count_in_stock", Value: 1}}).
			SetProjection(bson.M{"name": 1, "count_in_stock": 1}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}
	lowStock := []models.Product{}
	if err := lowStockCursor.All(ctx, &lowStock); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}

	// 5 dernières commandes
	recentCursor, err := database.Orders.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(5))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}
	recentOrders := []models.Order{}
	if err := recentCursor.All(ctx, &recentOrders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur calcul statistiques"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":       totalUsers,
		"totalProducts":    totalProducts,
		"totalOrders":      totalOrders,
		"totalRevenue":     totalRevenue,
		"lowStockProducts": lowStock,
		"recentOrders":     recentOrders,
	})
}
