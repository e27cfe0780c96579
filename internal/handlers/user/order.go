package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"boutique_back_end/internal/cache"
	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/pricing"
	"boutique_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Modes de paiement acceptés. Le paiement est enregistré, jamais traité:
// aucun appel à un prestataire.
var paymentMethods = map[string]bool{
	"card":   true,
	"paypal": true,
}

type orderItemInput struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"` // prix unitaire effectif, remise déjà appliquée
	Quantity  int     `json:"quantity"`
}

type createOrderInput struct {
	OrderItems      []orderItemInput       `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      float64                `json:"itemsPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

// orderFromInput valide la requête de checkout et construit le document
// commande. Les montants sont recalculés côté serveur à partir des
// instantanés de lignes soumis; un écart de plus d'un centime avec les
// montants du client est refusé.
func orderFromInput(input createOrderInput, userOID primitive.ObjectID) (*models.Order, error) {
	if len(input.OrderItems) == 0 {
		return nil, errors.New("le panier soumis est vide")
	}

	addr := input.ShippingAddress
	if addr.Address == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return nil, errors.New("l'adresse de livraison est incomplète (adresse, ville, code postal, pays requis)")
	}

	if !paymentMethods[input.PaymentMethod] {
		return nil, fmt.Errorf("mode de paiement inconnu: %q", input.PaymentMethod)
	}

	items := make([]models.OrderItem, 0, len(input.OrderItems))
	lines := make([]pricing.Line, 0, len(input.OrderItems))
	for i, item := range input.OrderItems {
		oid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("ligne %d: identifiant produit invalide", i+1)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("ligne %d: quantité invalide", i+1)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("ligne %d: prix négatif", i+1)
		}
		items = append(items, models.OrderItem{
			ProductID: oid,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
		lines = append(lines, pricing.Line{Price: item.Price, Quantity: item.Quantity})
	}

	totals := pricing.Compute(lines)
	submitted := pricing.Totals{
		ItemsPrice:    input.ItemsPrice,
		TaxPrice:      input.TaxPrice,
		ShippingPrice: input.ShippingPrice,
		TotalPrice:    input.TotalPrice,
	}
	if !totalsMatch(totals, submitted) {
		return nil, fmt.Errorf("montants incohérents: total recalculé %.2f, total soumis %.2f",
			totals.TotalPrice, submitted.TotalPrice)
	}

	return &models.Order{
		Reference:       uuid.NewString(),
		UserID:          userOID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      totals.ItemsPrice,
		TaxPrice:        totals.TaxPrice,
		ShippingPrice:   totals.ShippingPrice,
		TotalPrice:      totals.TotalPrice,
		IsPaid:          false,
		PaidAt:          nil,
		Status:          models.StatusProcessing,
		CreatedAt:       time.Now(),
	}, nil
}

// totalsMatch tolère un centime d'écart d'arrondi par montant.
func totalsMatch(a, b pricing.Totals) bool {
	const eps = 0.01
	return math.Abs(a.ItemsPrice-b.ItemsPrice) <= eps &&
		math.Abs(a.TaxPrice-b.TaxPrice) <= eps &&
		math.Abs(a.ShippingPrice-b.ShippingPrice) <= eps &&
		math.Abs(a.TotalPrice-b.TotalPrice) <= eps
}

// CreateOrder enregistre une commande: statut Processing, non payée,
// lignes figées. Une seule écriture, la commande existe entièrement ou
// pas du tout. Le panier Redis est vidé et l'e-mail de confirmation part
// en tâche de fond.
func CreateOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données de commande invalides"})
		return
	}

	order, err := orderFromInput(input, userOID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Orders.InsertOne(ctx, order)
	if err != nil {
		log.Println("❌ Erreur création commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur création commande"})
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	// Le checkout vide le panier
	cache.Delete(ctx, cache.CartKey(userID))

	if email := c.GetString("email"); email != "" {
		go func(o models.Order, to string) {
			if err := utils.SendOrderConfirmation(o, to); err != nil {
				log.Printf("⚠️ Échec envoi e-mail de confirmation (%s): %v", o.Reference, err)
			}
		}(*order, email)
	}

	log.Printf("🛒 Commande %s créée pour %s (total: %.2f)", order.Reference, userID, order.TotalPrice)

	c.JSON(http.StatusCreated, order)
}

// GetMyOrders liste les commandes de l'utilisateur connecté, les plus
// récentes en premier.
func GetMyOrders(c *gin.Context) {
	userOID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Orders.Find(ctx, bson.M{"user": userOID}, opts)
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

// GetOrderByID retourne une commande. Accessible à son propriétaire et
// aux administrateurs.
func GetOrderByID(c *gin.Context) {
	orderOID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID commande invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := database.Orders.FindOne(ctx, bson.M{"_id": orderOID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Commande introuvable"})
		return
	}

	if order.UserID.Hex() != c.GetString("user_id") && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Cette commande ne vous appartient pas"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// CancelOrder annule une commande. Réservé au propriétaire, et
// uniquement tant que la commande est en Processing.
func CancelOrder(c *gin.Context) {
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

	if order.UserID.Hex() != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Cette commande ne vous appartient pas"})
		return
	}

	if err := models.ValidateTransition(order.Status, models.StatusCancelled); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Seul le statut bouge, les lignes restent figées. Le filtre porte le
	// statut lu: si la commande a bougé entre-temps, rien ne matche.
	filter, update := models.TransitionWrite(orderOID, order.Status, models.StatusCancelled)
	result, err := database.Orders.UpdateOne(ctx, filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur annulation commande"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "La commande a changé d'état, annulation impossible"})
		return
	}
	order.Status = models.StatusCancelled

	log.Printf("🛑 Commande %s annulée par son propriétaire", order.Reference)

	c.JSON(http.StatusOK, order)
}

// PayOrder enregistre le paiement d'une commande (propriétaire). Le
// champ est posé, rien n'est encaissé ici.
func PayOrder(c *gin.Context) {
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

	if order.UserID.Hex() != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Cette commande ne vous appartient pas"})
		return
	}

	if order.IsPaid {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Commande déjà payée"})
		return
	}
	if order.Status == models.StatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Commande annulée, paiement impossible"})
		return
	}

	// Écriture conditionnelle: un paiement ou une annulation concurrents
	// font échouer le match au lieu d'écraser l'état
	now := time.Now()
	result, err := database.Orders.UpdateOne(ctx,
		bson.M{
			"_id":     orderOID,
			"is_paid": false,
			"status":  bson.M{"$ne": models.StatusCancelled},
		},
		bson.M{"$set": bson.M{"is_paid": true, "paid_at": now}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur enregistrement paiement"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Commande déjà payée ou annulée"})
		return
	}
	order.IsPaid = true
	order.PaidAt = &now

	log.Printf("💳 Paiement enregistré pour la commande %s", order.Reference)

	c.JSON(http.StatusOK, order)
}
