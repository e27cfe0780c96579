package product

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"boutique_back_end/internal/cache"
	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const catalogPageSize = 12

// catalogQuery porte les filtres, le tri et la pagination du catalogue.
type catalogQuery struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
	OnSale   bool
	Featured bool
	Sort     string
	Page     int64
}

func parseCatalogQuery(values url.Values) catalogQuery {
	q := catalogQuery{
		Search:   values.Get("search"),
		Category: values.Get("category"),
		InStock:  values.Get("inStock") == "true",
		OnSale:   values.Get("onSale") == "true",
		Featured: values.Get("featured") == "true",
		Sort:     values.Get("sort"),
		Page:     1,
	}

	if v, err := strconv.ParseFloat(values.Get("minPrice"), 64); err == nil {
		q.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(values.Get("maxPrice"), 64); err == nil {
		q.MaxPrice = &v
	}
	if p, err := strconv.ParseInt(values.Get("page"), 10, 64); err == nil && p > 0 {
		q.Page = p
	}

	return q
}

// filter traduit les filtres en requête MongoDB. La recherche texte est
// un simple filtre de sous-chaîne insensible à la casse sur le nom et la
// description.
func (q catalogQuery) filter() bson.M {
	filter := bson.M{}

	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}
	if q.InStock {
		filter["count_in_stock"] = bson.M{"$gt": 0}
	}
	if q.OnSale {
		filter["discount"] = bson.M{"$gt": 0}
	}
	if q.Featured {
		filter["featured"] = true
	}

	return filter
}

// sortOrder traduit la clé de tri. Toute clé inconnue retombe en silence
// sur le tri par nouveauté.
func (q catalogQuery) sortOrder() bson.D {
	switch q.Sort {
	case "price":
		return bson.D{{Key: "price", Value: 1}}
	case "-price":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating", Value: 1}}
	case "-rating":
		return bson.D{{Key: "rating", Value: -1}}
	case "numReviews":
		return bson.D{{Key: "num_reviews", Value: 1}}
	case "-numReviews":
		return bson.D{{Key: "num_reviews", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

type catalogPage struct {
	Products      []models.Product `json:"products"`
	Page          int64            `json:"page"`
	Pages         int64            `json:"pages"`
	TotalProducts int64            `json:"totalProducts"`
}

// GetProducts liste une page de catalogue: filtres, tri, pagination fixe
// à 12 produits. Les pages sont mises en cache Redis par query string.
func GetProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cacheKey := cache.CatalogKey(c.Request.URL.RawQuery)
	var cached catalogPage
	if cache.GetJSON(ctx, cacheKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	q := parseCatalogQuery(c.Request.URL.Query())
	filter := q.filter()

	count, err := database.Products.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("❌ Erreur comptage produits:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture catalogue"})
		return
	}

	opts := options.Find().
		SetSort(q.sortOrder()).
		SetLimit(catalogPageSize).
		SetSkip(catalogPageSize * (q.Page - 1))

	cursor, err := database.Products.Find(ctx, filter, opts)
	if err != nil {
		log.Println("❌ Erreur MongoDB Find:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture catalogue"})
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur décodage produits"})
		return
	}

	page := catalogPage{
		Products:      products,
		Page:          q.Page,
		Pages:         (count + catalogPageSize - 1) / catalogPageSize,
		TotalProducts: count,
	}

	cache.SetJSON(ctx, cacheKey, page, cache.CatalogCacheTTL)

	c.JSON(http.StatusOK, page)
}

// GetProductByID retourne la fiche complète, avis inclus.
func GetProductByID(c *gin.Context) {
	productID := c.Param("id")

	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cached models.Product
	if cache.GetJSON(ctx, cache.ProductKey(productID), &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	var product models.Product
	if err := database.Products.FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	cache.SetJSON(ctx, cache.ProductKey(productID), product, cache.ProductCacheTTL)

	c.JSON(http.StatusOK, product)
}

// GetTopProducts retourne les 5 produits les mieux notés.
func GetTopProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}).SetLimit(5)
	cursor, err := database.Products.Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture produits"})
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur décodage produits"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetRelatedProducts retourne jusqu'à 4 produits de la même catégorie,
// produit courant exclu.
func GetRelatedProducts(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products.FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	cursor, err := database.Products.Find(ctx, bson.M{
		"_id":      bson.M{"$ne": product.ID},
		"category": product.Category,
	}, options.Find().SetLimit(4))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture produits"})
		return
	}
	defer cursor.Close(ctx)

	related := []models.Product{}
	if err := cursor.All(ctx, &related); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur décodage produits"})
		return
	}

	c.JSON(http.StatusOK, related)
}

// GetProductCategories liste les libellés de catégories existants.
// Même chaîne = même catégorie, il n'y a pas de taxonomie référencée.
func GetProductCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	categories, err := database.Products.Distinct(ctx, "category", bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture catégories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

type productInput struct {
	Name           string            `json:"name" binding:"required"`
	Description    string            `json:"description"`
	Brand          string            `json:"brand"`
	Category       string            `json:"category" binding:"required"`
	Image          string            `json:"image"`
	Price          float64           `json:"price" binding:"required,gt=0"`
	CountInStock   int               `json:"countInStock" binding:"min=0"`
	Discount       int               `json:"discount" binding:"min=0,max=100"`
	Featured       bool              `json:"featured"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
}

// CreateProduct crée un produit (admin). Les champs dérivés partent à
// zéro: pas d'avis, pas de note.
func CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données produit invalides", "details": err.Error()})
		return
	}

	now := time.Now()
	product := models.Product{
		Name:           input.Name,
		Description:    input.Description,
		Brand:          input.Brand,
		Category:       input.Category,
		Image:          input.Image,
		Price:          input.Price,
		CountInStock:   input.CountInStock,
		Discount:       input.Discount,
		Featured:       input.Featured,
		Rating:         0,
		NumReviews:     0,
		Reviews:        []models.Review{},
		Features:       input.Features,
		Specifications: input.Specifications,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.Products.InsertOne(ctx, product)
	if err != nil {
		log.Println("❌ Erreur création produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur création produit"})
		return
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	cache.InvalidateCatalog(ctx, "")

	log.Printf("✅ Produit créé: %s (%s)", product.Name, product.ID.Hex())

	c.JSON(http.StatusCreated, product)
}

type productUpdateInput struct {
	Name           *string           `json:"name"`
	Description    *string           `json:"description"`
	Brand          *string           `json:"brand"`
	Category       *string           `json:"category"`
	Image          *string           `json:"image"`
	Price          *float64          `json:"price"`
	CountInStock   *int              `json:"countInStock"`
	Discount       *int              `json:"discount"`
	Featured       *bool             `json:"featured"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
}

// UpdateProduct modifie les champs fournis (admin). Les avis et les
// agrégats de note ne passent jamais par ici.
func UpdateProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	var input productUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données produit invalides"})
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Brand != nil {
		set["brand"] = *input.Brand
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.Image != nil {
		set["image"] = *input.Image
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Le champ 'price' doit être strictement positif"})
			return
		}
		set["price"] = *input.Price
	}
	if input.CountInStock != nil {
		if *input.CountInStock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Le champ 'countInStock' ne peut pas être négatif"})
			return
		}
		set["count_in_stock"] = *input.CountInStock
	}
	if input.Discount != nil {
		if *input.Discount < 0 || *input.Discount > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Le champ 'discount' doit être entre 0 et 100"})
			return
		}
		set["discount"] = *input.Discount
	}
	if input.Featured != nil {
		set["featured"] = *input.Featured
	}
	if input.Features != nil {
		set["features"] = input.Features
	}
	if input.Specifications != nil {
		set["specifications"] = input.Specifications
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var updated models.Product
	err = database.Products.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}
	if err != nil {
		log.Println("❌ Erreur mise à jour produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur mise à jour produit"})
		return
	}

	cache.InvalidateCatalog(ctx, oid.Hex())

	c.JSON(http.StatusOK, updated)
}

// DeleteProduct supprime un produit (admin).
func DeleteProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.Products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur suppression produit"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	cache.InvalidateCatalog(ctx, oid.Hex())

	log.Printf("🗑️ Produit supprimé: %s", oid.Hex())

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}
