package cache

import (
	"context"
	"encoding/json"
	"time"

	"boutique_back_end/internal/database"
)

const (
	CatalogCacheTTL = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
	CartTTL         = 30 * 24 * time.Hour
)

func CartKey(userID string) string { return "cart:" + userID }

func ProductKey(productID string) string { return "product:" + productID }

// CatalogKey dérive la clé de cache d'une page catalogue depuis la
// query string brute: deux requêtes identiques partagent la même page.
func CatalogKey(rawQuery string) string { return "products:" + rawQuery }

// GetJSON récupère et décode une entrée. Retourne false sur cache miss
// ou entrée illisible.
func GetJSON(ctx context.Context, key string, dest any) bool {
	data, err := database.Redis.Get(ctx, key).Result()
	if err != nil || data == "" {
		return false
	}
	return json.Unmarshal([]byte(data), dest) == nil
}

// SetJSON encode et stocke une entrée. Une erreur d'encodage est
// silencieuse: le cache n'est jamais bloquant.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if data, err := json.Marshal(v); err == nil {
		database.Redis.Set(ctx, key, data, ttl)
	}
}

func Delete(ctx context.Context, keys ...string) {
	database.Redis.Del(ctx, keys...)
}

// InvalidateCatalog purge toutes les pages catalogue en cache ainsi que
// la fiche du produit modifié. Appelé sur chaque écriture produit.
func InvalidateCatalog(ctx context.Context, productID string) {
	iter := database.Redis.Scan(ctx, 0, "products:*", 100).Iterator()
	for iter.Next(ctx) {
		database.Redis.Del(ctx, iter.Val())
	}
	if productID != "" {
		database.Redis.Del(ctx, ProductKey(productID))
	}
}
