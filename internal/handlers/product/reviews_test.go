package product

import (
	"testing"
	"time"

	"boutique_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleReview(userOID primitive.ObjectID) models.Review {
	return models.Review{
		UserID:    userOID,
		UserName:  "Alice",
		Rating:    4,
		Comment:   "Très bon produit",
		CreatedAt: time.Now(),
	}
}

func TestReviewInsertRejectsDuplicateAuthor(t *testing.T) {
	productOID := primitive.NewObjectID()
	userOID := primitive.NewObjectID()

	filter, _ := reviewInsert(productOID, userOID, sampleReview(userOID))

	// Le filtre ne matche que les produits où l'auteur est absent: un
	// second avis du même auteur ne matche rien et les agrégats ne
	// bougent pas, même sous deux requêtes concurrentes.
	assert.Equal(t, productOID, filter["_id"])
	assert.Equal(t, bson.M{"$ne": userOID}, filter["reviews.user"])
}

func TestReviewInsertAppendsThenRecomputes(t *testing.T) {
	productOID := primitive.NewObjectID()
	userOID := primitive.NewObjectID()
	review := sampleReview(userOID)

	_, update := reviewInsert(productOID, userOID, review)
	require.Len(t, update, 2)

	// Première étape: ajout de l'avis en fin de liste, liste absente
	// traitée comme vide
	appendStage := update[0]
	require.Len(t, appendStage, 1)
	assert.Equal(t, "$set", appendStage[0].Key)

	set, ok := appendStage[0].Value.(bson.M)
	require.True(t, ok)
	concat, ok := set["reviews"].(bson.M)["$concatArrays"].(bson.A)
	require.True(t, ok)
	require.Len(t, concat, 2)
	assert.Equal(t, bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}}, concat[0])
	assert.Equal(t, bson.A{bson.M{"$literal": review}}, concat[1])

	// Seconde étape: num_reviews = taille de la liste, rating = moyenne
	// des notes, recalculés sur la liste qui vient d'être étendue
	recomputeStage := update[1]
	require.Len(t, recomputeStage, 1)
	assert.Equal(t, "$set", recomputeStage[0].Key)

	agg, ok := recomputeStage[0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"$size": "$reviews"}, agg["num_reviews"])
	assert.Equal(t, bson.M{"$avg": "$reviews.rating"}, agg["rating"])
}
