package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		wantErr bool
	}{
		{"processing to shipped", StatusProcessing, StatusShipped, false},
		{"shipped to delivered", StatusShipped, StatusDelivered, false},
		{"processing cancelled by owner", StatusProcessing, StatusCancelled, false},

		{"processing cannot skip to delivered", StatusProcessing, StatusDelivered, true},
		{"shipped cannot be cancelled", StatusShipped, StatusCancelled, true},
		{"no backward transition", StatusShipped, StatusProcessing, true},
		{"same status is not a transition", StatusProcessing, StatusProcessing, true},

		{"delivered is terminal", StatusDelivered, StatusShipped, true},
		{"delivered cannot be cancelled", StatusDelivered, StatusCancelled, true},
		{"cancelled is terminal", StatusCancelled, StatusProcessing, true},
		{"cancelled cannot be shipped", StatusCancelled, StatusShipped, true},

		{"unknown target is rejected", StatusProcessing, OrderStatus("Refunded"), true},
		{"empty target is rejected", StatusShipped, OrderStatus(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusTransitionErrorNamesBothStatuses(t *testing.T) {
	err := ValidateTransition(StatusDelivered, StatusCancelled)
	require.Error(t, err)

	var terr *StatusTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, StatusDelivered, terr.From)
	assert.Equal(t, StatusCancelled, terr.To)
	assert.Contains(t, err.Error(), string(StatusDelivered))
	assert.Contains(t, err.Error(), string(StatusCancelled))
}

func TestTransitionWriteGuardsCurrentStatus(t *testing.T) {
	id := primitive.NewObjectID()

	filter, update := TransitionWrite(id, StatusProcessing, StatusShipped)

	// Le filtre fige le statut lu: une écriture concurrente qui a déjà
	// changé le statut (par exemple une annulation) ne matche plus, la
	// transition périmée n'écrase rien.
	assert.Equal(t, bson.M{"_id": id, "status": StatusProcessing}, filter)
	assert.Equal(t, bson.M{"$set": bson.M{"status": StatusShipped}}, update)
}

func TestTransitionWriteTouchesOnlyStatus(t *testing.T) {
	_, update := TransitionWrite(primitive.NewObjectID(), StatusShipped, StatusDelivered)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"status": StatusDelivered}, set)
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusShipped.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("Pending").Valid())
	assert.False(t, OrderStatus("").Valid())
}
