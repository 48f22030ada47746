package stockledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementType_IsValid(t *testing.T) {
	assert.True(t, MovementTypeIn.IsValid())
	assert.True(t, MovementTypeOut.IsValid())
	assert.False(t, MovementType("inbound").IsValid())
	assert.False(t, MovementType("").IsValid())
	assert.False(t, MovementType("IN").IsValid())
}

func TestMovementReason_IsValid(t *testing.T) {
	valid := []MovementReason{
		ReasonPurchase, ReasonSale, ReasonAdjustment, ReasonLoss,
		ReasonReturn, ReasonTransfer, ReasonInitial, ReasonOther,
	}
	for _, reason := range valid {
		assert.True(t, reason.IsValid(), string(reason))
	}

	assert.False(t, MovementReason("damage").IsValid())
	assert.False(t, MovementReason("").IsValid())
	assert.False(t, MovementReason("Sale").IsValid())
}

func TestNewStockMovement(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()

	t.Run("creates inbound movement", func(t *testing.T) {
		actorID := uuid.New()
		movement, err := NewStockMovement(tenantID, productID,
			MovementTypeIn, ReasonPurchase, 10, 25, "restock order", &actorID)

		require.NoError(t, err)
		assert.Equal(t, tenantID, movement.TenantID)
		assert.Equal(t, productID, movement.ProductID)
		assert.Equal(t, int64(10), movement.Quantity)
		assert.Equal(t, int64(25), movement.BalanceAfter)
		assert.Equal(t, "restock order", movement.Notes)
		assert.Equal(t, actorID, *movement.ActorID)
	})

	t.Run("allows nil actor", func(t *testing.T) {
		movement, err := NewStockMovement(tenantID, productID,
			MovementTypeOut, ReasonSale, 1, 0, "", nil)

		require.NoError(t, err)
		assert.Nil(t, movement.ActorID)
	})

	t.Run("rejects invalid movement type", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, productID,
			MovementType("sideways"), ReasonSale, 1, 0, "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid reason", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, productID,
			MovementTypeIn, MovementReason("gift"), 1, 1, "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, productID,
			MovementTypeIn, ReasonPurchase, 0, 5, "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, productID,
			MovementTypeIn, ReasonPurchase, -3, 5, "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative balance", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, productID,
			MovementTypeOut, ReasonSale, 3, -1, "", nil)
		assert.Error(t, err)
	})
}

func TestStockMovement_SignedQuantity(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()

	inbound, err := NewStockMovement(tenantID, productID,
		MovementTypeIn, ReasonPurchase, 7, 7, "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), inbound.SignedQuantity())

	outbound, err := NewStockMovement(tenantID, productID,
		MovementTypeOut, ReasonSale, 4, 3, "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), outbound.SignedQuantity())
}
