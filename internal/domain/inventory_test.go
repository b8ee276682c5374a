package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyAdjustment(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		typ       AdjustmentType
		amount    int
		wantQty   int
		wantDelta int
		wantErr   error
	}{
		{"in adds amount", 10, AdjustmentIn, 5, 15, 5, nil},
		{"out removes amount", 10, AdjustmentOut, 4, 6, -4, nil},
		{"out to zero", 10, AdjustmentOut, 10, 0, -10, nil},
		{"out below zero", 10, AdjustmentOut, 15, 10, 0, ErrNegativeStock},
		{"adjustment up", 10, AdjustmentSet, 25, 25, 15, nil},
		{"adjustment down", 10, AdjustmentSet, 3, 3, -7, nil},
		{"adjustment unchanged", 10, AdjustmentSet, 10, 10, 0, nil},
		{"adjustment negative target", 10, AdjustmentSet, -1, 10, 0, ErrNegativeStock},
		{"in up to the maximum", 10, AdjustmentIn, MaxStockQuantity - 10, MaxStockQuantity, MaxStockQuantity - 10, nil},
		{"in past the maximum", 10, AdjustmentIn, MaxStockQuantity - 9, 10, 0, ErrStockOverflow},
		{"in with a huge amount", 10, AdjustmentIn, math.MaxInt64, 10, 0, ErrStockOverflow},
		{"out with a huge amount", 10, AdjustmentOut, math.MaxInt64, 10, 0, ErrNegativeStock},
		{"adjustment to the maximum", 0, AdjustmentSet, MaxStockQuantity, MaxStockQuantity, MaxStockQuantity, nil},
		{"adjustment past the maximum", 0, AdjustmentSet, MaxStockQuantity + 1, 0, 0, ErrStockOverflow},
		{"min stock is not a quantity change", 10, AdjustmentUpdateMinStock, 3, 10, 0, ErrNotQuantityChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, delta, err := ApplyAdjustment(tt.current, tt.typ, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.Equal(t, tt.current+delta, qty)
			}
			assert.Equal(t, tt.wantQty, qty)
			assert.Equal(t, tt.wantDelta, delta)
		})
	}
}

func TestAdjustmentType_MovementType(t *testing.T) {
	assert.Equal(t, MovementIn, AdjustmentIn.MovementType())
	assert.Equal(t, MovementOut, AdjustmentOut.MovementType())
	assert.Equal(t, MovementAdjustment, AdjustmentSet.MovementType())
	assert.Equal(t, MovementType(""), AdjustmentUpdateMinStock.MovementType())
	assert.True(t, AdjustmentUpdateMinStock.Valid())
	assert.False(t, AdjustmentType("TRANSFER").Valid())
}

func TestInventory_IsLowStock(t *testing.T) {
	assert.True(t, Inventory{Quantity: 2, MinStock: 2}.IsLowStock())
	assert.True(t, Inventory{Quantity: 1, MinStock: 2}.IsLowStock())
	assert.False(t, Inventory{Quantity: 3, MinStock: 2}.IsLowStock())
}

func TestStockedProduct_IsLowStock(t *testing.T) {
	assert.True(t, StockedProduct{Quantity: 3, MinStock: 3}.IsLowStock())
	assert.False(t, StockedProduct{Quantity: 4, MinStock: 3}.IsLowStock())
}

func TestLedgerReport_Consistent(t *testing.T) {
	assert.True(t, LedgerReport{Quantity: 6, LedgerSum: 6}.Consistent())
	assert.False(t, LedgerReport{Quantity: 6, LedgerSum: 10}.Consistent())
}
