package domain

import (
	"errors"
	"math"
	"time"
)

// MaxStockQuantity is the largest quantity an inventory row can hold.
const MaxStockQuantity = math.MaxInt32

var (
	ErrNegativeStock     = errors.New("stock cannot become negative")
	ErrStockOverflow     = errors.New("stock exceeds the maximum quantity")
	ErrNotQuantityChange = errors.New("adjustment does not change quantity")
)

type Inventory struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenantId"`
	ProductID string    `db:"productId"`
	Quantity  int       `db:"quantity"`
	MinStock  int       `db:"minStock"`
	UpdatedAt time.Time `db:"updatedAt"`
}

func (i Inventory) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}

type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementSale       MovementType = "SALE"
	MovementReturn     MovementType = "RETURN"
)

// StockMovement is one append-only ledger row. Quantity is the signed delta.
type StockMovement struct {
	ID          string       `db:"id"`
	TenantID    string       `db:"tenantId"`
	ProductID   string       `db:"productId"`
	Quantity    int          `db:"quantity"`
	Type        MovementType `db:"type"`
	Reason      string       `db:"reason"`
	ReferenceID *string      `db:"referenceId"`
	CreatedAt   time.Time    `db:"createdAt"`
}

type AdjustmentType string

const (
	AdjustmentIn             AdjustmentType = "IN"
	AdjustmentOut            AdjustmentType = "OUT"
	AdjustmentSet            AdjustmentType = "ADJUSTMENT"
	AdjustmentUpdateMinStock AdjustmentType = "UPDATE_MIN_STOCK"
)

func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentIn, AdjustmentOut, AdjustmentSet, AdjustmentUpdateMinStock:
		return true
	}
	return false
}

// MovementType returns the ledger type written for the adjustment.
// UPDATE_MIN_STOCK writes no ledger row and returns "".
func (t AdjustmentType) MovementType() MovementType {
	switch t {
	case AdjustmentIn:
		return MovementIn
	case AdjustmentOut:
		return MovementOut
	case AdjustmentSet:
		return MovementAdjustment
	}
	return ""
}

// ApplyAdjustment computes the resulting quantity and the ledger delta for a
// quantity adjustment. For ADJUSTMENT the amount is the absolute target and
// the delta is target - current. current must be within [0, MaxStockQuantity].
func ApplyAdjustment(current int, t AdjustmentType, amount int) (newQuantity int, delta int, err error) {
	switch t {
	case AdjustmentIn:
		if amount > MaxStockQuantity-current {
			return current, 0, ErrStockOverflow
		}
		newQuantity, delta = current+amount, amount
	case AdjustmentOut:
		if amount < current-MaxStockQuantity {
			return current, 0, ErrStockOverflow
		}
		newQuantity, delta = current-amount, -amount
	case AdjustmentSet:
		if amount > MaxStockQuantity {
			return current, 0, ErrStockOverflow
		}
		newQuantity, delta = amount, amount-current
	default:
		return current, 0, ErrNotQuantityChange
	}
	if newQuantity < 0 {
		return current, 0, ErrNegativeStock
	}
	return newQuantity, delta, nil
}

// LedgerReport compares the inventory snapshot with the sum of its movements.
type LedgerReport struct {
	ProductID     string `db:"productId"`
	Quantity      int    `db:"quantity"`
	LedgerSum     int    `db:"ledgerSum"`
	MovementCount int    `db:"movementCount"`
}

func (r LedgerReport) Consistent() bool {
	return r.Quantity == r.LedgerSum
}
