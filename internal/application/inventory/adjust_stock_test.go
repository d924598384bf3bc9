package inventory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow-api/pkg/clock"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Repos().Items.Create(context.Background(), &entity.Item{
		ID: "item-1", Code: "EGG", Name: "Eggs", IsActive: true, ReorderPoint: 10,
	}))
	return s
}

func addBatch(t *testing.T, s *memory.Store, id string, qty int, received string, expiry *time.Time) {
	t.Helper()
	require.NoError(t, s.Repos().Batches.Create(context.Background(), &entity.InventoryBatch{
		ID: id, ItemID: "item-1", BatchNumber: id, Quantity: qty, ReceivedDate: day(received), ExpiryDate: expiry,
	}))
}

func adjust(change, reason string) dto.AdjustStockRequest {
	return dto.AdjustStockRequest{QuantityChange: json.Number(change), Reason: reason}
}

func TestParseQuantityChange(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"5", 5, true},
		{"-3", -3, true},
		{" 7 ", 7, true},
		{"0", 0, false},
		{"", 0, false},
		{"2.5", 0, false},
		{"NaN", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseQuantityChange(tt.raw)
			if !tt.ok {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.EqualError(t, err, "Invalid quantity change")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdjust_PositiveCreatesBatchWithDefaultExpiry(t *testing.T) {
	s := newStore(t)
	uc := NewAdjustStockUseCase(s, clock.Fixed{T: now}, logger.Nop(), 365)

	res, err := uc.Adjust(context.Background(), "item-1", adjust("12", "recount"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 12, res.NewQuantity)

	batches, err := s.Repos().Batches.ListAvailable(context.Background(), "item-1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.NotNil(t, batches[0].ExpiryDate)
	assert.True(t, now.AddDate(1, 0, 0).Equal(*batches[0].ExpiryDate))

	rows, err := s.Repos().Transactions.ListByReference(context.Background(), "recount")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.ChangeTypeAdjustment, rows[0].ChangeType)
	assert.Equal(t, 12, rows[0].QuantityChange)
}

func TestAdjust_PositiveKeepsSuppliedExpiry(t *testing.T) {
	s := newStore(t)
	uc := NewAdjustStockUseCase(s, clock.Fixed{T: now}, logger.Nop(), 365)
	exp := day("2024-04-01")
	in := adjust("1", "")
	in.ExpiryDate = &exp

	_, err := uc.Adjust(context.Background(), "item-1", in)
	require.NoError(t, err)

	rows, err := s.Repos().Transactions.ListByReference(context.Background(), DefaultAdjustmentReason)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	batches, err := s.Repos().Batches.ListAvailable(context.Background(), "item-1")
	require.NoError(t, err)
	assert.True(t, exp.Equal(*batches[0].ExpiryDate))
}

func TestAdjust_NegativeWalksByReceivedDate(t *testing.T) {
	s := newStore(t)
	// vence antes pero se recibió después: el ajuste negativo sigue el orden de recepción
	soon := day("2024-03-10")
	late := day("2024-12-31")
	addBatch(t, s, "old", 4, "2024-01-01", &late)
	addBatch(t, s, "new", 6, "2024-02-01", &soon)
	uc := NewAdjustStockUseCase(s, clock.Fixed{T: now}, logger.Nop(), 365)

	res, err := uc.Adjust(context.Background(), "item-1", adjust("-5", "breakage"))
	require.NoError(t, err)
	assert.Equal(t, 5, res.NewQuantity)

	rows, err := s.Repos().Transactions.ListByReference(context.Background(), "breakage")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "old", rows[0].BatchID)
	assert.Equal(t, -4, rows[0].QuantityChange)
	assert.Equal(t, "new", rows[1].BatchID)
	assert.Equal(t, -1, rows[1].QuantityChange)
}

func TestAdjust_NegativeBeyondStockIsRejected(t *testing.T) {
	s := newStore(t)
	addBatch(t, s, "b1", 3, "2024-01-01", nil)
	uc := NewAdjustStockUseCase(s, clock.Fixed{T: now}, logger.Nop(), 365)

	_, err := uc.Adjust(context.Background(), "item-1", adjust("-4", "loss"))
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, "Resulting quantity cannot be negative")

	n, err := s.Repos().Batches.SumAvailable(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	rows, err := s.Repos().Transactions.ListByReference(context.Background(), "loss")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAdjust_Errors(t *testing.T) {
	s := newStore(t)
	uc := NewAdjustStockUseCase(s, clock.Fixed{T: now}, logger.Nop(), 365)

	_, err := uc.Adjust(context.Background(), "item-1", adjust("0", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Adjust(context.Background(), "item-1", adjust("", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Adjust(context.Background(), "missing", adjust("1", ""))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_LedgerMatchesBatchChanges(t *testing.T) {
	s := newStore(t)
	addBatch(t, s, "b1", 2, "2024-01-01", nil)
	addBatch(t, s, "b2", 2, "2024-01-02", nil)
	addBatch(t, s, "b3", 2, "2024-01-03", nil)
	uc := NewAdjustStockUseCase(s, clock.Fixed{T: now}, logger.Nop(), 365)

	for _, change := range []string{"-3", "4", "-6"} {
		_, err := uc.Adjust(context.Background(), "item-1", adjust(change, "audit"))
		require.NoError(t, err)
	}

	rows, err := s.Repos().Transactions.ListByItem(context.Background(), "item-1", 100, 0)
	require.NoError(t, err)
	sum := 0
	for _, r := range rows {
		sum += r.QuantityChange
	}
	stock, err := s.Repos().Batches.SumAvailable(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, 6+sum, stock)
	assert.Equal(t, 1, stock)
}

func batchFor(itemID, id string, qty int) *entity.InventoryBatch {
	return &entity.InventoryBatch{ID: id, ItemID: itemID, BatchNumber: id, Quantity: qty, ReceivedDate: now}
}

func nopLogger() *logger.Logger { return logger.Nop() }
