package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func batch(id string, qty int, received string, expiry string) *entity.InventoryBatch {
	b := &entity.InventoryBatch{ID: id, Quantity: qty, ReceivedDate: day(received)}
	if expiry != "" {
		b.ExpiryDate = ptr(day(expiry))
	}
	return b
}

func TestAllocate_FEFO_DrawsEarliestExpiryFirst(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("late", 10, "2023-12-01", "2024-03-01"),
		batch("early", 5, "2023-12-15", "2024-01-01"),
	}

	plan := Allocate(8, batches, PolicyFEFO)

	require.True(t, plan.Feasible)
	assert.Equal(t, []Allocation{
		{BatchID: "early", QuantityTaken: 5},
		{BatchID: "late", QuantityTaken: 3},
	}, plan.Allocations)
	assert.Equal(t, 8, plan.Total())
	assert.Zero(t, plan.Shortfall)
}

func TestAllocate_FEFO_AcrossBatchesScenario(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("B", 10, "2024-10-01", "2025-06-01"),
		batch("A", 3, "2024-10-01", "2025-01-01"),
	}

	plan := Allocate(5, batches, PolicyFEFO)

	require.True(t, plan.Feasible)
	assert.Equal(t, []Allocation{{BatchID: "A", QuantityTaken: 3}, {BatchID: "B", QuantityTaken: 2}}, plan.Allocations)
}

func TestAllocate_NoExpirySortsLast(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("no-expiry-old", 4, "2023-01-01", ""),
		batch("expiring", 2, "2024-01-01", "2024-06-01"),
		batch("no-expiry-new", 4, "2024-02-01", ""),
	}

	plan := Allocate(7, batches, PolicyFEFO)

	require.True(t, plan.Feasible)
	assert.Equal(t, []Allocation{
		{BatchID: "expiring", QuantityTaken: 2},
		{BatchID: "no-expiry-old", QuantityTaken: 4},
		{BatchID: "no-expiry-new", QuantityTaken: 1},
	}, plan.Allocations)
}

func TestAllocate_SameExpiryTieBreaksByReceivedDate(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("second", 5, "2024-02-01", "2024-12-31"),
		batch("first", 5, "2024-01-01", "2024-12-31"),
	}

	plan := Allocate(6, batches, PolicyFEFO)

	require.True(t, plan.Feasible)
	assert.Equal(t, "first", plan.Allocations[0].BatchID)
	assert.Equal(t, 5, plan.Allocations[0].QuantityTaken)
	assert.Equal(t, "second", plan.Allocations[1].BatchID)
	assert.Equal(t, 1, plan.Allocations[1].QuantityTaken)
}

func TestAllocate_FIFOIgnoresExpiry(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("newer-expiring-soon", 5, "2024-03-01", "2024-04-01"),
		batch("older", 5, "2024-01-01", "2025-01-01"),
	}

	plan := Allocate(6, batches, PolicyFIFO)

	require.True(t, plan.Feasible)
	assert.Equal(t, []Allocation{
		{BatchID: "older", QuantityTaken: 5},
		{BatchID: "newer-expiring-soon", QuantityTaken: 1},
	}, plan.Allocations)
}

func TestAllocate_Infeasible(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("a", 3, "2024-01-01", "2025-01-01"),
		batch("b", 1, "2024-01-02", ""),
	}

	plan := Allocate(10, batches, PolicyFEFO)

	assert.False(t, plan.Feasible)
	assert.Equal(t, 4, plan.Available)
	assert.Equal(t, 6, plan.Shortfall)
	assert.Equal(t, 4, plan.Total(), "el plan parcial consume todo lo disponible")
}

func TestAllocate_SkipsExhaustedBatchesAndDoesNotMutateInput(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("empty", 0, "2023-01-01", "2023-06-01"),
		batch("full", 9, "2024-01-01", "2025-06-01"),
	}

	plan := Allocate(4, batches, PolicyFEFO)

	require.True(t, plan.Feasible)
	assert.Equal(t, []Allocation{{BatchID: "full", QuantityTaken: 4}}, plan.Allocations)
	assert.Equal(t, 9, batches[1].Quantity)
	assert.Equal(t, "empty", batches[0].ID, "el slice de entrada conserva su orden")
}

func TestAllocate_Conservation(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("a", 7, "2024-01-01", "2024-09-01"),
		batch("b", 2, "2024-01-05", "2024-08-01"),
		batch("c", 11, "2024-01-03", ""),
		batch("d", 4, "2024-01-02", "2024-09-01"),
	}
	for requested := 1; requested <= 24; requested++ {
		plan := Allocate(requested, batches, PolicyFEFO)
		require.True(t, plan.Feasible, "requested=%d", requested)
		assert.Equal(t, requested, plan.Total(), "requested=%d", requested)
		byID := map[string]int{}
		for _, b := range batches {
			byID[b.ID] = b.Quantity
		}
		for _, a := range plan.Allocations {
			assert.Positive(t, a.QuantityTaken)
			assert.LessOrEqual(t, a.QuantityTaken, byID[a.BatchID])
		}
	}
	assert.False(t, Allocate(25, batches, PolicyFEFO).Feasible)
}

func TestAllocate_ZeroRequestedIsFeasibleAndEmpty(t *testing.T) {
	plan := Allocate(0, []*entity.InventoryBatch{batch("a", 1, "2024-01-01", "")}, PolicyFEFO)
	assert.True(t, plan.Feasible)
	assert.Empty(t, plan.Allocations)
}
