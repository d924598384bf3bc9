package purchasing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func TestPurchaseOrder_CreateValidatesReferences(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	_, err := f.orders.Create(ctx, dto.CreatePurchaseRequest{SupplierID: "nope", ItemID: "item-1", QuantityOrdered: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.orders.Create(ctx, dto.CreatePurchaseRequest{SupplierID: "sup-1", ItemID: "nope", QuantityOrdered: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.orders.Create(ctx, dto.CreatePurchaseRequest{SupplierID: "sup-1", ItemID: "item-1", QuantityOrdered: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseOrder_ListFiltersByStatus(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	a := f.order(t, 1, nil)
	f.order(t, 2, nil)
	_, err := f.orders.Cancel(ctx, a)
	require.NoError(t, err)

	all, err := f.orders.List(ctx, dto.PurchaseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.orders.List(ctx, dto.PurchaseFilter{Status: entity.PurchaseStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].QuantityOrdered)
}

func TestPurchaseOrder_CancelTwice(t *testing.T) {
	f := newFixture(t, 1)
	id := f.order(t, 1, nil)

	p, err := f.orders.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCancelled, p.Status)

	_, err = f.orders.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.orders.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
