package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository        = (*itemRepo)(nil)
	_ repository.BatchRepository       = (*batchRepo)(nil)
	_ repository.TransactionRepository = (*transactionRepo)(nil)
	_ repository.SaleRepository        = (*saleRepo)(nil)
	_ repository.PurchaseRepository    = (*purchaseRepo)(nil)
	_ repository.SupplierRepository    = (*supplierRepo)(nil)
)

func paginate[T any](xs []T, limit, offset int) []T {
	if offset >= len(xs) {
		return []T{}
	}
	xs = xs[offset:]
	if limit > 0 && limit < len(xs) {
		xs = xs[:limit]
	}
	return xs
}

func stockOf(st *state, itemID string) int {
	total := 0
	for _, b := range st.batches {
		if b.ItemID == itemID && b.Quantity > 0 {
			total += b.Quantity
		}
	}
	return total
}

// --- items ---

type itemRepo struct{ a access }

func (r *itemRepo) Create(_ context.Context, item *entity.Item) (err error) {
	r.a.with(func(st *state) {
		for _, it := range st.items {
			if it.Code == item.Code && !it.IsDeleted() {
				err = domain.ErrDuplicate
				return
			}
		}
		st.items[item.ID] = cloneItem(item)
	})
	return err
}

func (r *itemRepo) GetByID(_ context.Context, id string) (out *entity.Item, _ error) {
	r.a.with(func(st *state) {
		if it, ok := st.items[id]; ok && !it.IsDeleted() {
			out = cloneItem(it)
		}
	})
	return out, nil
}

func (r *itemRepo) GetByCode(_ context.Context, code string) (out *entity.Item, _ error) {
	r.a.with(func(st *state) {
		for _, it := range st.items {
			if it.Code == code && it.IsActive && !it.IsDeleted() {
				out = cloneItem(it)
				return
			}
		}
	})
	return out, nil
}

func (r *itemRepo) ListWithStock(_ context.Context, limit, offset int) (out []*entity.ItemWithStock, _ error) {
	r.a.with(func(st *state) {
		all := make([]*entity.ItemWithStock, 0, len(st.items))
		for _, it := range st.items {
			if it.IsDeleted() {
				continue
			}
			all = append(all, &entity.ItemWithStock{Item: *cloneItem(it), CurrentStock: stockOf(st, it.ID)})
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
		out = paginate(all, limit, offset)
	})
	return out, nil
}

func (r *itemRepo) Update(_ context.Context, item *entity.Item) (err error) {
	r.a.with(func(st *state) {
		it, ok := st.items[item.ID]
		if !ok || it.IsDeleted() {
			err = domain.ErrNotFound
			return
		}
		it.Name = item.Name
		it.CostPrice = item.CostPrice
		it.SellingPrice = item.SellingPrice
		it.ReorderPoint = item.ReorderPoint
		it.IsActive = item.IsActive
		it.UpdatedAt = item.UpdatedAt
	})
	return err
}

func (r *itemRepo) SoftDelete(_ context.Context, id string, at time.Time) (err error) {
	r.a.with(func(st *state) {
		it, ok := st.items[id]
		if !ok || it.IsDeleted() {
			err = domain.ErrNotFound
			return
		}
		deletedAt := at
		it.DeletedAt = &deletedAt
		it.IsActive = false
		it.UpdatedAt = at
	})
	return err
}

func (r *itemRepo) UpdateCostPrice(_ context.Context, id string, cost decimal.Decimal, at time.Time) (err error) {
	r.a.with(func(st *state) {
		it, ok := st.items[id]
		if !ok || it.IsDeleted() {
			err = domain.ErrNotFound
			return
		}
		it.CostPrice = cost
		it.UpdatedAt = at
	})
	return err
}

func (r *itemRepo) ListAtOrBelowReorderPoint(_ context.Context) (out []repository.ReorderItem, _ error) {
	r.a.with(func(st *state) {
		out = []repository.ReorderItem{}
		for _, it := range st.items {
			if it.IsDeleted() || !it.IsActive {
				continue
			}
			stock := stockOf(st, it.ID)
			if stock <= it.ReorderPoint {
				out = append(out, repository.ReorderItem{
					ItemID: it.ID, Code: it.Code, Name: it.Name,
					CurrentStock: stock, ReorderPoint: it.ReorderPoint,
				})
			}
		}
		sort.Slice(out, func(i, j int) bool {
			di := out[i].ReorderPoint - out[i].CurrentStock
			dj := out[j].ReorderPoint - out[j].CurrentStock
			if di != dj {
				return di > dj
			}
			return out[i].Code < out[j].Code
		})
	})
	return out, nil
}

// --- batches ---

type batchRepo struct{ a access }

func (r *batchRepo) Create(_ context.Context, batch *entity.InventoryBatch) (err error) {
	r.a.with(func(st *state) {
		if _, ok := st.batches[batch.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		if batch.Quantity < 0 {
			err = domain.ErrInvalidInput
			return
		}
		st.batches[batch.ID] = cloneBatch(batch)
		st.batchOrder = append(st.batchOrder, batch.ID)
	})
	return err
}

func (r *batchRepo) ListAvailable(_ context.Context, itemID string) (out []*entity.InventoryBatch, _ error) {
	r.a.with(func(st *state) {
		var of []*entity.InventoryBatch
		for _, id := range st.batchOrder {
			if b := st.batches[id]; b.ItemID == itemID {
				of = append(of, cloneBatch(b))
			}
		}
		out = inventory.Candidates(of, inventory.PolicyFEFO)
	})
	return out, nil
}

// ListAvailableForUpdate el mutex de Run ya serializa las transacciones.
func (r *batchRepo) ListAvailableForUpdate(ctx context.Context, itemID string) ([]*entity.InventoryBatch, error) {
	return r.ListAvailable(ctx, itemID)
}

func (r *batchRepo) Deduct(_ context.Context, batchID string, qty int) (err error) {
	r.a.with(func(st *state) {
		b, ok := st.batches[batchID]
		if !ok || qty <= 0 || b.Quantity < qty {
			err = domain.ErrConflict
			return
		}
		b.Quantity -= qty
	})
	return err
}

func (r *batchRepo) SumAvailable(_ context.Context, itemID string) (total int, _ error) {
	r.a.with(func(st *state) { total = stockOf(st, itemID) })
	return total, nil
}

func (r *batchRepo) ListExpiring(_ context.Context, from, to time.Time) (out []*entity.ExpiringBatch, _ error) {
	r.a.with(func(st *state) {
		out = []*entity.ExpiringBatch{}
		for _, id := range st.batchOrder {
			b := st.batches[id]
			if b.Quantity <= 0 || b.ExpiryDate == nil || b.ExpiryDate.Before(from) || b.ExpiryDate.After(to) {
				continue
			}
			it, ok := st.items[b.ItemID]
			if !ok || it.IsDeleted() {
				continue
			}
			out = append(out, &entity.ExpiringBatch{InventoryBatch: *cloneBatch(b), ItemCode: it.Code, ItemName: it.Name})
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	})
	return out, nil
}

// --- ledger ---

type transactionRepo struct{ a access }

func (r *transactionRepo) Create(_ context.Context, txn *entity.InventoryTransaction) error {
	c := *txn
	r.a.with(func(st *state) { st.transactions = append(st.transactions, &c) })
	return nil
}

func (r *transactionRepo) ListByItem(_ context.Context, itemID string, limit, offset int) (out []*entity.InventoryTransaction, _ error) {
	r.a.with(func(st *state) {
		all := []*entity.InventoryTransaction{}
		for i := len(st.transactions) - 1; i >= 0; i-- {
			if t := st.transactions[i]; t.ItemID == itemID {
				c := *t
				all = append(all, &c)
			}
		}
		out = paginate(all, limit, offset)
	})
	return out, nil
}

func (r *transactionRepo) ListByReference(_ context.Context, referenceID string) (out []*entity.InventoryTransaction, _ error) {
	r.a.with(func(st *state) {
		out = []*entity.InventoryTransaction{}
		for _, t := range st.transactions {
			if t.ReferenceID == referenceID {
				c := *t
				out = append(out, &c)
			}
		}
	})
	return out, nil
}

// --- sales ---

type saleRepo struct{ a access }

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) (err error) {
	r.a.with(func(st *state) {
		if _, ok := st.sales[sale.InvoiceID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.sales[sale.InvoiceID] = cloneSale(sale)
	})
	return err
}

func (r *saleRepo) GetByInvoiceID(_ context.Context, invoiceID string) (out *entity.Sale, _ error) {
	r.a.with(func(st *state) {
		if s, ok := st.sales[invoiceID]; ok {
			out = cloneSale(s)
		}
	})
	return out, nil
}

func (r *saleRepo) IsProcessed(_ context.Context, invoiceID string) (ok bool, _ error) {
	r.a.with(func(st *state) { _, ok = st.processed[invoiceID] })
	return ok, nil
}

func (r *saleRepo) MarkProcessed(_ context.Context, invoiceID string, at time.Time) (err error) {
	r.a.with(func(st *state) {
		if _, ok := st.processed[invoiceID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.processed[invoiceID] = at
	})
	return err
}

// --- purchases ---

type purchaseRepo struct{ a access }

func (r *purchaseRepo) Create(_ context.Context, p *entity.Purchase) (err error) {
	r.a.with(func(st *state) {
		if _, ok := st.purchases[p.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.purchases[p.ID] = clonePurchase(p)
	})
	return err
}

func (r *purchaseRepo) GetByID(_ context.Context, id string) (out *entity.Purchase, _ error) {
	r.a.with(func(st *state) {
		if p, ok := st.purchases[id]; ok {
			out = clonePurchase(p)
		}
	})
	return out, nil
}

func (r *purchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseRepo) Update(_ context.Context, p *entity.Purchase) (err error) {
	r.a.with(func(st *state) {
		if _, ok := st.purchases[p.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		st.purchases[p.ID] = clonePurchase(p)
	})
	return err
}

func (r *purchaseRepo) List(_ context.Context, status string, limit, offset int) (out []*entity.Purchase, _ error) {
	r.a.with(func(st *state) {
		all := []*entity.Purchase{}
		for _, p := range st.purchases {
			if status == "" || p.Status == status {
				all = append(all, clonePurchase(p))
			}
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID < all[j].ID
		})
		out = paginate(all, limit, offset)
	})
	return out, nil
}

// --- suppliers ---

type supplierRepo struct{ a access }

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) (err error) {
	r.a.with(func(st *state) {
		if _, ok := st.suppliers[s.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.suppliers[s.ID] = cloneSupplier(s)
	})
	return err
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (out *entity.Supplier, _ error) {
	r.a.with(func(st *state) {
		if s, ok := st.suppliers[id]; ok && s.DeletedAt == nil {
			out = cloneSupplier(s)
		}
	})
	return out, nil
}

// GetByIDForUpdate incluye proveedores dados de baja; el mutex de Run hace de bloqueo.
func (r *supplierRepo) GetByIDForUpdate(_ context.Context, id string) (out *entity.Supplier, _ error) {
	r.a.with(func(st *state) {
		if s, ok := st.suppliers[id]; ok {
			out = cloneSupplier(s)
		}
	})
	return out, nil
}

func (r *supplierRepo) List(_ context.Context, limit, offset int) (out []*entity.Supplier, _ error) {
	r.a.with(func(st *state) {
		all := []*entity.Supplier{}
		for _, s := range st.suppliers {
			if s.DeletedAt == nil {
				all = append(all, cloneSupplier(s))
			}
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name != all[j].Name {
				return all[i].Name < all[j].Name
			}
			return all[i].ID < all[j].ID
		})
		out = paginate(all, limit, offset)
	})
	return out, nil
}

func (r *supplierRepo) Update(_ context.Context, sup *entity.Supplier) (err error) {
	r.a.with(func(st *state) {
		s, ok := st.suppliers[sup.ID]
		if !ok || s.DeletedAt != nil {
			err = domain.ErrNotFound
			return
		}
		s.Name = sup.Name
		s.ContactInfo = sup.ContactInfo
		s.AvgDeliveryTimeDays = cloneSupplier(sup).AvgDeliveryTimeDays
		s.UpdatedAt = sup.UpdatedAt
	})
	return err
}

func (r *supplierRepo) UpdateReliabilityScore(_ context.Context, id string, score float64, at time.Time) (err error) {
	r.a.with(func(st *state) {
		s, ok := st.suppliers[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		s.ReliabilityScore = score
		s.UpdatedAt = at
	})
	return err
}

func (r *supplierRepo) SoftDelete(_ context.Context, id string, at time.Time) (err error) {
	r.a.with(func(st *state) {
		s, ok := st.suppliers[id]
		if !ok || s.DeletedAt != nil {
			err = domain.ErrNotFound
			return
		}
		deletedAt := at
		s.DeletedAt = &deletedAt
		s.UpdatedAt = at
	})
	return err
}
