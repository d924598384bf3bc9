package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// Store almacenamiento en memoria con la misma semántica transaccional que PostgreSQL:
// Run trabaja sobre una copia del estado y solo la publica si fn no retorna error.
// Las transacciones se serializan con un único mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	items        map[string]*entity.Item
	batches      map[string]*entity.InventoryBatch
	batchOrder   []string
	transactions []*entity.InventoryTransaction
	sales        map[string]*entity.Sale // por invoice id
	processed    map[string]time.Time
	purchases    map[string]*entity.Purchase
	suppliers    map[string]*entity.Supplier
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func newState() *state {
	return &state{
		items:     map[string]*entity.Item{},
		batches:   map[string]*entity.InventoryBatch{},
		sales:     map[string]*entity.Sale{},
		processed: map[string]time.Time{},
		purchases: map[string]*entity.Purchase{},
		suppliers: map[string]*entity.Supplier{},
	}
}

// Run ejecuta fn con repositorios atados a una copia del estado. Commit solo si fn retorna nil.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(txAccess{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos repositorios fuera de transacción: cada llamada toma el mutex por separado.
// No usarlos dentro de Run (el mutex ya está tomado).
func (s *Store) Repos() repository.TxRepos {
	return reposFor(lockedAccess{s: s})
}

// access abstrae cómo un repositorio llega al estado (dentro o fuera de una transacción).
type access interface {
	with(fn func(st *state))
}

type txAccess struct{ st *state }

func (a txAccess) with(fn func(st *state)) { fn(a.st) }

type lockedAccess struct{ s *Store }

func (a lockedAccess) with(fn func(st *state)) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	fn(a.s.st)
}

func reposFor(a access) repository.TxRepos {
	return repository.TxRepos{
		Items:        &itemRepo{a: a},
		Batches:      &batchRepo{a: a},
		Transactions: &transactionRepo{a: a},
		Sales:        &saleRepo{a: a},
		Purchases:    &purchaseRepo{a: a},
		Suppliers:    &supplierRepo{a: a},
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.items {
		c.items[k] = cloneItem(v)
	}
	for k, v := range st.batches {
		c.batches[k] = cloneBatch(v)
	}
	c.batchOrder = append([]string(nil), st.batchOrder...)
	// las filas del libro son inmutables: basta copiar el slice
	c.transactions = append([]*entity.InventoryTransaction(nil), st.transactions...)
	for k, v := range st.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range st.processed {
		c.processed[k] = v
	}
	for k, v := range st.purchases {
		c.purchases[k] = clonePurchase(v)
	}
	for k, v := range st.suppliers {
		c.suppliers[k] = cloneSupplier(v)
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneItem(i *entity.Item) *entity.Item {
	c := *i
	c.DeletedAt = cloneTime(i.DeletedAt)
	return &c
}

func cloneBatch(b *entity.InventoryBatch) *entity.InventoryBatch {
	c := *b
	c.ExpiryDate = cloneTime(b.ExpiryDate)
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	return &c
}

func clonePurchase(p *entity.Purchase) *entity.Purchase {
	c := *p
	c.ExpectedDeliveryDate = cloneTime(p.ExpectedDeliveryDate)
	c.ActualDeliveryDate = cloneTime(p.ActualDeliveryDate)
	if p.QualityNote != nil {
		q := *p.QualityNote
		c.QualityNote = &q
	}
	return &c
}

func cloneSupplier(s *entity.Supplier) *entity.Supplier {
	c := *s
	c.DeletedAt = cloneTime(s.DeletedAt)
	if s.AvgDeliveryTimeDays != nil {
		d := *s.AvgDeliveryTimeDays
		c.AvgDeliveryTimeDays = &d
	}
	return &c
}
