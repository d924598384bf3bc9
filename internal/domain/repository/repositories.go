package repository

// TxRepos agrupa los repositorios atados a una misma transacción.
// Los casos de uso reciben este manejador explícito en lugar de un cliente global.
type TxRepos struct {
	Items        ItemRepository
	Batches      BatchRepository
	Transactions TransactionRepository
	Sales        SaleRepository
	Purchases    PurchaseRepository
	Suppliers    SupplierRepository
}
