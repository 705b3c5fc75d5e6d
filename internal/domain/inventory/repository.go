package inventory

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define o contrato de persistência de estoque
type Repository interface {
	CreateWarehouse(ctx context.Context, w *Warehouse) error
	FindWarehouseByID(ctx context.Context, id string) (*Warehouse, error)
	ListWarehouses(ctx context.Context, organizationID string) ([]*Warehouse, error)

	FindStock(ctx context.Context, productID, warehouseID string) (*StockLevel, error)

	// LockStockTx lê o saldo com bloqueio de linha (FOR UPDATE); vendas
	// concorrentes do mesmo produto serializam aqui.
	LockStockTx(ctx context.Context, tx pgx.Tx, productID, warehouseID string) (*StockLevel, error)
	AdjustStockTx(ctx context.Context, tx pgx.Tx, productID, warehouseID string, delta float64) error
}
