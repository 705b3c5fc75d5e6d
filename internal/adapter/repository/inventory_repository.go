package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/inventory"
)

// InventoryRepository implementa a interface inventory.Repository usando PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository cria uma nova instância de InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) inventory.Repository {
	return &InventoryRepository{db: db}
}

// CreateWarehouse implementa inventory.Repository.CreateWarehouse
func (r *InventoryRepository) CreateWarehouse(ctx context.Context, w *inventory.Warehouse) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO warehouses (id, organization_id, code, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, w.ID, w.OrganizationID, w.Code, w.Name, w.Address, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir depósito: %w", err)
	}
	return nil
}

// FindWarehouseByID implementa inventory.Repository.FindWarehouseByID
func (r *InventoryRepository) FindWarehouseByID(ctx context.Context, id string) (*inventory.Warehouse, error) {
	w := &inventory.Warehouse{}
	err := r.db.QueryRow(ctx, `
		SELECT id, organization_id, code, name, address, created_at, updated_at
		FROM warehouses WHERE id = $1 AND is_deleted = false
	`, id).Scan(&w.ID, &w.OrganizationID, &w.Code, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrWarehouseNotFound
		}
		return nil, fmt.Errorf("falha ao ler depósito: %w", err)
	}
	return w, nil
}

// ListWarehouses implementa inventory.Repository.ListWarehouses
func (r *InventoryRepository) ListWarehouses(ctx context.Context, organizationID string) ([]*inventory.Warehouse, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, organization_id, code, name, address, created_at, updated_at
		FROM warehouses WHERE organization_id = $1 AND is_deleted = false ORDER BY code
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar depósitos: %w", err)
	}
	defer rows.Close()

	var out []*inventory.Warehouse
	for rows.Next() {
		w := &inventory.Warehouse{}
		if err := rows.Scan(&w.ID, &w.OrganizationID, &w.Code, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("falha ao ler depósito: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// FindStock implementa inventory.Repository.FindStock
func (r *InventoryRepository) FindStock(ctx context.Context, productID, warehouseID string) (*inventory.StockLevel, error) {
	s := &inventory.StockLevel{}
	err := r.db.QueryRow(ctx, `
		SELECT id, product_id, warehouse_id, quantity, moving_cost, created_at, updated_at
		FROM stock_levels
		WHERE product_id = $1 AND warehouse_id = $2 AND is_deleted = false
	`, productID, warehouseID).Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.MovingCost, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrStockNotFound
		}
		return nil, fmt.Errorf("falha ao ler estoque: %w", err)
	}
	return s, nil
}

// LockStockTx implementa inventory.Repository.LockStockTx. A linha de saldo
// inexistente é criada zerada antes do bloqueio, para que a primeira venda de
// um produto não dependa de carga prévia de estoque.
func (r *InventoryRepository) LockStockTx(ctx context.Context, tx pgx.Tx, productID, warehouseID string) (*inventory.StockLevel, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity)
		VALUES ($1, $2, 0)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING
	`, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("falha ao preparar saldo: %w", err)
	}

	s := &inventory.StockLevel{}
	err = tx.QueryRow(ctx, `
		SELECT id, product_id, warehouse_id, quantity, moving_cost, created_at, updated_at
		FROM stock_levels
		WHERE product_id = $1 AND warehouse_id = $2 AND is_deleted = false
		FOR UPDATE
	`, productID, warehouseID).Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.MovingCost, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrStockNotFound
		}
		return nil, fmt.Errorf("falha ao bloquear saldo: %w", err)
	}
	return s, nil
}

// AdjustStockTx implementa inventory.Repository.AdjustStockTx
func (r *InventoryRepository) AdjustStockTx(ctx context.Context, tx pgx.Tx, productID, warehouseID string, delta float64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE stock_levels
		SET quantity = quantity + $3
		WHERE product_id = $1 AND warehouse_id = $2 AND is_deleted = false
	`, productID, warehouseID, delta)
	if err != nil {
		return fmt.Errorf("falha ao ajustar estoque: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrStockNotFound
	}
	return nil
}
