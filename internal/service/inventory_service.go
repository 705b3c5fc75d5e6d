package service

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/erp-pdv/internal/domain/inventory"
)

// InventoryService implementa reserva e devolução de estoque. As operações
// rodam dentro da transação do chamador; o saldo é lido com bloqueio de linha
// antes da escrita para serializar vendas concorrentes do mesmo produto.
type InventoryService struct {
	stocks         inventory.Repository
	rejectNegative bool
}

// NewInventoryService cria uma nova instância de InventoryService.
// A política de estoque negativo é configurável: por padrão a baixa é aceita
// mesmo sem saldo; STOCK_REJECT_NEGATIVE=true passa a rejeitar.
func NewInventoryService(stocks inventory.Repository) *InventoryService {
	return &InventoryService{
		stocks:         stocks,
		rejectNegative: os.Getenv("STOCK_REJECT_NEGATIVE") == "true",
	}
}

// Reserve baixa as quantidades de todas as linhas no depósito informado
func (s *InventoryService) Reserve(ctx context.Context, tx pgx.Tx, lines []inventory.Line, warehouseID string) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		stock, err := s.stocks.LockStockTx(ctx, tx, line.ProductID, warehouseID)
		if err != nil {
			return fmt.Errorf("produto %s: %w", line.ProductID, err)
		}

		if s.rejectNegative && stock.Quantity < line.Quantity {
			return &inventory.InsufficientError{
				ProductID: line.ProductID,
				Available: stock.Quantity,
				Requested: line.Quantity,
			}
		}

		if err := s.stocks.AdjustStockTx(ctx, tx, line.ProductID, warehouseID, -line.Quantity); err != nil {
			return fmt.Errorf("produto %s: %w", line.ProductID, err)
		}
	}
	return nil
}

// Release devolve as quantidades, usada no cancelamento de venda
func (s *InventoryService) Release(ctx context.Context, tx pgx.Tx, lines []inventory.Line, warehouseID string) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		if _, err := s.stocks.LockStockTx(ctx, tx, line.ProductID, warehouseID); err != nil {
			return fmt.Errorf("produto %s: %w", line.ProductID, err)
		}

		if err := s.stocks.AdjustStockTx(ctx, tx, line.ProductID, warehouseID, line.Quantity); err != nil {
			return fmt.Errorf("produto %s: %w", line.ProductID, err)
		}
	}
	return nil
}
