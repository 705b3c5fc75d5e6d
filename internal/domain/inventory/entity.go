package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrWarehouseNotFound = errors.New("depósito não encontrado")
	ErrStockNotFound     = errors.New("produto sem saldo no depósito")
	ErrInsufficient      = errors.New("estoque insuficiente")
)

// InsufficientError identifica o produto sem saldo suficiente
type InsufficientError struct {
	ProductID string
	Available float64
	Requested float64
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("estoque insuficiente para o produto %s: disponível %.3f, solicitado %.3f",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientError) Unwrap() error {
	return ErrInsufficient
}

// Warehouse representa um depósito de uma organização
type Warehouse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewWarehouse cria um novo depósito
func NewWarehouse(organizationID, code, name, address string) (*Warehouse, error) {
	if organizationID == "" {
		return nil, errors.New("ID da organização não pode ser vazio")
	}
	if code == "" {
		return nil, errors.New("código não pode ser vazio")
	}

	return &Warehouse{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Code:           code,
		Name:           name,
		Address:        address,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}, nil
}

// StockLevel representa o saldo de um produto em um depósito
type StockLevel struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    float64   `json:"quantity"`
	MovingCost  float64   `json:"moving_cost"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Line é uma linha de movimentação de estoque (produto e quantidade)
type Line struct {
	ProductID string
	Quantity  float64
}
