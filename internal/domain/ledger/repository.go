package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Repository define o contrato de persistência do razão financeiro
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	FindAccountByID(ctx context.Context, id string) (*Account, error)
	ListAccounts(ctx context.Context, organizationID string) ([]*Account, error)

	// LockAccountTx lê a conta com bloqueio de linha; toda atualização de
	// saldo passa por aqui.
	LockAccountTx(ctx context.Context, tx pgx.Tx, accountID string) (*Account, error)

	// PostMovementTx insere a movimentação e atualiza o saldo corrente da
	// conta na mesma transação; nenhum observador vê um sem o outro.
	PostMovementTx(ctx context.Context, tx pgx.Tx, m *Movement) error

	FindMovementByID(ctx context.Context, id string) (*Movement, error)
	FindLastOpenMovementTx(ctx context.Context, tx pgx.Tx, installmentID string) (*Movement, error)
	ListMovementsBySaleTx(ctx context.Context, tx pgx.Tx, saleID string) ([]*Movement, error)
	SetReconciled(ctx context.Context, movementID string, flag bool) error

	CreateCategory(ctx context.Context, c *Category) error
	FindCategoryByID(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context, organizationID string) ([]*Category, error)

	CreateCostCenter(ctx context.Context, c *CostCenter) error
	ListCostCenters(ctx context.Context, organizationID string) ([]*CostCenter, error)

	CreateTitleTx(ctx context.Context, tx pgx.Tx, t *Title) error
	FindTitleByID(ctx context.Context, id string) (*Title, error)
	UpdateTitleTotalTx(ctx context.Context, tx pgx.Tx, titleID string, delta float64) error

	FindInstallmentByID(ctx context.Context, id string) (*Installment, error)
	LockInstallmentTx(ctx context.Context, tx pgx.Tx, id string) (*Installment, error)
	UpdateInstallmentTx(ctx context.Context, tx pgx.Tx, i *Installment) error
	DeleteInstallmentTx(ctx context.Context, tx pgx.Tx, id string) error
	ListInstallmentsByTitle(ctx context.Context, titleID string) ([]*Installment, error)
	ListInstallmentsByDue(ctx context.Context, direction Direction, from, to time.Time) ([]*Installment, error)
}
