package sale

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Repository define o contrato de persistência de vendas
type Repository interface {
	// CreateTx persiste a venda com itens e pagamentos na mesma transação
	CreateTx(ctx context.Context, tx pgx.Tx, s *Sale) error
	CancelTx(ctx context.Context, tx pgx.Tx, saleID, reasonID string) error
	MarkFiscalizedTx(ctx context.Context, tx pgx.Tx, presaleID string) error

	FindByID(ctx context.Context, id string) (*Sale, error)
	FindByIDTx(ctx context.Context, tx pgx.Tx, id string) (*Sale, error)
	ListBySession(ctx context.Context, sessionID string) ([]*Sale, error)
	ListPendingNonFiscal(ctx context.Context, from, to time.Time) ([]*Sale, error)

	FindCancellationReason(ctx context.Context, id string) (*CancellationReason, error)
	CreateCancellationReason(ctx context.Context, r *CancellationReason) error
	ListCancellationReasons(ctx context.Context) ([]*CancellationReason, error)
}
