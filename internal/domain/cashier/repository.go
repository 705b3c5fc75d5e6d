package cashier

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Repository define o contrato de persistência de sessões de caixa
type Repository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, s *Session) error
	CloseTx(ctx context.Context, tx pgx.Tx, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	FindOpenByTerminal(ctx context.Context, terminalID string) (*Session, error)

	// LockOpenByTerminalTx localiza a sessão aberta do terminal com bloqueio
	// de linha; toda transição de sessão serializa aqui.
	LockOpenByTerminalTx(ctx context.Context, tx pgx.Tx, terminalID string) (*Session, error)

	CreateMovementTx(ctx context.Context, tx pgx.Tx, m *Movement) error
	ListMovements(ctx context.Context, sessionID string) ([]*Movement, error)

	// TotalsTx soma vendas em dinheiro, suprimentos e sangrias da sessão
	// dentro da transação de fechamento.
	TotalsTx(ctx context.Context, tx pgx.Tx, sessionID string) (Totals, error)

	ListByPeriod(ctx context.Context, from, to time.Time) ([]*Session, error)
}
