package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/cashier"
)

// CashierRepository implementa a interface cashier.Repository usando PostgreSQL
type CashierRepository struct {
	db *pgxpool.Pool
}

// NewCashierRepository cria uma nova instância de CashierRepository
func NewCashierRepository(db *pgxpool.Pool) cashier.Repository {
	return &CashierRepository{db: db}
}

// CreateTx implementa cashier.Repository.CreateTx. O índice único parcial de
// sessão aberta decide aberturas concorrentes: a segunda inserção recebe 23505.
func (r *CashierRepository) CreateTx(ctx context.Context, tx pgx.Tx, s *cashier.Session) error {
	query := `
		INSERT INTO cash_sessions (
			id, terminal_id, operator_id, opened_at, opening_float, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := tx.Exec(ctx, query,
		s.ID, s.TerminalID, s.OperatorID, s.OpenedAt, s.OpeningFloat, string(s.Status), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return cashier.ErrAlreadyOpen
		}
		return fmt.Errorf("falha ao inserir sessão: %w", err)
	}
	return nil
}

// CloseTx implementa cashier.Repository.CloseTx
func (r *CashierRepository) CloseTx(ctx context.Context, tx pgx.Tx, s *cashier.Session) error {
	query := `
		UPDATE cash_sessions
		SET closed_at = $2, declared_close = $3, computed_close = $4, delta = $5,
			authorizer_id = $6, status = $7
		WHERE id = $1 AND status = 'open' AND is_deleted = false
	`

	tag, err := tx.Exec(ctx, query,
		s.ID, s.ClosedAt, s.DeclaredClose, s.ComputedClose, s.Delta, s.AuthorizerID, string(s.Status))
	if err != nil {
		return fmt.Errorf("falha ao fechar sessão: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cashier.ErrAlreadyClosed
	}
	return nil
}

const sessionColumns = `
	id, terminal_id, operator_id, opened_at, opening_float, closed_at,
	declared_close, computed_close, delta, authorizer_id, status, created_at, updated_at
`

func scanSession(row pgx.Row) (*cashier.Session, error) {
	s := &cashier.Session{}
	var status string

	err := row.Scan(
		&s.ID, &s.TerminalID, &s.OperatorID, &s.OpenedAt, &s.OpeningFloat, &s.ClosedAt,
		&s.DeclaredClose, &s.ComputedClose, &s.Delta, &s.AuthorizerID, &status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cashier.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao ler sessão: %w", err)
	}
	s.Status = cashier.Status(status)
	return s, nil
}

// FindByID implementa cashier.Repository.FindByID
func (r *CashierRepository) FindByID(ctx context.Context, id string) (*cashier.Session, error) {
	query := "SELECT " + sessionColumns + " FROM cash_sessions WHERE id = $1 AND is_deleted = false"
	return scanSession(r.db.QueryRow(ctx, query, id))
}

// FindOpenByTerminal implementa cashier.Repository.FindOpenByTerminal
func (r *CashierRepository) FindOpenByTerminal(ctx context.Context, terminalID string) (*cashier.Session, error) {
	query := "SELECT " + sessionColumns + ` FROM cash_sessions
		WHERE terminal_id = $1 AND status = 'open' AND is_deleted = false`

	s, err := scanSession(r.db.QueryRow(ctx, query, terminalID))
	if errors.Is(err, cashier.ErrNotFound) {
		return nil, cashier.ErrNoOpenSession
	}
	return s, err
}

// LockOpenByTerminalTx implementa cashier.Repository.LockOpenByTerminalTx
func (r *CashierRepository) LockOpenByTerminalTx(ctx context.Context, tx pgx.Tx, terminalID string) (*cashier.Session, error) {
	query := "SELECT " + sessionColumns + ` FROM cash_sessions
		WHERE terminal_id = $1 AND status = 'open' AND is_deleted = false
		FOR UPDATE`

	s, err := scanSession(tx.QueryRow(ctx, query, terminalID))
	if errors.Is(err, cashier.ErrNotFound) {
		return nil, cashier.ErrNoOpenSession
	}
	return s, err
}

// CreateMovementTx implementa cashier.Repository.CreateMovementTx
func (r *CashierRepository) CreateMovementTx(ctx context.Context, tx pgx.Tx, m *cashier.Movement) error {
	query := `
		INSERT INTO cash_movements (
			id, session_id, kind, amount, reason, authorizer_id, occurred_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := tx.Exec(ctx, query,
		m.ID, m.SessionID, string(m.Kind), m.Amount, m.Reason, m.AuthorizerID, m.OccurredAt, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir movimentação de caixa: %w", err)
	}
	return nil
}

// ListMovements implementa cashier.Repository.ListMovements
func (r *CashierRepository) ListMovements(ctx context.Context, sessionID string) ([]*cashier.Movement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, kind, amount, reason, authorizer_id, occurred_at, created_at, updated_at
		FROM cash_movements
		WHERE session_id = $1 AND is_deleted = false
		ORDER BY occurred_at
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar movimentações: %w", err)
	}
	defer rows.Close()

	var out []*cashier.Movement
	for rows.Next() {
		m := &cashier.Movement{}
		var kind string
		err := rows.Scan(&m.ID, &m.SessionID, &kind, &m.Amount, &m.Reason, &m.AuthorizerID,
			&m.OccurredAt, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler movimentação: %w", err)
		}
		m.Kind = cashier.MovementKind(kind)
		out = append(out, m)
	}
	return out, rows.Err()
}

// TotalsTx implementa cashier.Repository.TotalsTx. As vendas em dinheiro
// entram líquidas de troco; vendas canceladas e documentos fiscais emitidos a
// partir de pré-venda (pagamentos copiados) ficam de fora.
func (r *CashierRepository) TotalsTx(ctx context.Context, tx pgx.Tx, sessionID string) (cashier.Totals, error) {
	var totals cashier.Totals

	err := tx.QueryRow(ctx, `
		SELECT
			COALESCE((
				SELECT SUM(p.amount)
				FROM sale_payments p
				JOIN sales s ON s.id = p.sale_id
				WHERE s.session_id = $1
				  AND s.status = 'finalized'
				  AND s.origin_presale_id IS NULL
				  AND s.is_deleted = false
				  AND p.tender = 'cash'
			), 0) - COALESCE((
				SELECT SUM(s.change)
				FROM sales s
				WHERE s.session_id = $1
				  AND s.status = 'finalized'
				  AND s.origin_presale_id IS NULL
				  AND s.is_deleted = false
			), 0) AS cash_sales,
			COALESCE((
				SELECT SUM(amount) FROM cash_movements
				WHERE session_id = $1 AND kind = 'supply' AND is_deleted = false
			), 0) AS supplies,
			COALESCE((
				SELECT SUM(amount) FROM cash_movements
				WHERE session_id = $1 AND kind = 'withdrawal' AND is_deleted = false
			), 0) AS withdrawals
	`, sessionID).Scan(&totals.CashSales, &totals.Supplies, &totals.Withdrawals)
	if err != nil {
		return totals, fmt.Errorf("falha ao apurar totais da sessão: %w", err)
	}
	return totals, nil
}

// ListByPeriod implementa cashier.Repository.ListByPeriod
func (r *CashierRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]*cashier.Session, error) {
	query := "SELECT " + sessionColumns + ` FROM cash_sessions
		WHERE opened_at >= $1 AND opened_at < $2 AND is_deleted = false
		ORDER BY opened_at`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar sessões: %w", err)
	}
	defer rows.Close()

	var out []*cashier.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
