package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
)

var (
	ErrTerminalDuplicateHostname = errors.New("já existe um terminal com este hostname")
)

// TerminalRepository implementa a interface organization.TerminalRepository usando PostgreSQL
type TerminalRepository struct {
	db *pgxpool.Pool
}

// NewTerminalRepository cria uma nova instância de TerminalRepository
func NewTerminalRepository(db *pgxpool.Pool) organization.TerminalRepository {
	return &TerminalRepository{db: db}
}

// Create implementa organization.TerminalRepository.Create
func (r *TerminalRepository) Create(ctx context.Context, t *organization.Terminal) error {
	query := `
		INSERT INTO terminals (
			id, fiscal_place_id, hostname, name, default_warehouse_id,
			operator_account_id, cash_account_id, card_account_id, pix_account_id, other_account_id,
			series, next_document_number, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err := r.db.Exec(ctx, query,
		t.ID, t.FiscalPlaceID, t.Hostname, t.Name, t.DefaultWarehouseID,
		t.OperatorAccountID, t.CashAccountID, t.CardAccountID, t.PixAccountID, t.OtherAccountID,
		t.Series, t.NextDocumentNumber, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrTerminalDuplicateHostname
		}
		return fmt.Errorf("falha ao inserir terminal: %w", err)
	}
	return nil
}

// Update implementa organization.TerminalRepository.Update
func (r *TerminalRepository) Update(ctx context.Context, t *organization.Terminal) error {
	query := `
		UPDATE terminals
		SET hostname = $2, name = $3, default_warehouse_id = $4,
			operator_account_id = $5, cash_account_id = $6, card_account_id = $7,
			pix_account_id = $8, other_account_id = $9, series = $10
		WHERE id = $1 AND is_deleted = false
	`

	tag, err := r.db.Exec(ctx, query,
		t.ID, t.Hostname, t.Name, t.DefaultWarehouseID,
		t.OperatorAccountID, t.CashAccountID, t.CardAccountID, t.PixAccountID, t.OtherAccountID,
		t.Series,
	)
	if err != nil {
		return fmt.Errorf("falha ao atualizar terminal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return organization.ErrTerminalNotFound
	}
	return nil
}

const terminalColumns = `
	id, fiscal_place_id, hostname, name, default_warehouse_id,
	operator_account_id, cash_account_id, card_account_id, pix_account_id, other_account_id,
	series, next_document_number, created_at, updated_at
`

func scanTerminal(row pgx.Row) (*organization.Terminal, error) {
	t := &organization.Terminal{}
	err := row.Scan(
		&t.ID, &t.FiscalPlaceID, &t.Hostname, &t.Name, &t.DefaultWarehouseID,
		&t.OperatorAccountID, &t.CashAccountID, &t.CardAccountID, &t.PixAccountID, &t.OtherAccountID,
		&t.Series, &t.NextDocumentNumber, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organization.ErrTerminalNotFound
		}
		return nil, fmt.Errorf("falha ao ler terminal: %w", err)
	}
	return t, nil
}

// FindByID implementa organization.TerminalRepository.FindByID
func (r *TerminalRepository) FindByID(ctx context.Context, id string) (*organization.Terminal, error) {
	query := "SELECT " + terminalColumns + " FROM terminals WHERE id = $1 AND is_deleted = false"
	return scanTerminal(r.db.QueryRow(ctx, query, id))
}

// FindByHostname implementa organization.TerminalRepository.FindByHostname
func (r *TerminalRepository) FindByHostname(ctx context.Context, hostname string) (*organization.Terminal, error) {
	query := "SELECT " + terminalColumns + " FROM terminals WHERE hostname = $1 AND is_deleted = false"
	return scanTerminal(r.db.QueryRow(ctx, query, hostname))
}

// List implementa organization.TerminalRepository.List
func (r *TerminalRepository) List(ctx context.Context, fiscalPlaceID string) ([]*organization.Terminal, error) {
	query := "SELECT " + terminalColumns + ` FROM terminals
		WHERE fiscal_place_id = $1 AND is_deleted = false ORDER BY name`

	rows, err := r.db.Query(ctx, query, fiscalPlaceID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar terminais: %w", err)
	}
	defer rows.Close()

	var out []*organization.Terminal
	for rows.Next() {
		t, err := scanTerminal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// NextDocumentNumberTx implementa organization.TerminalRepository.NextDocumentNumberTx.
// O UPDATE bloqueia a linha do terminal; o número reservado só é visível fora
// da transação depois do commit.
func (r *TerminalRepository) NextDocumentNumberTx(ctx context.Context, tx pgx.Tx, terminalID string) (int64, error) {
	var number int64
	err := tx.QueryRow(ctx, `
		UPDATE terminals
		SET next_document_number = next_document_number + 1
		WHERE id = $1 AND is_deleted = false
		RETURNING next_document_number - 1
	`, terminalID).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, organization.ErrTerminalNotFound
		}
		return 0, fmt.Errorf("falha ao reservar numeração: %w", err)
	}
	return number, nil
}
