package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
	"github.com/hugohenrick/erp-pdv/internal/domain/sale"
)

var (
	ErrSaleDuplicateNumber = errors.New("numeração fiscal já utilizada neste terminal e série")
)

// SaleRepository implementa a interface sale.Repository usando PostgreSQL
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{db: db}
}

// CreateTx implementa sale.Repository.CreateTx
func (r *SaleRepository) CreateTx(ctx context.Context, tx pgx.Tx, s *sale.Sale) error {
	query := `
		INSERT INTO sales (
			id, session_id, operator_id, customer_id, organization_id, fiscal_place_id, terminal_id,
			series, document_number, sold_at, subtotal, item_discount_total, global_discount,
			final_total, tendered_total, change, status, document_kind, origin_presale_id,
			fiscalized, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	_, err := tx.Exec(ctx, query,
		s.ID, s.SessionID, s.OperatorID, s.CustomerID, s.OrganizationID, s.FiscalPlaceID, s.TerminalID,
		s.Series, s.DocumentNumber, s.SoldAt, s.Subtotal, s.ItemDiscountTotal, s.GlobalDiscount,
		s.FinalTotal, s.TenderedTotal, s.Change, string(s.Status), string(s.DocumentKind), s.OriginPresaleID,
		s.Fiscalized, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSaleDuplicateNumber
		}
		return fmt.Errorf("falha ao inserir venda: %w", err)
	}

	for _, item := range s.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO sale_items (
				id, sale_id, product_id, code, description, quantity, unit_price, discount, line_total
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			)
		`, item.ID, s.ID, item.ProductID, item.Code, item.Description,
			item.Quantity, item.UnitPrice, item.Discount, item.LineTotal)
		if err != nil {
			return fmt.Errorf("falha ao inserir item da venda: %w", err)
		}
	}

	for _, p := range s.Payments {
		_, err := tx.Exec(ctx, `
			INSERT INTO sale_payments (
				id, sale_id, tender, sub_kind, amount, installments, nsu, doc, deferred
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			)
		`, p.ID, s.ID, string(p.Tender), p.SubKind, p.Amount, p.Installments, p.NSU, p.Doc, p.Deferred)
		if err != nil {
			return fmt.Errorf("falha ao inserir pagamento da venda: %w", err)
		}
	}

	return nil
}

// CancelTx implementa sale.Repository.CancelTx
func (r *SaleRepository) CancelTx(ctx context.Context, tx pgx.Tx, saleID, reasonID string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE sales
		SET status = 'cancelled', cancellation_reason_id = $2
		WHERE id = $1 AND status = 'finalized' AND is_deleted = false
	`, saleID, reasonID)
	if err != nil {
		return fmt.Errorf("falha ao cancelar venda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sale.ErrAlreadyCancelled
	}
	return nil
}

// MarkFiscalizedTx implementa sale.Repository.MarkFiscalizedTx
func (r *SaleRepository) MarkFiscalizedTx(ctx context.Context, tx pgx.Tx, presaleID string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE sales
		SET fiscalized = true
		WHERE id = $1 AND fiscalized = false AND is_deleted = false
	`, presaleID)
	if err != nil {
		return fmt.Errorf("falha ao marcar pré-venda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sale.ErrPresaleAlreadyUsed
	}
	return nil
}

const saleColumns = `
	id, session_id, operator_id, customer_id, organization_id, fiscal_place_id, terminal_id,
	series, document_number, sold_at, subtotal, item_discount_total, global_discount,
	final_total, tendered_total, change, status, document_kind, cancellation_reason_id,
	origin_presale_id, fiscalized, created_at, updated_at
`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *SaleRepository) findSale(ctx context.Context, q rowQuerier, id string) (*sale.Sale, error) {
	query := "SELECT " + saleColumns + " FROM sales WHERE id = $1 AND is_deleted = false"

	s := &sale.Sale{}
	var status, kind string

	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.SessionID, &s.OperatorID, &s.CustomerID, &s.OrganizationID, &s.FiscalPlaceID, &s.TerminalID,
		&s.Series, &s.DocumentNumber, &s.SoldAt, &s.Subtotal, &s.ItemDiscountTotal, &s.GlobalDiscount,
		&s.FinalTotal, &s.TenderedTotal, &s.Change, &status, &kind, &s.CancellationReasonID,
		&s.OriginPresaleID, &s.Fiscalized, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sale.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao ler venda: %w", err)
	}
	s.Status = sale.Status(status)
	s.DocumentKind = sale.DocumentKind(kind)

	if err := r.loadItems(ctx, q, s); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, q, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepository) loadItems(ctx context.Context, q rowQuerier, s *sale.Sale) error {
	rows, err := q.Query(ctx, `
		SELECT id, sale_id, product_id, code, description, quantity, unit_price, discount, line_total
		FROM sale_items WHERE sale_id = $1 AND is_deleted = false ORDER BY created_at
	`, s.ID)
	if err != nil {
		return fmt.Errorf("falha ao listar itens da venda: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item sale.Item
		err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Code, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.Discount, &item.LineTotal)
		if err != nil {
			return fmt.Errorf("falha ao ler item da venda: %w", err)
		}
		s.Items = append(s.Items, item)
	}
	return rows.Err()
}

func (r *SaleRepository) loadPayments(ctx context.Context, q rowQuerier, s *sale.Sale) error {
	rows, err := q.Query(ctx, `
		SELECT id, sale_id, tender, sub_kind, amount, installments, nsu, doc, deferred
		FROM sale_payments WHERE sale_id = $1 AND is_deleted = false ORDER BY created_at
	`, s.ID)
	if err != nil {
		return fmt.Errorf("falha ao listar pagamentos da venda: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p sale.Payment
		var tender string
		err := rows.Scan(&p.ID, &p.SaleID, &tender, &p.SubKind, &p.Amount, &p.Installments,
			&p.NSU, &p.Doc, &p.Deferred)
		if err != nil {
			return fmt.Errorf("falha ao ler pagamento da venda: %w", err)
		}
		p.Tender = organization.Tender(tender)
		s.Payments = append(s.Payments, p)
	}
	return rows.Err()
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	return r.findSale(ctx, r.db, id)
}

// FindByIDTx implementa sale.Repository.FindByIDTx
func (r *SaleRepository) FindByIDTx(ctx context.Context, tx pgx.Tx, id string) (*sale.Sale, error) {
	return r.findSale(ctx, tx, id)
}

// ListBySession implementa sale.Repository.ListBySession
func (r *SaleRepository) ListBySession(ctx context.Context, sessionID string) ([]*sale.Sale, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id FROM sales WHERE session_id = $1 AND is_deleted = false ORDER BY sold_at", sessionID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar vendas da sessão: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*sale.Sale, 0, len(ids))
	for _, id := range ids {
		s, err := r.findSale(ctx, r.db, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ListPendingNonFiscal implementa sale.Repository.ListPendingNonFiscal
func (r *SaleRepository) ListPendingNonFiscal(ctx context.Context, from, to time.Time) ([]*sale.Sale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM sales
		WHERE document_kind = 'non_fiscal' AND status = 'finalized' AND fiscalized = false
		  AND sold_at >= $1 AND sold_at < $2 AND is_deleted = false
		ORDER BY sold_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar pré-vendas pendentes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*sale.Sale, 0, len(ids))
	for _, id := range ids {
		s, err := r.findSale(ctx, r.db, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// FindCancellationReason implementa sale.Repository.FindCancellationReason
func (r *SaleRepository) FindCancellationReason(ctx context.Context, id string) (*sale.CancellationReason, error) {
	reason := &sale.CancellationReason{}
	err := r.db.QueryRow(ctx, `
		SELECT id, code, description, active, created_at, updated_at
		FROM cancellation_reasons WHERE id = $1 AND is_deleted = false
	`, id).Scan(&reason.ID, &reason.Code, &reason.Description, &reason.Active, &reason.CreatedAt, &reason.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sale.ErrReasonNotFound
		}
		return nil, fmt.Errorf("falha ao ler motivo de cancelamento: %w", err)
	}
	return reason, nil
}

// CreateCancellationReason implementa sale.Repository.CreateCancellationReason
func (r *SaleRepository) CreateCancellationReason(ctx context.Context, reason *sale.CancellationReason) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cancellation_reasons (id, code, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, reason.ID, reason.Code, reason.Description, reason.Active, reason.CreatedAt, reason.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir motivo de cancelamento: %w", err)
	}
	return nil
}

// ListCancellationReasons implementa sale.Repository.ListCancellationReasons
func (r *SaleRepository) ListCancellationReasons(ctx context.Context) ([]*sale.CancellationReason, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, description, active, created_at, updated_at
		FROM cancellation_reasons WHERE is_deleted = false ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar motivos de cancelamento: %w", err)
	}
	defer rows.Close()

	var out []*sale.CancellationReason
	for rows.Next() {
		reason := &sale.CancellationReason{}
		err := rows.Scan(&reason.ID, &reason.Code, &reason.Description, &reason.Active,
			&reason.CreatedAt, &reason.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler motivo de cancelamento: %w", err)
		}
		out = append(out, reason)
	}
	return out, rows.Err()
}
