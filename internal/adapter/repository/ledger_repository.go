package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
)

// LedgerRepository implementa a interface ledger.Repository usando PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository cria uma nova instância de LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) ledger.Repository {
	return &LedgerRepository{db: db}
}

// CreateAccount implementa ledger.Repository.CreateAccount
func (r *LedgerRepository) CreateAccount(ctx context.Context, a *ledger.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO financial_accounts (
			id, organization_id, name, kind, opening_balance, running_balance,
			pdv_transfer_allowed, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`, a.ID, a.OrganizationID, a.Name, string(a.Kind), a.OpeningBalance, a.RunningBalance,
		a.PDVTransferAllowed, a.Active, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir conta: %w", err)
	}
	return nil
}

const accountColumns = `
	id, organization_id, name, kind, opening_balance, running_balance,
	pdv_transfer_allowed, active, created_at, updated_at
`

func scanAccount(row pgx.Row) (*ledger.Account, error) {
	a := &ledger.Account{}
	var kind string

	err := row.Scan(&a.ID, &a.OrganizationID, &a.Name, &kind, &a.OpeningBalance, &a.RunningBalance,
		&a.PDVTransferAllowed, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, fmt.Errorf("falha ao ler conta: %w", err)
	}
	a.Kind = ledger.AccountKind(kind)
	return a, nil
}

// FindAccountByID implementa ledger.Repository.FindAccountByID
func (r *LedgerRepository) FindAccountByID(ctx context.Context, id string) (*ledger.Account, error) {
	query := "SELECT " + accountColumns + " FROM financial_accounts WHERE id = $1 AND is_deleted = false"
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

// ListAccounts implementa ledger.Repository.ListAccounts
func (r *LedgerRepository) ListAccounts(ctx context.Context, organizationID string) ([]*ledger.Account, error) {
	query := "SELECT " + accountColumns + ` FROM financial_accounts
		WHERE organization_id = $1 AND is_deleted = false ORDER BY name`

	rows, err := r.db.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar contas: %w", err)
	}
	defer rows.Close()

	var out []*ledger.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// LockAccountTx implementa ledger.Repository.LockAccountTx
func (r *LedgerRepository) LockAccountTx(ctx context.Context, tx pgx.Tx, accountID string) (*ledger.Account, error) {
	query := "SELECT " + accountColumns + ` FROM financial_accounts
		WHERE id = $1 AND is_deleted = false
		FOR UPDATE`
	return scanAccount(tx.QueryRow(ctx, query, accountID))
}

// PostMovementTx implementa ledger.Repository.PostMovementTx: a inserção da
// movimentação e a atualização do saldo corrente acontecem na mesma transação.
func (r *LedgerRepository) PostMovementTx(ctx context.Context, tx pgx.Tx, m *ledger.Movement) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO account_movements (
			id, account_id, installment_id, session_id, sale_id, kind, amount,
			occurred_at, description, reconciled, reversal_of_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`, m.ID, m.AccountID, m.InstallmentID, m.SessionID, m.SaleID, string(m.Kind), m.Amount,
		m.OccurredAt, m.Description, m.Reconciled, m.ReversalOfID, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir movimentação: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE financial_accounts
		SET running_balance = running_balance + $2
		WHERE id = $1 AND is_deleted = false
	`, m.AccountID, m.SignedAmount())
	if err != nil {
		return fmt.Errorf("falha ao atualizar saldo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

const movementColumns = `
	id, account_id, installment_id, session_id, sale_id, kind, amount,
	occurred_at, description, reconciled, reversal_of_id, created_at, updated_at
`

func scanMovement(row pgx.Row) (*ledger.Movement, error) {
	m := &ledger.Movement{}
	var kind string

	err := row.Scan(&m.ID, &m.AccountID, &m.InstallmentID, &m.SessionID, &m.SaleID, &kind, &m.Amount,
		&m.OccurredAt, &m.Description, &m.Reconciled, &m.ReversalOfID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrMovementNotFound
		}
		return nil, fmt.Errorf("falha ao ler movimentação: %w", err)
	}
	m.Kind = ledger.MovementKind(kind)
	return m, nil
}

// FindMovementByID implementa ledger.Repository.FindMovementByID
func (r *LedgerRepository) FindMovementByID(ctx context.Context, id string) (*ledger.Movement, error) {
	query := "SELECT " + movementColumns + " FROM account_movements WHERE id = $1 AND is_deleted = false"
	return scanMovement(r.db.QueryRow(ctx, query, id))
}

// FindLastOpenMovementTx implementa ledger.Repository.FindLastOpenMovementTx:
// a última movimentação da parcela que não é estorno nem foi estornada.
func (r *LedgerRepository) FindLastOpenMovementTx(ctx context.Context, tx pgx.Tx, installmentID string) (*ledger.Movement, error) {
	query := "SELECT " + movementColumns + ` FROM account_movements m
		WHERE m.installment_id = $1
		  AND m.reversal_of_id IS NULL
		  AND m.is_deleted = false
		  AND NOT EXISTS (
			SELECT 1 FROM account_movements rev
			WHERE rev.reversal_of_id = m.id AND rev.is_deleted = false
		  )
		ORDER BY m.created_at DESC
		LIMIT 1`
	return scanMovement(tx.QueryRow(ctx, query, installmentID))
}

// ListMovementsBySaleTx implementa ledger.Repository.ListMovementsBySaleTx
func (r *LedgerRepository) ListMovementsBySaleTx(ctx context.Context, tx pgx.Tx, saleID string) ([]*ledger.Movement, error) {
	query := "SELECT " + movementColumns + ` FROM account_movements
		WHERE sale_id = $1 AND is_deleted = false ORDER BY created_at`

	rows, err := tx.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar movimentações da venda: %w", err)
	}
	defer rows.Close()

	var out []*ledger.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetReconciled implementa ledger.Repository.SetReconciled
func (r *LedgerRepository) SetReconciled(ctx context.Context, movementID string, flag bool) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE account_movements SET reconciled = $2 WHERE id = $1 AND is_deleted = false",
		movementID, flag)
	if err != nil {
		return fmt.Errorf("falha ao atualizar conferência: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrMovementNotFound
	}
	return nil
}

// CreateCategory implementa ledger.Repository.CreateCategory
func (r *LedgerRepository) CreateCategory(ctx context.Context, c *ledger.Category) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ledger_categories (id, organization_id, parent_id, name, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.OrganizationID, c.ParentID, c.Name, string(c.Kind), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir categoria: %w", err)
	}
	return nil
}

// FindCategoryByID implementa ledger.Repository.FindCategoryByID
func (r *LedgerRepository) FindCategoryByID(ctx context.Context, id string) (*ledger.Category, error) {
	c := &ledger.Category{}
	var kind string
	err := r.db.QueryRow(ctx, `
		SELECT id, organization_id, parent_id, name, kind, created_at, updated_at
		FROM ledger_categories WHERE id = $1 AND is_deleted = false
	`, id).Scan(&c.ID, &c.OrganizationID, &c.ParentID, &c.Name, &kind, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("falha ao ler categoria: %w", err)
	}
	c.Kind = ledger.CategoryKind(kind)
	return c, nil
}

// ListCategories implementa ledger.Repository.ListCategories
func (r *LedgerRepository) ListCategories(ctx context.Context, organizationID string) ([]*ledger.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, organization_id, parent_id, name, kind, created_at, updated_at
		FROM ledger_categories WHERE organization_id = $1 AND is_deleted = false ORDER BY name
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar categorias: %w", err)
	}
	defer rows.Close()

	var out []*ledger.Category
	for rows.Next() {
		c := &ledger.Category{}
		var kind string
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.ParentID, &c.Name, &kind, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("falha ao ler categoria: %w", err)
		}
		c.Kind = ledger.CategoryKind(kind)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCostCenter implementa ledger.Repository.CreateCostCenter
func (r *LedgerRepository) CreateCostCenter(ctx context.Context, c *ledger.CostCenter) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cost_centers (id, organization_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.OrganizationID, c.Name, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir centro de custo: %w", err)
	}
	return nil
}

// ListCostCenters implementa ledger.Repository.ListCostCenters
func (r *LedgerRepository) ListCostCenters(ctx context.Context, organizationID string) ([]*ledger.CostCenter, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, organization_id, name, created_at, updated_at
		FROM cost_centers WHERE organization_id = $1 AND is_deleted = false ORDER BY name
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar centros de custo: %w", err)
	}
	defer rows.Close()

	var out []*ledger.CostCenter
	for rows.Next() {
		c := &ledger.CostCenter{}
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("falha ao ler centro de custo: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateTitleTx implementa ledger.Repository.CreateTitleTx: título e parcelas
// entram na mesma transação.
func (r *LedgerRepository) CreateTitleTx(ctx context.Context, tx pgx.Tx, t *ledger.Title) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO titles (
			id, organization_id, direction, customer_id, supplier_id, category_id, cost_center_id,
			issue_date, competence_date, doc_number, description, total, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`, t.ID, t.OrganizationID, string(t.Direction), t.CustomerID, t.SupplierID, t.CategoryID, t.CostCenterID,
		t.IssueDate, t.CompetenceDate, t.DocNumber, t.Description, t.Total, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir título: %w", err)
	}

	for _, i := range t.Installments {
		if err := r.insertInstallmentTx(ctx, tx, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *LedgerRepository) insertInstallmentTx(ctx context.Context, tx pgx.Tx, i *ledger.Installment) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO installments (
			id, title_id, direction, category_id, cost_center_id, description,
			scheduled_amount, due_date, status, paid_date, paid_amount, interest, fine, discount,
			origin_sale_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`, i.ID, i.TitleID, string(i.Direction), i.CategoryID, i.CostCenterID, i.Description,
		i.ScheduledAmount, i.DueDate, string(i.Status), i.PaidDate, i.PaidAmount, i.Interest, i.Fine, i.Discount,
		i.OriginSaleID, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir parcela: %w", err)
	}
	return nil
}

// FindTitleByID implementa ledger.Repository.FindTitleByID
func (r *LedgerRepository) FindTitleByID(ctx context.Context, id string) (*ledger.Title, error) {
	t := &ledger.Title{}
	var direction string

	err := r.db.QueryRow(ctx, `
		SELECT id, organization_id, direction, customer_id, supplier_id, category_id, cost_center_id,
			issue_date, competence_date, doc_number, description, total, created_at, updated_at
		FROM titles WHERE id = $1 AND is_deleted = false
	`, id).Scan(
		&t.ID, &t.OrganizationID, &direction, &t.CustomerID, &t.SupplierID, &t.CategoryID, &t.CostCenterID,
		&t.IssueDate, &t.CompetenceDate, &t.DocNumber, &t.Description, &t.Total, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTitleNotFound
		}
		return nil, fmt.Errorf("falha ao ler título: %w", err)
	}
	t.Direction = ledger.Direction(direction)

	installments, err := r.ListInstallmentsByTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Installments = installments
	return t, nil
}

// UpdateTitleTotalTx implementa ledger.Repository.UpdateTitleTotalTx
func (r *LedgerRepository) UpdateTitleTotalTx(ctx context.Context, tx pgx.Tx, titleID string, delta float64) error {
	tag, err := tx.Exec(ctx,
		"UPDATE titles SET total = total + $2 WHERE id = $1 AND is_deleted = false",
		titleID, delta)
	if err != nil {
		return fmt.Errorf("falha ao atualizar total do título: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrTitleNotFound
	}
	return nil
}

const installmentColumns = `
	id, title_id, direction, category_id, cost_center_id, description,
	scheduled_amount, due_date, status, paid_date, paid_amount, interest, fine, discount,
	origin_sale_id, created_at, updated_at
`

func scanInstallment(row pgx.Row) (*ledger.Installment, error) {
	i := &ledger.Installment{}
	var direction, status string

	err := row.Scan(&i.ID, &i.TitleID, &direction, &i.CategoryID, &i.CostCenterID, &i.Description,
		&i.ScheduledAmount, &i.DueDate, &status, &i.PaidDate, &i.PaidAmount, &i.Interest, &i.Fine, &i.Discount,
		&i.OriginSaleID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrInstallmentNotFound
		}
		return nil, fmt.Errorf("falha ao ler parcela: %w", err)
	}
	i.Direction = ledger.Direction(direction)
	i.Status = ledger.InstallmentStatus(status)
	return i, nil
}

// FindInstallmentByID implementa ledger.Repository.FindInstallmentByID
func (r *LedgerRepository) FindInstallmentByID(ctx context.Context, id string) (*ledger.Installment, error) {
	query := "SELECT " + installmentColumns + " FROM installments WHERE id = $1 AND is_deleted = false"
	return scanInstallment(r.db.QueryRow(ctx, query, id))
}

// LockInstallmentTx implementa ledger.Repository.LockInstallmentTx
func (r *LedgerRepository) LockInstallmentTx(ctx context.Context, tx pgx.Tx, id string) (*ledger.Installment, error) {
	query := "SELECT " + installmentColumns + ` FROM installments
		WHERE id = $1 AND is_deleted = false
		FOR UPDATE`
	return scanInstallment(tx.QueryRow(ctx, query, id))
}

// UpdateInstallmentTx implementa ledger.Repository.UpdateInstallmentTx
func (r *LedgerRepository) UpdateInstallmentTx(ctx context.Context, tx pgx.Tx, i *ledger.Installment) error {
	tag, err := tx.Exec(ctx, `
		UPDATE installments
		SET scheduled_amount = $2, due_date = $3, status = $4, paid_date = $5,
			paid_amount = $6, interest = $7, fine = $8, discount = $9
		WHERE id = $1 AND is_deleted = false
	`, i.ID, i.ScheduledAmount, i.DueDate, string(i.Status), i.PaidDate,
		i.PaidAmount, i.Interest, i.Fine, i.Discount)
	if err != nil {
		return fmt.Errorf("falha ao atualizar parcela: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrInstallmentNotFound
	}
	return nil
}

// DeleteInstallmentTx implementa ledger.Repository.DeleteInstallmentTx
func (r *LedgerRepository) DeleteInstallmentTx(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx,
		"UPDATE installments SET is_deleted = true WHERE id = $1 AND is_deleted = false", id)
	if err != nil {
		return fmt.Errorf("falha ao excluir parcela: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrInstallmentNotFound
	}
	return nil
}

// ListInstallmentsByTitle implementa ledger.Repository.ListInstallmentsByTitle
func (r *LedgerRepository) ListInstallmentsByTitle(ctx context.Context, titleID string) ([]*ledger.Installment, error) {
	query := "SELECT " + installmentColumns + ` FROM installments
		WHERE title_id = $1 AND is_deleted = false ORDER BY due_date`

	rows, err := r.db.Query(ctx, query, titleID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar parcelas: %w", err)
	}
	defer rows.Close()

	var out []*ledger.Installment
	for rows.Next() {
		i, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// ListInstallmentsByDue implementa ledger.Repository.ListInstallmentsByDue
func (r *LedgerRepository) ListInstallmentsByDue(ctx context.Context, direction ledger.Direction, from, to time.Time) ([]*ledger.Installment, error) {
	query := "SELECT " + installmentColumns + ` FROM installments
		WHERE direction = $1 AND due_date >= $2 AND due_date <= $3 AND is_deleted = false
		ORDER BY due_date`

	rows, err := r.db.Query(ctx, query, string(direction), from, to)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar parcelas por vencimento: %w", err)
	}
	defer rows.Close()

	var out []*ledger.Installment
	for rows.Next() {
		i, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
