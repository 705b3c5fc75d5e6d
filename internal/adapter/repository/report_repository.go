package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
	"github.com/hugohenrick/erp-pdv/internal/domain/report"
)

// ReportRepository implementa a interface report.Repository usando PostgreSQL.
// Todas as consultas são somente leitura e agregam direto no banco.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository cria uma nova instância de ReportRepository
func NewReportRepository(db *pgxpool.Pool) report.Repository {
	return &ReportRepository{db: db}
}

// saldo em aberto de uma parcela: o que falta para quitar o agendado.
// Juros e desconto afetam só a movimentação da conta, não o saldo.
const remainingExpr = "(i.scheduled_amount - i.paid_amount)"

// DashboardKPIs implementa report.Repository.DashboardKPIs
func (r *ReportRepository) DashboardKPIs(ctx context.Context, organizationID string, today time.Time) (*report.DashboardKPIs, error) {
	day := today.Truncate(24 * time.Hour)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	k := &report.DashboardKPIs{}
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE((
				SELECT SUM(running_balance) FROM financial_accounts
				WHERE organization_id = $1 AND active = true AND is_deleted = false
			), 0),
			COALESCE((
				SELECT SUM(`+remainingExpr+`)
				FROM installments i
				JOIN titles t ON t.id = i.title_id
				WHERE t.organization_id = $1
				  AND i.direction = 'payable' AND i.status <> 'paid'
				  AND i.due_date < $2
				  AND i.is_deleted = false AND t.is_deleted = false
			), 0),
			COALESCE((
				SELECT SUM(`+remainingExpr+`)
				FROM installments i
				JOIN titles t ON t.id = i.title_id
				WHERE t.organization_id = $1
				  AND i.direction = 'payable' AND i.status <> 'paid'
				  AND i.due_date = $2
				  AND i.is_deleted = false AND t.is_deleted = false
			), 0),
			COALESCE((
				SELECT SUM(`+remainingExpr+`)
				FROM installments i
				JOIN titles t ON t.id = i.title_id
				WHERE t.organization_id = $1
				  AND i.direction = 'receivable' AND i.status <> 'paid'
				  AND i.due_date >= $3 AND i.due_date < $4
				  AND i.is_deleted = false AND t.is_deleted = false
			), 0)
	`, organizationID, day, monthStart, monthEnd).Scan(
		&k.TotalBalance, &k.OverduePayables, &k.PayablesDueToday, &k.MonthReceivables)
	if err != nil {
		return nil, fmt.Errorf("falha ao apurar indicadores: %w", err)
	}
	return k, nil
}

// CashFlow implementa report.Repository.CashFlow: pendências agrupadas por
// data de vencimento na janela pedida.
func (r *ReportRepository) CashFlow(ctx context.Context, organizationID string, from time.Time, days int) ([]report.CashFlowBucket, error) {
	start := from.Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, days)

	rows, err := r.db.Query(ctx, `
		SELECT i.due_date,
			COALESCE(SUM(CASE WHEN i.direction = 'receivable' THEN `+remainingExpr+` ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN i.direction = 'payable' THEN `+remainingExpr+` ELSE 0 END), 0)
		FROM installments i
		JOIN titles t ON t.id = i.title_id
		WHERE t.organization_id = $1
		  AND i.status <> 'paid'
		  AND i.due_date >= $2 AND i.due_date < $3
		  AND i.is_deleted = false AND t.is_deleted = false
		GROUP BY i.due_date
		ORDER BY i.due_date
	`, organizationID, start, end)
	if err != nil {
		return nil, fmt.Errorf("falha ao apurar fluxo de caixa: %w", err)
	}
	defer rows.Close()

	var out []report.CashFlowBucket
	for rows.Next() {
		var b report.CashFlowBucket
		if err := rows.Scan(&b.DueDate, &b.Receivables, &b.Payables); err != nil {
			return nil, fmt.Errorf("falha ao ler fluxo de caixa: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// TopExpensesByCategory implementa report.Repository.TopExpensesByCategory:
// despesas pagas no mês, por regime de caixa.
func (r *ReportRepository) TopExpensesByCategory(ctx context.Context, organizationID string, month time.Time, limit int) ([]report.CategoryExpense, error) {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, COALESCE(SUM(i.paid_amount), 0) AS total
		FROM installments i
		JOIN titles t ON t.id = i.title_id
		JOIN ledger_categories c ON c.id = i.category_id
		WHERE t.organization_id = $1
		  AND i.direction = 'payable'
		  AND i.paid_date >= $2 AND i.paid_date < $3
		  AND i.is_deleted = false AND t.is_deleted = false
		GROUP BY c.id, c.name
		ORDER BY total DESC
		LIMIT $4
	`, organizationID, monthStart, monthEnd, limit)
	if err != nil {
		return nil, fmt.Errorf("falha ao apurar despesas por categoria: %w", err)
	}
	defer rows.Close()

	var out []report.CategoryExpense
	for rows.Next() {
		var e report.CategoryExpense
		if err := rows.Scan(&e.CategoryID, &e.CategoryName, &e.Total); err != nil {
			return nil, fmt.Errorf("falha ao ler despesa por categoria: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AccountStatement implementa report.Repository.AccountStatement. O saldo de
// abertura é reconstituído a partir do saldo inicial da conta mais todas as
// movimentações anteriores ao período.
func (r *ReportRepository) AccountStatement(ctx context.Context, accountID string, from, to time.Time) (*report.Statement, error) {
	st := &report.Statement{AccountID: accountID}

	err := r.db.QueryRow(ctx, `
		SELECT a.opening_balance + COALESCE((
			SELECT SUM(CASE WHEN m.kind = 'in' THEN m.amount ELSE -m.amount END)
			FROM account_movements m
			WHERE m.account_id = a.id AND m.occurred_at < $2 AND m.is_deleted = false
		), 0)
		FROM financial_accounts a
		WHERE a.id = $1 AND a.is_deleted = false
	`, accountID, from).Scan(&st.OpeningBalance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, fmt.Errorf("falha ao apurar saldo de abertura: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, occurred_at, kind, amount, description, reconciled
		FROM account_movements
		WHERE account_id = $1 AND occurred_at >= $2 AND occurred_at < $3 AND is_deleted = false
		ORDER BY occurred_at, created_at
	`, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar extrato: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l report.StatementLine
		if err := rows.Scan(&l.MovementID, &l.OccurredAt, &l.Kind, &l.Amount, &l.Description, &l.Reconciled); err != nil {
			return nil, fmt.Errorf("falha ao ler linha do extrato: %w", err)
		}
		if l.Kind == "in" {
			st.TotalIn += l.Amount
		} else {
			st.TotalOut += l.Amount
		}
		st.Lines = append(st.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	st.ClosingBalance = st.OpeningBalance + st.TotalIn - st.TotalOut
	return st, nil
}

// DRECashBasis implementa report.Repository.DRECashBasis: resultado do período
// por categoria, considerando apenas o que foi efetivamente pago ou recebido.
func (r *ReportRepository) DRECashBasis(ctx context.Context, organizationID string, from, to time.Time) (*report.DRE, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.kind,
			COALESCE(SUM(i.paid_amount + i.interest + i.fine - i.discount), 0) AS total
		FROM installments i
		JOIN titles t ON t.id = i.title_id
		JOIN ledger_categories c ON c.id = i.category_id
		WHERE t.organization_id = $1
		  AND i.paid_date >= $2 AND i.paid_date < $3
		  AND i.is_deleted = false AND t.is_deleted = false
		GROUP BY c.id, c.name, c.kind
		ORDER BY c.kind, total DESC
	`, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("falha ao apurar DRE: %w", err)
	}
	defer rows.Close()

	dre := &report.DRE{}
	for rows.Next() {
		var l report.DRELine
		if err := rows.Scan(&l.CategoryID, &l.CategoryName, &l.Kind, &l.Total); err != nil {
			return nil, fmt.Errorf("falha ao ler linha do DRE: %w", err)
		}
		if l.Kind == string(ledger.KindRevenue) {
			dre.TotalRevenue += l.Total
		} else {
			dre.TotalExpense += l.Total
		}
		dre.Lines = append(dre.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dre.NetResult = dre.TotalRevenue - dre.TotalExpense
	return dre, nil
}

// SalesBySession implementa report.Repository.SalesBySession
func (r *ReportRepository) SalesBySession(ctx context.Context, from, to time.Time) ([]report.SessionSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT cs.id, cs.terminal_id, cs.operator_id, cs.opened_at, cs.closed_at,
			cs.opening_float, cs.delta, cs.status,
			COALESCE((
				SELECT SUM(s.final_total) FROM sales s
				WHERE s.session_id = cs.id AND s.status = 'finalized'
				  AND s.origin_presale_id IS NULL AND s.is_deleted = false
			), 0),
			COALESCE((
				SELECT SUM(CASE WHEN m.kind = 'supply' THEN m.amount ELSE -m.amount END)
				FROM cash_movements m
				WHERE m.session_id = cs.id AND m.is_deleted = false
			), 0)
		FROM cash_sessions cs
		WHERE cs.opened_at >= $1 AND cs.opened_at < $2 AND cs.is_deleted = false
		ORDER BY cs.opened_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("falha ao apurar vendas por sessão: %w", err)
	}
	defer rows.Close()

	var out []report.SessionSummary
	for rows.Next() {
		var s report.SessionSummary
		err := rows.Scan(&s.SessionID, &s.TerminalID, &s.OperatorID, &s.OpenedAt, &s.ClosedAt,
			&s.OpeningFloat, &s.Delta, &s.Status, &s.TotalSales, &s.NetMovements)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler resumo de sessão: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SalesByProduct implementa report.Repository.SalesByProduct
func (r *ReportRepository) SalesByProduct(ctx context.Context, filter report.ProductSalesFilter) ([]report.ProductSaleLine, error) {
	query := `
		SELECT s.id, s.sold_at, s.terminal_id, it.code, it.description,
			it.quantity, it.unit_price, it.discount, it.line_total
		FROM sale_items it
		JOIN sales s ON s.id = it.sale_id
		WHERE s.organization_id = $1
		  AND s.status = 'finalized'
		  AND s.sold_at >= $2 AND s.sold_at < $3
		  AND s.is_deleted = false AND it.is_deleted = false
	`
	args := []any{filter.OrganizationID, filter.From, filter.To}

	if filter.TerminalID != "" {
		args = append(args, filter.TerminalID)
		query += fmt.Sprintf(" AND s.terminal_id = $%d", len(args))
	}
	if filter.CodePrefix != "" {
		args = append(args, filter.CodePrefix+"%")
		query += fmt.Sprintf(" AND it.code LIKE $%d", len(args))
	}
	query += " ORDER BY s.sold_at, it.code"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao apurar vendas por produto: %w", err)
	}
	defer rows.Close()

	var out []report.ProductSaleLine
	for rows.Next() {
		var l report.ProductSaleLine
		err := rows.Scan(&l.SaleID, &l.SoldAt, &l.TerminalID, &l.Code, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.Discount, &l.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler venda por produto: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// PendingNonFiscalSales implementa report.Repository.PendingNonFiscalSales:
// vendas não fiscais finalizadas que ainda não viraram documento fiscal.
func (r *ReportRepository) PendingNonFiscalSales(ctx context.Context, from, to time.Time) ([]report.PendingNonFiscalSale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sold_at, terminal_id, operator_id, final_total
		FROM sales
		WHERE document_kind = 'non_fiscal'
		  AND status = 'finalized'
		  AND fiscalized = false
		  AND sold_at >= $1 AND sold_at < $2
		  AND is_deleted = false
		ORDER BY sold_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar pré-vendas pendentes: %w", err)
	}
	defer rows.Close()

	var out []report.PendingNonFiscalSale
	for rows.Next() {
		var p report.PendingNonFiscalSale
		if err := rows.Scan(&p.SaleID, &p.SoldAt, &p.TerminalID, &p.OperatorID, &p.FinalTotal); err != nil {
			return nil, fmt.Errorf("falha ao ler pré-venda pendente: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
