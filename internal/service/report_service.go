package service

import (
	"context"
	"time"

	"github.com/hugohenrick/erp-pdv/internal/domain/report"
)

// ReportService expõe a superfície de consulta somente leitura. Os números
// saem das agregações SQL do repositório; aqui só entram os padrões de
// período e limite.
type ReportService struct {
	reports report.Repository
}

// NewReportService cria uma nova instância de ReportService
func NewReportService(reports report.Repository) *ReportService {
	return &ReportService{reports: reports}
}

// DashboardKPIs retorna os indicadores do dia e os saldos correntes
func (s *ReportService) DashboardKPIs(ctx context.Context, organizationID string) (*report.DashboardKPIs, error) {
	return s.reports.DashboardKPIs(ctx, organizationID, time.Now())
}

// CashFlow retorna o fluxo de caixa diário projetado a partir de hoje
func (s *ReportService) CashFlow(ctx context.Context, organizationID string, days int) ([]report.CashFlowBucket, error) {
	if days <= 0 || days > 90 {
		days = 30
	}
	return s.reports.CashFlow(ctx, organizationID, startOfDay(time.Now()), days)
}

// TopExpensesByCategory retorna as maiores despesas do mês por categoria
func (s *ReportService) TopExpensesByCategory(ctx context.Context, organizationID string, month time.Time, limit int) ([]report.CategoryExpense, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.reports.TopExpensesByCategory(ctx, organizationID, month, limit)
}

// AccountStatement retorna o extrato da conta no período, com saldo inicial,
// movimentações e saldo final.
func (s *ReportService) AccountStatement(ctx context.Context, accountID string, from, to time.Time) (*report.Statement, error) {
	from, to = normalizeRange(from, to)
	return s.reports.AccountStatement(ctx, accountID, from, to)
}

// DRECashBasis retorna o demonstrativo de resultado em regime de caixa
func (s *ReportService) DRECashBasis(ctx context.Context, organizationID string, from, to time.Time) (*report.DRE, error) {
	from, to = normalizeRange(from, to)
	return s.reports.DRECashBasis(ctx, organizationID, from, to)
}

// SalesBySession retorna o resumo de vendas por sessão de caixa no período
func (s *ReportService) SalesBySession(ctx context.Context, from, to time.Time) ([]report.SessionSummary, error) {
	from, to = normalizeRange(from, to)
	return s.reports.SalesBySession(ctx, from, to)
}

// SalesByProduct retorna as vendas por produto conforme o filtro
func (s *ReportService) SalesByProduct(ctx context.Context, filter report.ProductSalesFilter) ([]report.ProductSaleLine, error) {
	filter.From, filter.To = normalizeRange(filter.From, filter.To)
	return s.reports.SalesByProduct(ctx, filter)
}

// PendingNonFiscalSales lista as vendas não fiscais ainda não convertidas em
// documento fiscal
func (s *ReportService) PendingNonFiscalSales(ctx context.Context, from, to time.Time) ([]report.PendingNonFiscalSale, error) {
	from, to = normalizeRange(from, to)
	return s.reports.PendingNonFiscalSales(ctx, from, to)
}

// normalizeRange preenche o período padrão (últimos 30 dias) e corrige
// extremos invertidos
func normalizeRange(from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		from, to = to, from
	}
	return from, to
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
