package report

import (
	"context"
	"time"
)

// Repository define a superfície de consulta somente leitura. Cada operação é
// uma única agregação SQL.
type Repository interface {
	DashboardKPIs(ctx context.Context, organizationID string, today time.Time) (*DashboardKPIs, error)
	CashFlow(ctx context.Context, organizationID string, from time.Time, days int) ([]CashFlowBucket, error)
	TopExpensesByCategory(ctx context.Context, organizationID string, month time.Time, limit int) ([]CategoryExpense, error)
	AccountStatement(ctx context.Context, accountID string, from, to time.Time) (*Statement, error)
	DRECashBasis(ctx context.Context, organizationID string, from, to time.Time) (*DRE, error)
	SalesBySession(ctx context.Context, from, to time.Time) ([]SessionSummary, error)
	SalesByProduct(ctx context.Context, filter ProductSalesFilter) ([]ProductSaleLine, error)
	PendingNonFiscalSales(ctx context.Context, from, to time.Time) ([]PendingNonFiscalSale, error)
}
