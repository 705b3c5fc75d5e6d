package report

import "time"

// DashboardKPIs resume os indicadores da tela inicial
type DashboardKPIs struct {
	TotalBalance        float64 `json:"total_balance"`
	OverduePayables     float64 `json:"overdue_payables"`
	PayablesDueToday    float64 `json:"payables_due_today"`
	MonthReceivables    float64 `json:"month_receivables"`
}

// CashFlowBucket agrega pendências por data de vencimento
type CashFlowBucket struct {
	DueDate     time.Time `json:"due_date"`
	Receivables float64   `json:"receivables"`
	Payables    float64   `json:"payables"`
}

// CategoryExpense é uma linha do ranking de despesas por categoria
type CategoryExpense struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
}

// StatementLine é uma linha do extrato de conta
type StatementLine struct {
	MovementID  string    `json:"movement_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Kind        string    `json:"kind"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Reconciled  bool      `json:"reconciled"`
}

// Statement é o extrato de uma conta em um período
type Statement struct {
	AccountID      string          `json:"account_id"`
	OpeningBalance float64         `json:"opening_balance"`
	TotalIn        float64         `json:"total_in"`
	TotalOut       float64         `json:"total_out"`
	ClosingBalance float64         `json:"closing_balance"`
	Lines          []StatementLine `json:"lines"`
}

// DRELine é uma linha do DRE por regime de caixa
type DRELine struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Kind         string  `json:"kind"`
	Total        float64 `json:"total"`
}

// DRE é o demonstrativo de resultado por regime de caixa
type DRE struct {
	Lines        []DRELine `json:"lines"`
	TotalRevenue float64   `json:"total_revenue"`
	TotalExpense float64   `json:"total_expense"`
	NetResult    float64   `json:"net_result"`
}

// SessionSummary resume uma sessão de caixa no período
type SessionSummary struct {
	SessionID    string     `json:"session_id"`
	TerminalID   string     `json:"terminal_id"`
	OperatorID   string     `json:"operator_id"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	OpeningFloat float64    `json:"opening_float"`
	TotalSales   float64    `json:"total_sales"`
	NetMovements float64    `json:"net_movements"`
	Delta        *float64   `json:"delta,omitempty"`
	Status       string     `json:"status"`
}

// ProductSaleLine é uma linha do relatório de vendas por produto
type ProductSaleLine struct {
	SaleID      string    `json:"sale_id"`
	SoldAt      time.Time `json:"sold_at"`
	TerminalID  string    `json:"terminal_id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Discount    float64   `json:"discount"`
	LineTotal   float64   `json:"line_total"`
}

// ProductSalesFilter filtra o relatório de vendas por produto
type ProductSalesFilter struct {
	OrganizationID string
	TerminalID     string
	CodePrefix     string
	From           time.Time
	To             time.Time
}

// PendingNonFiscalSale resume uma venda não fiscal ainda não consumida como
// pré-venda
type PendingNonFiscalSale struct {
	SaleID     string    `json:"sale_id"`
	SoldAt     time.Time `json:"sold_at"`
	TerminalID string    `json:"terminal_id"`
	OperatorID string    `json:"operator_id"`
	FinalTotal float64   `json:"final_total"`
}
