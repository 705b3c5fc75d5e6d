package dto

// AccountRequest representa os dados de uma conta financeira
type AccountRequest struct {
	OrganizationID string  `json:"organization_id" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Kind           string  `json:"kind" binding:"required"`
	OpeningBalance float64 `json:"opening_balance"`
}

// CategoryRequest representa os dados de uma categoria do plano financeiro
type CategoryRequest struct {
	OrganizationID string  `json:"organization_id" binding:"required"`
	ParentID       *string `json:"parent_id,omitempty"`
	Name           string  `json:"name" binding:"required"`
	Kind           string  `json:"kind" binding:"required"`
}

// CostCenterRequest representa os dados de um centro de custo
type CostCenterRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
}

// AccountMovementRequest representa uma movimentação avulsa de conta
type AccountMovementRequest struct {
	AccountID   string  `json:"account_id" binding:"required"`
	Kind        string  `json:"kind" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// TransferRequest representa uma transferência entre contas
type TransferRequest struct {
	FromAccountID string  `json:"from_account_id" binding:"required"`
	ToAccountID   string  `json:"to_account_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Description   string  `json:"description"`
}

// ReconcileRequest marca ou desmarca a conferência de uma movimentação
type ReconcileRequest struct {
	Reconciled bool `json:"reconciled"`
}

// UpdateInstallmentRequest altera valor e vencimento de uma parcela
type UpdateInstallmentRequest struct {
	Amount  float64 `json:"amount" binding:"required"`
	DueDate string  `json:"due_date" binding:"required"`
}
