package dto

// CancelSaleRequest representa o cancelamento de uma venda finalizada
type CancelSaleRequest struct {
	ReasonID string `json:"reason_id" binding:"required"`
}

// CancellationReasonRequest representa o cadastro de um motivo de cancelamento
type CancellationReasonRequest struct {
	Code        string `json:"code" binding:"required"`
	Description string `json:"description" binding:"required"`
}
