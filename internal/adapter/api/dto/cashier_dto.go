package dto

// OpenSessionRequest representa a abertura de uma sessão de caixa
type OpenSessionRequest struct {
	TerminalID   string  `json:"terminal_id" binding:"required"`
	OpeningFloat float64 `json:"opening_float"`
}

// CashMovementRequest representa uma sangria ou suprimento
type CashMovementRequest struct {
	TerminalID   string  `json:"terminal_id" binding:"required"`
	Kind         string  `json:"kind" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	Reason       string  `json:"reason"`
	AuthorizerID *string `json:"authorizer_id,omitempty"`
}

// CloseSessionRequest representa o fechamento com o valor declarado na gaveta
type CloseSessionRequest struct {
	TerminalID   string  `json:"terminal_id" binding:"required"`
	Declared     float64 `json:"declared"`
	AuthorizerID *string `json:"authorizer_id,omitempty"`
}
