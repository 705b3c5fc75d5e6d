package cashier

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-pdv/pkg/money"
)

var (
	ErrNotFound             = errors.New("sessão de caixa não encontrada")
	ErrNoOpenSession        = errors.New("não há sessão de caixa aberta para este terminal")
	ErrAlreadyOpen          = errors.New("já existe uma sessão de caixa aberta para este terminal")
	ErrAlreadyClosed        = errors.New("sessão de caixa já está fechada")
	ErrInvalidAmount        = errors.New("valor da movimentação deve ser maior que zero")
	ErrCloseNeedsAuthorizer = errors.New("fechamento com divergência exige autorização")
	ErrCloseWrongOperator   = errors.New("sessão só pode ser fechada pelo operador que a abriu ou por um autorizador")
)

// Status representa o estado da sessão de caixa
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// MovementKind distingue suprimento (entrada) de sangria (saída)
type MovementKind string

const (
	MovementSupply     MovementKind = "supply"
	MovementWithdrawal MovementKind = "withdrawal"
)

// Session representa uma sessão de caixa em um terminal, delimitada pelo
// fundo de troco na abertura e pelo valor declarado no fechamento.
type Session struct {
	ID            string     `json:"id"`
	TerminalID    string     `json:"terminal_id"`
	OperatorID    string     `json:"operator_id"`
	OpenedAt      time.Time  `json:"opened_at"`
	OpeningFloat  float64    `json:"opening_float"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	DeclaredClose *float64   `json:"declared_close,omitempty"`
	ComputedClose *float64   `json:"computed_close,omitempty"`
	Delta         *float64   `json:"delta,omitempty"`
	AuthorizerID  *string    `json:"authorizer_id,omitempty"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewSession abre uma nova sessão de caixa
func NewSession(terminalID, operatorID string, openingFloat float64) (*Session, error) {
	if terminalID == "" {
		return nil, errors.New("ID do terminal não pode ser vazio")
	}
	if operatorID == "" {
		return nil, errors.New("ID do operador não pode ser vazio")
	}
	if openingFloat < 0 {
		return nil, errors.New("fundo de troco não pode ser negativo")
	}

	return &Session{
		ID:           uuid.New().String(),
		TerminalID:   terminalID,
		OperatorID:   operatorID,
		OpenedAt:     time.Now(),
		OpeningFloat: money.Round2(openingFloat),
		Status:       StatusOpen,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// IsOpen verifica se a sessão está aberta
func (s *Session) IsOpen() bool {
	return s.Status == StatusOpen
}

// Close fecha a sessão com o valor declarado e o esperado calculado.
// O delta é declarado menos esperado.
func (s *Session) Close(declared, expected float64, authorizerID *string) error {
	if !s.IsOpen() {
		return ErrAlreadyClosed
	}

	now := time.Now()
	declared = money.Round2(declared)
	expected = money.Round2(expected)
	delta := money.Round2(declared - expected)

	s.ClosedAt = &now
	s.DeclaredClose = &declared
	s.ComputedClose = &expected
	s.Delta = &delta
	s.AuthorizerID = authorizerID
	s.Status = StatusClosed
	s.UpdatedAt = now
	return nil
}

// Movement representa uma sangria ou suprimento dentro de uma sessão
type Movement struct {
	ID           string       `json:"id"`
	SessionID    string       `json:"session_id"`
	Kind         MovementKind `json:"kind"`
	Amount       float64      `json:"amount"`
	Reason       string       `json:"reason"`
	AuthorizerID *string      `json:"authorizer_id,omitempty"`
	OccurredAt   time.Time    `json:"occurred_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewMovement registra uma movimentação manual de caixa
func NewMovement(sessionID string, kind MovementKind, amount float64, reason string, authorizerID *string) (*Movement, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Movement{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Kind:         kind,
		Amount:       money.Round2(amount),
		Reason:       reason,
		AuthorizerID: authorizerID,
		OccurredAt:   time.Now(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// Totals acumula os componentes do fechamento de uma sessão
type Totals struct {
	CashSales   float64 `json:"cash_sales"`
	Supplies    float64 `json:"supplies"`
	Withdrawals float64 `json:"withdrawals"`
}

// Expected calcula o valor esperado em caixa no fechamento
func (t Totals) Expected(openingFloat float64) float64 {
	return money.Round2(openingFloat + t.CashSales + t.Supplies - t.Withdrawals)
}
