package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-pdv/pkg/money"
)

var (
	ErrAccountNotFound       = errors.New("conta financeira não encontrada")
	ErrTitleNotFound         = errors.New("título não encontrado")
	ErrInstallmentNotFound   = errors.New("parcela não encontrada")
	ErrMovementNotFound      = errors.New("movimentação não encontrada")
	ErrCategoryNotFound      = errors.New("categoria não encontrada")
	ErrCategoryKindMismatch  = errors.New("tipo da categoria incompatível com a direção do título")
	ErrCategoryRootKind      = errors.New("tipo da categoria deve ser igual ao da categoria raiz")
	ErrInstallmentSumMismatch = errors.New("soma das parcelas diverge do total do título")
	ErrAlreadyPaid           = errors.New("parcela já está quitada")
	ErrNothingToReverse      = errors.New("parcela não possui movimentação para estornar")
	ErrEditForbidden         = errors.New("parcela com pagamento não pode ser alterada")
	ErrDeleteForbidden       = errors.New("parcela com pagamento não pode ser excluída")
	ErrInvalidAmount         = errors.New("valor deve ser maior que zero")
	ErrPartialBelowRemainder = errors.New("valor menor que o saldo exige baixa parcial")
)

// AccountKind classifica as contas financeiras
type AccountKind string

const (
	AccountOperatorCash  AccountKind = "operator_cash"
	AccountSafe          AccountKind = "safe"
	AccountBank          AccountKind = "bank"
	AccountCardWallet    AccountKind = "card_wallet"
	AccountPixWallet     AccountKind = "pix_wallet"
	AccountDigitalWallet AccountKind = "digital_wallet"
	AccountAdvances      AccountKind = "advances"
	AccountDebtors       AccountKind = "debtors"
	AccountCreditors     AccountKind = "creditors"
)

// Account representa uma conta financeira com saldo corrente mantido junto às
// movimentações: saldo = abertura + Σ entradas − Σ saídas.
type Account struct {
	ID                 string      `json:"id"`
	OrganizationID     string      `json:"organization_id"`
	Name               string      `json:"name"`
	Kind               AccountKind `json:"kind"`
	OpeningBalance     float64     `json:"opening_balance"`
	RunningBalance     float64     `json:"running_balance"`
	PDVTransferAllowed bool        `json:"pdv_transfer_allowed"`
	Active             bool        `json:"active"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// NewAccount cria uma nova conta financeira
func NewAccount(organizationID, name string, kind AccountKind, openingBalance float64) (*Account, error) {
	if organizationID == "" {
		return nil, errors.New("ID da organização não pode ser vazio")
	}
	if name == "" {
		return nil, errors.New("nome não pode ser vazio")
	}

	return &Account{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           name,
		Kind:           kind,
		OpeningBalance: money.Round2(openingBalance),
		RunningBalance: money.Round2(openingBalance),
		Active:         true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}, nil
}

// CategoryKind classifica categorias como receita ou despesa
type CategoryKind string

const (
	KindRevenue CategoryKind = "revenue"
	KindExpense CategoryKind = "expense"
)

// Category é um nó da árvore de categorias do plano financeiro. O tipo de um
// nó é sempre igual ao tipo da sua raiz.
type Category struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organization_id"`
	ParentID       *string      `json:"parent_id,omitempty"`
	Name           string       `json:"name"`
	Kind           CategoryKind `json:"kind"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// CostCenter representa um centro de custo da organização
type CostCenter struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Direction distingue contas a pagar de contas a receber
type Direction string

const (
	DirectionPayable    Direction = "payable"
	DirectionReceivable Direction = "receivable"
)

// MatchesCategory verifica a compatibilidade direção × tipo de categoria
// (despesa ↔ a pagar, receita ↔ a receber)
func (d Direction) MatchesCategory(kind CategoryKind) bool {
	switch d {
	case DirectionPayable:
		return kind == KindExpense
	case DirectionReceivable:
		return kind == KindRevenue
	}
	return false
}

// Title representa o cabeçalho de uma obrigação financeira
type Title struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Direction      Direction `json:"direction"`
	CustomerID     *string   `json:"customer_id,omitempty"`
	SupplierID     *string   `json:"supplier_id,omitempty"`
	CategoryID     string    `json:"category_id"`
	CostCenterID   *string   `json:"cost_center_id,omitempty"`
	IssueDate      time.Time `json:"issue_date"`
	CompetenceDate time.Time `json:"competence_date"`
	DocNumber      string    `json:"doc_number"`
	Description    string    `json:"description"`
	Total          float64   `json:"total"`
	Installments   []*Installment `json:"installments,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InstallmentStatus representa o estado de uma parcela
type InstallmentStatus string

const (
	StatusPending InstallmentStatus = "pending"
	StatusPaid    InstallmentStatus = "paid"
	StatusOverdue InstallmentStatus = "overdue"
)

// Installment representa uma parcela de um título
type Installment struct {
	ID              string            `json:"id"`
	TitleID         string            `json:"title_id"`
	Direction       Direction         `json:"direction"`
	CategoryID      string            `json:"category_id"`
	CostCenterID    *string           `json:"cost_center_id,omitempty"`
	Description     string            `json:"description"`
	ScheduledAmount float64           `json:"scheduled_amount"`
	DueDate         time.Time         `json:"due_date"`
	Status          InstallmentStatus `json:"status"`
	PaidDate        *time.Time        `json:"paid_date,omitempty"`
	PaidAmount      float64           `json:"paid_amount"`
	Interest        float64           `json:"interest"`
	Fine            float64           `json:"fine"`
	Discount        float64           `json:"discount"`
	OriginSaleID    *string           `json:"origin_sale_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Remaining retorna o saldo em aberto da parcela. Juros e desconto afetam
// apenas o valor movimentado na conta, nunca o agendado.
func (i *Installment) Remaining() float64 {
	return money.Round2(i.ScheduledAmount - i.PaidAmount)
}

// IsSettled verifica a condição de quitação: pago >= agendado (com tolerância)
func (i *Installment) IsSettled() bool {
	return money.GreaterOrEqual(i.PaidAmount, i.ScheduledAmount)
}

// RecomputeStatus recalcula o estado da parcela a partir dos acumuladores e
// da data de vencimento.
func (i *Installment) RecomputeStatus(today time.Time) {
	switch {
	case i.IsSettled():
		i.Status = StatusPaid
	case i.DueDate.Before(truncateDay(today)):
		i.Status = StatusOverdue
	default:
		i.Status = StatusPending
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MovementKind distingue entradas de saídas
type MovementKind string

const (
	MovementIn  MovementKind = "in"
	MovementOut MovementKind = "out"
)

// Opposite retorna o tipo compensatório, usado no estorno
func (k MovementKind) Opposite() MovementKind {
	if k == MovementIn {
		return MovementOut
	}
	return MovementIn
}

// SignedAmount retorna o efeito da movimentação sobre o saldo da conta
func (m *Movement) SignedAmount() float64 {
	if m.Kind == MovementIn {
		return m.Amount
	}
	return -m.Amount
}

// Movement representa um evento monetário contra uma conta financeira
type Movement struct {
	ID            string       `json:"id"`
	AccountID     string       `json:"account_id"`
	InstallmentID *string      `json:"installment_id,omitempty"`
	SessionID     *string      `json:"session_id,omitempty"`
	SaleID        *string      `json:"sale_id,omitempty"`
	Kind          MovementKind `json:"kind"`
	Amount        float64      `json:"amount"`
	OccurredAt    time.Time    `json:"occurred_at"`
	Description   string       `json:"description"`
	Reconciled    bool         `json:"reconciled"`
	ReversalOfID  *string      `json:"reversal_of_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewMovement cria uma movimentação de conta
func NewMovement(accountID string, kind MovementKind, amount float64, description string) (*Movement, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Movement{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Kind:        kind,
		Amount:      money.Round2(amount),
		OccurredAt:  time.Now(),
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// PlanEntry é uma entrada do plano de parcelamento na criação de um título
type PlanEntry struct {
	Amount      float64   `json:"amount"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
}

// ValidatePlan verifica se a soma do plano fecha com o total do título
func ValidatePlan(total float64, plan []PlanEntry) error {
	if len(plan) == 0 {
		return ErrInstallmentSumMismatch
	}

	sum := 0.0
	for _, e := range plan {
		if e.Amount <= 0 {
			return ErrInvalidAmount
		}
		sum += e.Amount
	}

	if !money.Equal(sum, total) {
		return ErrInstallmentSumMismatch
	}
	return nil
}
