package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
	"github.com/hugohenrick/erp-pdv/pkg/money"
)

var (
	ErrNotFound            = errors.New("venda não encontrada")
	ErrNoItems             = errors.New("venda deve ter ao menos um item")
	ErrNegativeLine        = errors.New("item com total negativo")
	ErrInsufficientTender  = errors.New("pagamento insuficiente para o total da venda")
	ErrChangeWithoutCash   = errors.New("troco só é permitido quando o excedente é pago em dinheiro")
	ErrDiscountOverLimit   = errors.New("desconto global acima do limite do operador")
	ErrAlreadyCancelled    = errors.New("venda já está cancelada")
	ErrReasonRequired      = errors.New("motivo de cancelamento é obrigatório")
	ErrReasonNotFound      = errors.New("motivo de cancelamento não encontrado")
	ErrPresaleNotFound     = errors.New("pré-venda não encontrada")
	ErrPresaleAlreadyUsed  = errors.New("pré-venda já foi consumida por um documento fiscal")
	ErrPresaleFiscalized   = errors.New("pré-venda consumida só pode ser cancelada pelo documento fiscal")
	ErrPresaleMustBeNonFiscal = errors.New("somente venda não fiscal finalizada pode ser usada como pré-venda")
)

// Status representa o estado da venda
type Status string

const (
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
)

// DocumentKind distingue documentos fiscais de não fiscais
type DocumentKind string

const (
	DocumentFiscal    DocumentKind = "fiscal"
	DocumentNonFiscal DocumentKind = "non_fiscal"
)

// Sale representa uma venda finalizada ou cancelada
type Sale struct {
	ID                   string       `json:"id"`
	SessionID            string       `json:"session_id"`
	OperatorID           string       `json:"operator_id"`
	CustomerID           *string      `json:"customer_id,omitempty"` // nulo = consumidor final
	OrganizationID       string       `json:"organization_id"`
	FiscalPlaceID        string       `json:"fiscal_place_id"`
	TerminalID           string       `json:"terminal_id"`
	Series               string       `json:"series"`
	DocumentNumber       *int64       `json:"document_number,omitempty"`
	SoldAt               time.Time    `json:"sold_at"`
	Subtotal             float64      `json:"subtotal"`
	ItemDiscountTotal    float64      `json:"item_discount_total"`
	GlobalDiscount       float64      `json:"global_discount"`
	FinalTotal           float64      `json:"final_total"`
	TenderedTotal        float64      `json:"tendered_total"`
	Change               float64      `json:"change"`
	Status               Status       `json:"status"`
	DocumentKind         DocumentKind `json:"document_kind"`
	CancellationReasonID *string      `json:"cancellation_reason_id,omitempty"`
	OriginPresaleID      *string      `json:"origin_presale_id,omitempty"`
	Fiscalized           bool         `json:"fiscalized"`
	Items                []Item       `json:"items"`
	Payments             []Payment    `json:"payments"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// Item representa um item de venda com os dados congelados no momento da venda
type Item struct {
	ID          string  `json:"id"`
	SaleID      string  `json:"sale_id"`
	ProductID   *string `json:"product_id,omitempty"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	LineTotal   float64 `json:"line_total"`
}

// Payment representa um pagamento da venda
type Payment struct {
	ID           string              `json:"id"`
	SaleID       string              `json:"sale_id"`
	Tender       organization.Tender `json:"tender"`
	SubKind      string              `json:"sub_kind"`
	Amount       float64             `json:"amount"`
	Installments int                 `json:"installments"`
	NSU          string              `json:"nsu"`
	Doc          string              `json:"doc"`
	Deferred     bool                `json:"deferred"`
}

// CancellationReason representa um motivo de cancelamento cadastrado
type CancellationReason struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCancellationReason cria um novo motivo de cancelamento
func NewCancellationReason(code, description string) (*CancellationReason, error) {
	if code == "" || description == "" {
		return nil, errors.New("código e descrição são obrigatórios")
	}

	return &CancellationReason{
		ID:          uuid.New().String(),
		Code:        code,
		Description: description,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// ComputeTotals calcula e valida os totais da venda a partir dos itens.
// O resíduo de arredondamento de até 1 centavo é absorvido pelo primeiro item.
func ComputeTotals(items []Item, globalDiscount float64) (subtotal, itemDiscountTotal, finalTotal float64, err error) {
	if len(items) == 0 {
		return 0, 0, 0, ErrNoItems
	}

	lineTotals := make([]float64, len(items))
	for i := range items {
		items[i].LineTotal = money.Round2(items[i].Quantity*items[i].UnitPrice - items[i].Discount)
		if items[i].LineTotal < 0 {
			return 0, 0, 0, ErrNegativeLine
		}
		lineTotals[i] = items[i].LineTotal
		subtotal += items[i].Quantity * items[i].UnitPrice
		itemDiscountTotal += items[i].Discount
	}

	subtotal = money.Round2(subtotal)
	itemDiscountTotal = money.Round2(itemDiscountTotal)
	finalTotal = money.Round2(subtotal - itemDiscountTotal - globalDiscount)

	// Distribuir o resíduo de arredondamento no primeiro item
	expectedLines := money.Round2(subtotal - itemDiscountTotal)
	lineTotals, _ = money.SpreadResidue(lineTotals, expectedLines)
	for i := range items {
		items[i].LineTotal = lineTotals[i]
	}

	return subtotal, itemDiscountTotal, finalTotal, nil
}

// ValidateTenders verifica a cobertura do total pelos pagamentos e calcula o
// troco. Excedente só é admitido quando coberto integralmente por dinheiro.
func ValidateTenders(payments []Payment, finalTotal float64) (tendered, change float64, err error) {
	cash := 0.0
	for _, p := range payments {
		tendered += p.Amount
		if p.Tender == organization.TenderCash {
			cash += p.Amount
		}
	}
	tendered = money.Round2(tendered)

	if !money.GreaterOrEqual(tendered, finalTotal) {
		return 0, 0, ErrInsufficientTender
	}

	change = money.Round2(tendered - finalTotal)
	if change > money.Tolerance && !money.GreaterOrEqual(cash, change) {
		return 0, 0, ErrChangeWithoutCash
	}
	if change <= money.Tolerance && change < 0 {
		change = 0
	}

	return tendered, change, nil
}
