package organization

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTerminalNotFound   = errors.New("terminal não encontrado")
	ErrEmptyHostname      = errors.New("hostname não pode ser vazio")
	ErrMissingRouteConfig = errors.New("terminal sem conta de destino configurada")
)

// Tender representa uma forma de pagamento
type Tender string

const (
	TenderCash  Tender = "cash"
	TenderCard  Tender = "card"
	TenderPix   Tender = "pix"
	TenderOther Tender = "other"
)

// Terminal representa uma estação de venda vinculada a um host. Cada forma de
// pagamento é roteada para uma conta financeira própria.
type Terminal struct {
	ID                 string    `json:"id"`
	FiscalPlaceID      string    `json:"fiscal_place_id"`
	Hostname           string    `json:"hostname"`
	Name               string    `json:"name"`
	DefaultWarehouseID string    `json:"default_warehouse_id"`
	OperatorAccountID  string    `json:"operator_account_id"`
	CashAccountID      string    `json:"cash_account_id"`
	CardAccountID      string    `json:"card_account_id"`
	PixAccountID       string    `json:"pix_account_id"`
	OtherAccountID     string    `json:"other_account_id"`
	Series             string    `json:"series"`
	NextDocumentNumber int64     `json:"next_document_number"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewTerminal cria um novo terminal
func NewTerminal(fiscalPlaceID, hostname, name, warehouseID string) (*Terminal, error) {
	if fiscalPlaceID == "" {
		return nil, errors.New("ID do estabelecimento não pode ser vazio")
	}
	if hostname == "" {
		return nil, ErrEmptyHostname
	}

	return &Terminal{
		ID:                 uuid.New().String(),
		FiscalPlaceID:      fiscalPlaceID,
		Hostname:           hostname,
		Name:               name,
		DefaultWarehouseID: warehouseID,
		Series:             "1",
		NextDocumentNumber: 1,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}, nil
}

// RouteAccount retorna a conta de destino para a forma de pagamento
func (t *Terminal) RouteAccount(tender Tender) (string, error) {
	var id string
	switch tender {
	case TenderCash:
		id = t.CashAccountID
	case TenderCard:
		id = t.CardAccountID
	case TenderPix:
		id = t.PixAccountID
	case TenderOther:
		id = t.OtherAccountID
	}

	if id == "" {
		return "", ErrMissingRouteConfig
	}
	return id, nil
}
