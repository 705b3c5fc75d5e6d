package organization

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("organização não encontrada")
	ErrEmptyDocument  = errors.New("CNPJ não pode ser vazio")
	ErrEmptyLegalName = errors.New("razão social não pode ser vazia")
	ErrNotActive      = errors.New("organização não está ativa")
	ErrPlaceNotFound  = errors.New("estabelecimento não encontrado")
)

// Environment define o ambiente fiscal
type Environment string

const (
	Production   Environment = "production"
	Homologation Environment = "homologation"
)

// Address representa o endereço da organização
type Address struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

// Organization representa uma empresa no sistema
type Organization struct {
	ID                  string      `json:"id"`
	Document            string      `json:"document"` // CNPJ
	LegalName           string      `json:"legal_name"`
	TradeName           string      `json:"trade_name"`
	Address             Address     `json:"address"`
	FiscalRegime        string      `json:"fiscal_regime"`
	Environment         Environment `json:"environment"`
	Certificate         []byte      `json:"-"` // certificado A1, blob opaco
	CertificatePassword string      `json:"-"`
	CSCID               string      `json:"csc_id"`
	CSCToken            string      `json:"-"`
	Active              bool        `json:"active"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// NewOrganization cria uma nova organização
func NewOrganization(document, legalName, tradeName string, address Address, fiscalRegime string, environment Environment) (*Organization, error) {
	if document == "" {
		return nil, ErrEmptyDocument
	}
	if legalName == "" {
		return nil, ErrEmptyLegalName
	}

	if environment == "" {
		environment = Homologation
	}

	return &Organization{
		ID:           uuid.New().String(),
		Document:     document,
		LegalName:    legalName,
		TradeName:    tradeName,
		Address:      address,
		FiscalRegime: fiscalRegime,
		Environment:  environment,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// IsActive verifica se a organização está ativa
func (o *Organization) IsActive() bool {
	return o.Active
}

// FiscalPlace representa um estabelecimento subordinado a uma organização.
// Credenciais fiscais próprias são opcionais; quando ausentes, herda as da
// organização.
type FiscalPlace struct {
	ID                  string    `json:"id"`
	OrganizationID      string    `json:"organization_id"`
	Name                string    `json:"name"`
	Document            *string   `json:"document,omitempty"`
	Certificate         []byte    `json:"-"`
	CertificatePassword *string   `json:"-"`
	CSCID               *string   `json:"csc_id,omitempty"`
	CSCToken            *string   `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewFiscalPlace cria um novo estabelecimento
func NewFiscalPlace(organizationID, name string) (*FiscalPlace, error) {
	if organizationID == "" {
		return nil, errors.New("ID da organização não pode ser vazio")
	}
	if name == "" {
		return nil, errors.New("nome não pode ser vazio")
	}

	return &FiscalPlace{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           name,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}, nil
}

// EffectiveDocument retorna o CNPJ do estabelecimento, herdando da organização
// quando não configurado
func (p *FiscalPlace) EffectiveDocument(org *Organization) string {
	if p.Document != nil && *p.Document != "" {
		return *p.Document
	}
	return org.Document
}
