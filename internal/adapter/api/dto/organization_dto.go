package dto

import "github.com/hugohenrick/erp-pdv/internal/domain/organization"

// OrganizationRequest representa os dados cadastrais de uma organização
type OrganizationRequest struct {
	Document     string               `json:"document" binding:"required"`
	LegalName    string               `json:"legal_name" binding:"required"`
	TradeName    string               `json:"trade_name"`
	Address      organization.Address `json:"address"`
	FiscalRegime string               `json:"fiscal_regime"`
	Environment  string               `json:"environment"`
	CSCID        string               `json:"csc_id"`
	CSCToken     string               `json:"csc_token"`
}

// CertificateRequest carrega o certificado A1 em base64 e sua senha
type CertificateRequest struct {
	PfxBase64 string `json:"pfx_base64" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// FiscalPlaceRequest representa os dados de um estabelecimento
type FiscalPlaceRequest struct {
	OrganizationID string  `json:"organization_id" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Document       *string `json:"document,omitempty"`
	CSCID          *string `json:"csc_id,omitempty"`
	CSCToken       *string `json:"csc_token,omitempty"`
}

// TerminalRequest representa a configuração de um terminal de venda
type TerminalRequest struct {
	FiscalPlaceID      string `json:"fiscal_place_id" binding:"required"`
	Hostname           string `json:"hostname" binding:"required"`
	Name               string `json:"name"`
	DefaultWarehouseID string `json:"default_warehouse_id" binding:"required"`
	OperatorAccountID  string `json:"operator_account_id"`
	CashAccountID      string `json:"cash_account_id"`
	CardAccountID      string `json:"card_account_id"`
	PixAccountID       string `json:"pix_account_id"`
	OtherAccountID     string `json:"other_account_id"`
	Series             string `json:"series"`
}
