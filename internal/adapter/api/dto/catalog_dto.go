package dto

import "time"

// ProductRequest representa os dados de um produto. O SKU não é aceito na
// criação: ele é emitido pela sequência interna.
type ProductRequest struct {
	EAN            string     `json:"ean"`
	Name           string     `json:"name" binding:"required"`
	Unit           string     `json:"unit"`
	Class          string     `json:"class"`
	Supplier       string     `json:"supplier"`
	Weight         float64    `json:"weight"`
	ValidityDate   *time.Time `json:"validity_date,omitempty"`
	ImagePath      string     `json:"image_path"`
	AlternateCodes []string   `json:"alternate_codes"`
}

// PriceTableRequest representa uma tabela de preços vinculada a um CNPJ
type PriceTableRequest struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document" binding:"required"`
}

// ProductPriceRequest representa o preço de um produto em uma tabela
type ProductPriceRequest struct {
	PriceTableID string  `json:"price_table_id" binding:"required"`
	SalePrice    float64 `json:"sale_price" binding:"required"`
	CostPrice    float64 `json:"cost_price"`
}

// WarehouseRequest representa um depósito de estoque
type WarehouseRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	Code           string `json:"code" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Address        string `json:"address"`
}
