package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-pdv/pkg/money"
)

var (
	ErrNotFound       = errors.New("produto não encontrado")
	ErrDuplicateCode  = errors.New("código já cadastrado para outro produto")
	ErrNoPrice        = errors.New("produto sem preço na tabela vigente")
	ErrEmptyName      = errors.New("descrição não pode ser vazia")
	ErrTableNotFound  = errors.New("tabela de preços não encontrada")
	ErrInvalidPricing = errors.New("preço de venda não pode ser negativo")
)

// ProductClass distingue mercadorias de serviços; serviços não movimentam estoque
type ProductClass string

const (
	ClassGood    ProductClass = "good"
	ClassService ProductClass = "service"
)

// Product representa um produto do catálogo
type Product struct {
	ID           string       `json:"id"`
	SKU          string       `json:"sku"` // código interno, emitido da sequência monotônica
	EAN          *string      `json:"ean,omitempty"`
	Name         string       `json:"name"`
	Unit         string       `json:"unit"`
	Class        ProductClass `json:"class"`
	Supplier     string       `json:"supplier"`
	Weight       float64      `json:"weight"`
	ValidityDate *time.Time   `json:"validity_date,omitempty"`
	ImagePath    string       `json:"image_path"`
	Active       bool         `json:"active"`
	AlternateCodes []string   `json:"alternate_codes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewProduct cria um novo produto; o SKU é atribuído na persistência
func NewProduct(name, unit string, class ProductClass) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if unit == "" {
		unit = "UN"
	}
	if class == "" {
		class = ClassGood
	}

	return &Product{
		ID:        uuid.New().String(),
		Name:      name,
		Unit:      unit,
		Class:     class,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// IsService indica se o produto é um serviço (sem efeito de estoque)
func (p *Product) IsService() bool {
	return p.Class == ClassService
}

// PriceTable representa uma tabela de preços vinculada a um CNPJ
type PriceTable struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductPrice representa o preço de um produto em uma tabela
type ProductPrice struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	PriceTableID string    `json:"price_table_id"`
	SalePrice    float64   `json:"sale_price"`
	CostPrice    float64   `json:"cost_price"`
	Margin       float64   `json:"margin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ComputeMargin deriva a margem a partir de venda e custo
func ComputeMargin(salePrice, costPrice float64) float64 {
	switch {
	case costPrice > 0:
		return money.Round2((salePrice - costPrice) / costPrice * 100)
	case salePrice > 0:
		return 100
	default:
		return 0
	}
}

// NewProductPrice cria o preço de um produto em uma tabela, derivando a margem
func NewProductPrice(productID, priceTableID string, salePrice, costPrice float64) (*ProductPrice, error) {
	if salePrice < 0 || costPrice < 0 {
		return nil, ErrInvalidPricing
	}

	return &ProductPrice{
		ID:           uuid.New().String(),
		ProductID:    productID,
		PriceTableID: priceTableID,
		SalePrice:    money.Round2(salePrice),
		CostPrice:    money.Round2(costPrice),
		Margin:       ComputeMargin(salePrice, costPrice),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// Price é o resultado da consulta de preço de um produto
type Price struct {
	SalePrice float64 `json:"sale_price"`
	CostPrice float64 `json:"cost_price"`
	Margin    float64 `json:"margin"`
}
