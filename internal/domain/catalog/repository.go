package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define o contrato de persistência do catálogo
type Repository interface {
	// CreateTx persiste o produto e seus códigos alternativos, atribuindo o
	// SKU a partir da sequência interna dentro da mesma transação.
	CreateTx(ctx context.Context, tx pgx.Tx, p *Product) error
	Update(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByEAN(ctx context.Context, ean string) (*Product, error)
	FindByAlternateCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context, limit, offset int) ([]*Product, error)

	CreatePriceTable(ctx context.Context, t *PriceTable) error
	FindPriceTableByDocument(ctx context.Context, document string) (*PriceTable, error)
	UpsertPrice(ctx context.Context, p *ProductPrice) error
	FindPrice(ctx context.Context, productID, priceTableID string) (*ProductPrice, error)
}
