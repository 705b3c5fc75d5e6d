package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/erp-pdv/internal/domain/catalog"
	"github.com/hugohenrick/erp-pdv/internal/infrastructure/database"
)

// SequenceRepository expõe os contadores monotônicos nomeados do banco
type SequenceRepository interface {
	// NextTx incrementa o contador sob bloqueio de linha e retorna o novo valor
	NextTx(ctx context.Context, tx pgx.Tx, name string) (int64, error)
}

// SequenceInternalSKU é o contador usado na emissão de códigos internos
const SequenceInternalSKU = "internal_sku"

// CatalogService implementa as operações de catálogo: cadastro de produtos,
// resolução de códigos e consulta de preços.
type CatalogService struct {
	db        database.TxManager
	products  catalog.Repository
	sequences SequenceRepository
}

// NewCatalogService cria uma nova instância de CatalogService
func NewCatalogService(db database.TxManager, products catalog.Repository, sequences SequenceRepository) *CatalogService {
	return &CatalogService{
		db:        db,
		products:  products,
		sequences: sequences,
	}
}

// CreateProduct persiste um novo produto atribuindo o SKU a partir da
// sequência interna; a emissão e a inserção acontecem na mesma transação.
func (s *CatalogService) CreateProduct(ctx context.Context, p *catalog.Product) error {
	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		next, err := s.sequences.NextTx(ctx, tx, SequenceInternalSKU)
		if err != nil {
			return fmt.Errorf("falha ao emitir SKU: %w", err)
		}
		p.SKU = fmt.Sprintf("%06d", next)

		if err := s.products.CreateTx(ctx, tx, p); err != nil {
			return fmt.Errorf("produto %s: %w", p.ID, err)
		}
		return nil
	})
}

// ResolveCode localiza um produto a partir de um token: primeiro como SKU,
// depois como EAN principal e por fim como código alternativo.
func (s *CatalogService) ResolveCode(ctx context.Context, token string) (*catalog.Product, error) {
	if token == "" {
		return nil, catalog.ErrNotFound
	}

	if p, err := s.products.FindBySKU(ctx, token); err == nil {
		return p, nil
	}
	if p, err := s.products.FindByEAN(ctx, token); err == nil {
		return p, nil
	}
	if p, err := s.products.FindByAlternateCode(ctx, token); err == nil {
		return p, nil
	}

	return nil, fmt.Errorf("código %q: %w", token, catalog.ErrNotFound)
}

// PriceFor consulta o preço do produto na tabela vinculada ao CNPJ informado.
// A tabela do estabelecimento prevalece sobre a da organização; cabe ao
// chamador decidir se a ausência de preço vira zero ou rejeição.
func (s *CatalogService) PriceFor(ctx context.Context, productID, placeDocument, orgDocument string) (*catalog.Price, error) {
	table, err := s.products.FindPriceTableByDocument(ctx, placeDocument)
	if err != nil && orgDocument != "" && orgDocument != placeDocument {
		table, err = s.products.FindPriceTableByDocument(ctx, orgDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("produto %s: %w", productID, catalog.ErrNoPrice)
	}

	price, err := s.products.FindPrice(ctx, productID, table.ID)
	if err != nil {
		return nil, fmt.Errorf("produto %s: %w", productID, catalog.ErrNoPrice)
	}

	return &catalog.Price{
		SalePrice: price.SalePrice,
		CostPrice: price.CostPrice,
		Margin:    price.Margin,
	}, nil
}

// SetPrice grava o preço de um produto em uma tabela, derivando a margem
func (s *CatalogService) SetPrice(ctx context.Context, productID, priceTableID string, salePrice, costPrice float64) (*catalog.ProductPrice, error) {
	price, err := catalog.NewProductPrice(productID, priceTableID, salePrice, costPrice)
	if err != nil {
		return nil, err
	}

	if err := s.products.UpsertPrice(ctx, price); err != nil {
		return nil, fmt.Errorf("produto %s: %w", productID, err)
	}
	return price, nil
}
