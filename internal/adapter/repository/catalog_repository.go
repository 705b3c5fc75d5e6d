package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/catalog"
)

// CatalogRepository implementa a interface catalog.Repository usando PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository cria uma nova instância de CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) catalog.Repository {
	return &CatalogRepository{db: db}
}

// CreateTx implementa catalog.Repository.CreateTx
func (r *CatalogRepository) CreateTx(ctx context.Context, tx pgx.Tx, p *catalog.Product) error {
	query := `
		INSERT INTO products (
			id, sku, ean, name, unit, class, supplier, weight, validity_date, image_path,
			active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := tx.Exec(ctx, query,
		p.ID, p.SKU, p.EAN, p.Name, p.Unit, string(p.Class), p.Supplier, p.Weight,
		p.ValidityDate, p.ImagePath, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrDuplicateCode
		}
		return fmt.Errorf("falha ao inserir produto: %w", err)
	}

	for _, code := range p.AlternateCodes {
		_, err := tx.Exec(ctx,
			"INSERT INTO alternate_codes (id, product_id, code) VALUES ($1, $2, $3)",
			uuid.New().String(), p.ID, code)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return catalog.ErrDuplicateCode
			}
			return fmt.Errorf("falha ao inserir código alternativo: %w", err)
		}
	}

	return nil
}

// Update implementa catalog.Repository.Update
func (r *CatalogRepository) Update(ctx context.Context, p *catalog.Product) error {
	query := `
		UPDATE products
		SET ean = $2, name = $3, unit = $4, class = $5, supplier = $6, weight = $7,
			validity_date = $8, image_path = $9, active = $10
		WHERE id = $1 AND is_deleted = false
	`

	tag, err := r.db.Exec(ctx, query,
		p.ID, p.EAN, p.Name, p.Unit, string(p.Class), p.Supplier, p.Weight,
		p.ValidityDate, p.ImagePath, p.Active,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrDuplicateCode
		}
		return fmt.Errorf("falha ao atualizar produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

const productColumns = `
	p.id, p.sku, p.ean, p.name, p.unit, p.class, p.supplier, p.weight,
	p.validity_date, p.image_path, p.active, p.created_at, p.updated_at
`

func (r *CatalogRepository) findProduct(ctx context.Context, where string, arg any) (*catalog.Product, error) {
	query := "SELECT " + productColumns + " FROM products p WHERE " + where + " AND p.is_deleted = false"

	p := &catalog.Product{}
	var class string
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.SKU, &p.EAN, &p.Name, &p.Unit, &class, &p.Supplier, &p.Weight,
		&p.ValidityDate, &p.ImagePath, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao ler produto: %w", err)
	}
	p.Class = catalog.ProductClass(class)

	rows, err := r.db.Query(ctx,
		"SELECT code FROM alternate_codes WHERE product_id = $1 AND is_deleted = false", p.ID)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler códigos alternativos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		p.AlternateCodes = append(p.AlternateCodes, code)
	}
	return p, rows.Err()
}

// FindByID implementa catalog.Repository.FindByID
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	return r.findProduct(ctx, "p.id = $1", id)
}

// FindBySKU implementa catalog.Repository.FindBySKU
func (r *CatalogRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	return r.findProduct(ctx, "p.sku = $1", sku)
}

// FindByEAN implementa catalog.Repository.FindByEAN
func (r *CatalogRepository) FindByEAN(ctx context.Context, ean string) (*catalog.Product, error) {
	return r.findProduct(ctx, "p.ean = $1", ean)
}

// FindByAlternateCode implementa catalog.Repository.FindByAlternateCode
func (r *CatalogRepository) FindByAlternateCode(ctx context.Context, code string) (*catalog.Product, error) {
	return r.findProduct(ctx,
		"p.id = (SELECT product_id FROM alternate_codes WHERE code = $1 AND is_deleted = false)", code)
}

// List implementa catalog.Repository.List
func (r *CatalogRepository) List(ctx context.Context, limit, offset int) ([]*catalog.Product, error) {
	query := "SELECT " + productColumns + ` FROM products p
		WHERE p.is_deleted = false ORDER BY p.name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar produtos: %w", err)
	}
	defer rows.Close()

	var out []*catalog.Product
	for rows.Next() {
		p := &catalog.Product{}
		var class string
		err := rows.Scan(
			&p.ID, &p.SKU, &p.EAN, &p.Name, &p.Unit, &class, &p.Supplier, &p.Weight,
			&p.ValidityDate, &p.ImagePath, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler produto: %w", err)
		}
		p.Class = catalog.ProductClass(class)
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreatePriceTable implementa catalog.Repository.CreatePriceTable
func (r *CatalogRepository) CreatePriceTable(ctx context.Context, t *catalog.PriceTable) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO price_tables (id, name, document, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		t.ID, t.Name, t.Document, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir tabela de preços: %w", err)
	}
	return nil
}

// FindPriceTableByDocument implementa catalog.Repository.FindPriceTableByDocument
func (r *CatalogRepository) FindPriceTableByDocument(ctx context.Context, document string) (*catalog.PriceTable, error) {
	t := &catalog.PriceTable{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, document, created_at, updated_at
		FROM price_tables
		WHERE document = $1 AND is_deleted = false
		ORDER BY created_at
		LIMIT 1
	`, document).Scan(&t.ID, &t.Name, &t.Document, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrTableNotFound
		}
		return nil, fmt.Errorf("falha ao ler tabela de preços: %w", err)
	}
	return t, nil
}

// UpsertPrice implementa catalog.Repository.UpsertPrice
func (r *CatalogRepository) UpsertPrice(ctx context.Context, p *catalog.ProductPrice) error {
	query := `
		INSERT INTO product_prices (
			id, product_id, price_table_id, sale_price, cost_price, margin, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (product_id, price_table_id) DO UPDATE
		SET sale_price = EXCLUDED.sale_price, cost_price = EXCLUDED.cost_price, margin = EXCLUDED.margin
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.ProductID, p.PriceTableID, p.SalePrice, p.CostPrice, p.Margin, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao gravar preço: %w", err)
	}
	return nil
}

// FindPrice implementa catalog.Repository.FindPrice
func (r *CatalogRepository) FindPrice(ctx context.Context, productID, priceTableID string) (*catalog.ProductPrice, error) {
	p := &catalog.ProductPrice{}
	err := r.db.QueryRow(ctx, `
		SELECT id, product_id, price_table_id, sale_price, cost_price, margin, created_at, updated_at
		FROM product_prices
		WHERE product_id = $1 AND price_table_id = $2 AND is_deleted = false
	`, productID, priceTableID).Scan(
		&p.ID, &p.ProductID, &p.PriceTableID, &p.SalePrice, &p.CostPrice, &p.Margin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNoPrice
		}
		return nil, fmt.Errorf("falha ao ler preço: %w", err)
	}
	return p, nil
}
