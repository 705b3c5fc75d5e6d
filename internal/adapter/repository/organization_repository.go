package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
)

var (
	ErrOrganizationDuplicateDocument = errors.New("já existe uma organização com este CNPJ")
)

// OrganizationRepository implementa a interface organization.Repository usando PostgreSQL
type OrganizationRepository struct {
	db *pgxpool.Pool
}

// NewOrganizationRepository cria uma nova instância de OrganizationRepository
func NewOrganizationRepository(db *pgxpool.Pool) organization.Repository {
	return &OrganizationRepository{db: db}
}

// Create implementa organization.Repository.Create
func (r *OrganizationRepository) Create(ctx context.Context, o *organization.Organization) error {
	query := `
		INSERT INTO organizations (
			id, document, legal_name, trade_name, street, number, district, city, state, zip_code,
			fiscal_regime, environment, certificate, certificate_password, csc_id, csc_token,
			active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`

	_, err := r.db.Exec(ctx, query,
		o.ID, o.Document, o.LegalName, o.TradeName,
		o.Address.Street, o.Address.Number, o.Address.District, o.Address.City, o.Address.State, o.Address.ZipCode,
		o.FiscalRegime, string(o.Environment), o.Certificate, o.CertificatePassword, o.CSCID, o.CSCToken,
		o.Active, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrOrganizationDuplicateDocument
		}
		return fmt.Errorf("falha ao inserir organização: %w", err)
	}
	return nil
}

// Update implementa organization.Repository.Update
func (r *OrganizationRepository) Update(ctx context.Context, o *organization.Organization) error {
	query := `
		UPDATE organizations
		SET legal_name = $2, trade_name = $3, street = $4, number = $5, district = $6,
			city = $7, state = $8, zip_code = $9, fiscal_regime = $10, environment = $11,
			certificate = $12, certificate_password = $13, csc_id = $14, csc_token = $15, active = $16
		WHERE id = $1 AND is_deleted = false
	`

	tag, err := r.db.Exec(ctx, query,
		o.ID, o.LegalName, o.TradeName,
		o.Address.Street, o.Address.Number, o.Address.District, o.Address.City, o.Address.State, o.Address.ZipCode,
		o.FiscalRegime, string(o.Environment), o.Certificate, o.CertificatePassword, o.CSCID, o.CSCToken, o.Active,
	)
	if err != nil {
		return fmt.Errorf("falha ao atualizar organização: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return organization.ErrNotFound
	}
	return nil
}

const organizationColumns = `
	id, document, legal_name, trade_name, street, number, district, city, state, zip_code,
	fiscal_regime, environment, certificate, certificate_password, csc_id, csc_token,
	active, created_at, updated_at
`

func scanOrganization(row pgx.Row) (*organization.Organization, error) {
	o := &organization.Organization{}
	var environment string

	err := row.Scan(
		&o.ID, &o.Document, &o.LegalName, &o.TradeName,
		&o.Address.Street, &o.Address.Number, &o.Address.District, &o.Address.City, &o.Address.State, &o.Address.ZipCode,
		&o.FiscalRegime, &environment, &o.Certificate, &o.CertificatePassword, &o.CSCID, &o.CSCToken,
		&o.Active, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organization.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao ler organização: %w", err)
	}

	o.Environment = organization.Environment(environment)
	return o, nil
}

// FindByID implementa organization.Repository.FindByID
func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*organization.Organization, error) {
	query := "SELECT " + organizationColumns + " FROM organizations WHERE id = $1 AND is_deleted = false"
	return scanOrganization(r.db.QueryRow(ctx, query, id))
}

// FindByDocument implementa organization.Repository.FindByDocument
func (r *OrganizationRepository) FindByDocument(ctx context.Context, document string) (*organization.Organization, error) {
	query := "SELECT " + organizationColumns + " FROM organizations WHERE document = $1 AND is_deleted = false"
	return scanOrganization(r.db.QueryRow(ctx, query, document))
}

// List implementa organization.Repository.List
func (r *OrganizationRepository) List(ctx context.Context, limit, offset int) ([]*organization.Organization, error) {
	query := "SELECT " + organizationColumns + ` FROM organizations
		WHERE is_deleted = false ORDER BY legal_name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar organizações: %w", err)
	}
	defer rows.Close()

	var out []*organization.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CreatePlace implementa organization.Repository.CreatePlace
func (r *OrganizationRepository) CreatePlace(ctx context.Context, p *organization.FiscalPlace) error {
	query := `
		INSERT INTO fiscal_places (
			id, organization_id, name, document, certificate, certificate_password,
			csc_id, csc_token, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.OrganizationID, p.Name, p.Document, p.Certificate, p.CertificatePassword,
		p.CSCID, p.CSCToken, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir estabelecimento: %w", err)
	}
	return nil
}

const placeColumns = `
	id, organization_id, name, document, certificate, certificate_password, csc_id, csc_token, created_at, updated_at
`

func scanPlace(row pgx.Row) (*organization.FiscalPlace, error) {
	p := &organization.FiscalPlace{}
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.Name, &p.Document, &p.Certificate, &p.CertificatePassword,
		&p.CSCID, &p.CSCToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organization.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("falha ao ler estabelecimento: %w", err)
	}
	return p, nil
}

// FindPlaceByID implementa organization.Repository.FindPlaceByID
func (r *OrganizationRepository) FindPlaceByID(ctx context.Context, id string) (*organization.FiscalPlace, error) {
	query := "SELECT " + placeColumns + " FROM fiscal_places WHERE id = $1 AND is_deleted = false"
	return scanPlace(r.db.QueryRow(ctx, query, id))
}

// ListPlaces implementa organization.Repository.ListPlaces
func (r *OrganizationRepository) ListPlaces(ctx context.Context, organizationID string) ([]*organization.FiscalPlace, error) {
	query := "SELECT " + placeColumns + ` FROM fiscal_places
		WHERE organization_id = $1 AND is_deleted = false ORDER BY name`

	rows, err := r.db.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar estabelecimentos: %w", err)
	}
	defer rows.Close()

	var out []*organization.FiscalPlace
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
