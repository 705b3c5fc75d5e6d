package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
)

// Erros específicos do repositório
var (
	ErrPrincipalDuplicateHandle = errors.New("já existe um operador com este login")
)

// PrincipalRepository implementa a interface principal.Repository usando PostgreSQL
type PrincipalRepository struct {
	db *pgxpool.Pool
}

// NewPrincipalRepository cria uma nova instância de PrincipalRepository
func NewPrincipalRepository(db *pgxpool.Pool) principal.Repository {
	return &PrincipalRepository{db: db}
}

// Create implementa principal.Repository.Create
func (r *PrincipalRepository) Create(ctx context.Context, p *principal.Principal) error {
	caps, err := p.Capabilities.Encode()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO principals (
			id, handle, name, password_hash, theme, capabilities, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err = r.db.Exec(ctx, query,
		p.ID, p.Handle, p.Name, p.PasswordHash, string(p.Theme), caps, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrPrincipalDuplicateHandle
		}
		return fmt.Errorf("falha ao inserir operador: %w", err)
	}

	return nil
}

// Update implementa principal.Repository.Update
func (r *PrincipalRepository) Update(ctx context.Context, p *principal.Principal) error {
	caps, err := p.Capabilities.Encode()
	if err != nil {
		return err
	}

	query := `
		UPDATE principals
		SET name = $2, password_hash = $3, theme = $4, capabilities = $5, active = $6
		WHERE id = $1 AND is_deleted = false
	`

	tag, err := r.db.Exec(ctx, query, p.ID, p.Name, p.PasswordHash, string(p.Theme), caps, p.Active)
	if err != nil {
		return fmt.Errorf("falha ao atualizar operador: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return principal.ErrNotFound
	}
	return nil
}

// UpdateTheme implementa principal.Repository.UpdateTheme
func (r *PrincipalRepository) UpdateTheme(ctx context.Context, id string, theme principal.Theme) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE principals SET theme = $2 WHERE id = $1 AND is_deleted = false",
		id, string(theme))
	if err != nil {
		return fmt.Errorf("falha ao atualizar tema: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return principal.ErrNotFound
	}
	return nil
}

const principalColumns = `
	id, handle, name, password_hash, theme, capabilities, active, created_at, updated_at
`

func scanPrincipal(row pgx.Row) (*principal.Principal, error) {
	p := &principal.Principal{}
	var theme string
	var caps []byte
	var createdAt, updatedAt time.Time

	err := row.Scan(&p.ID, &p.Handle, &p.Name, &p.PasswordHash, &theme, &caps, &p.Active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, principal.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao ler operador: %w", err)
	}

	p.Theme = principal.Theme(theme)
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt

	p.Capabilities, err = principal.DecodeCapabilities(caps)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID implementa principal.Repository.FindByID
func (r *PrincipalRepository) FindByID(ctx context.Context, id string) (*principal.Principal, error) {
	query := "SELECT " + principalColumns + " FROM principals WHERE id = $1 AND is_deleted = false"
	return scanPrincipal(r.db.QueryRow(ctx, query, id))
}

// FindByHandle implementa principal.Repository.FindByHandle
func (r *PrincipalRepository) FindByHandle(ctx context.Context, handle string) (*principal.Principal, error) {
	query := "SELECT " + principalColumns + " FROM principals WHERE handle = $1 AND is_deleted = false"
	return scanPrincipal(r.db.QueryRow(ctx, query, handle))
}

// List implementa principal.Repository.List
func (r *PrincipalRepository) List(ctx context.Context, limit, offset int) ([]*principal.Principal, error) {
	query := "SELECT " + principalColumns + ` FROM principals
		WHERE is_deleted = false ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar operadores: %w", err)
	}
	defer rows.Close()

	var out []*principal.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
