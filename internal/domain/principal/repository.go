package principal

import "context"

// Repository define o contrato de persistência de operadores
type Repository interface {
	Create(ctx context.Context, p *Principal) error
	Update(ctx context.Context, p *Principal) error
	UpdateTheme(ctx context.Context, id string, theme Theme) error
	FindByID(ctx context.Context, id string) (*Principal, error)
	FindByHandle(ctx context.Context, handle string) (*Principal, error)
	List(ctx context.Context, limit, offset int) ([]*Principal, error)
}
