package organization

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define o contrato de persistência de organizações e estabelecimentos
type Repository interface {
	Create(ctx context.Context, o *Organization) error
	Update(ctx context.Context, o *Organization) error
	FindByID(ctx context.Context, id string) (*Organization, error)
	FindByDocument(ctx context.Context, document string) (*Organization, error)
	List(ctx context.Context, limit, offset int) ([]*Organization, error)

	CreatePlace(ctx context.Context, p *FiscalPlace) error
	FindPlaceByID(ctx context.Context, id string) (*FiscalPlace, error)
	ListPlaces(ctx context.Context, organizationID string) ([]*FiscalPlace, error)
}

// TerminalRepository define o contrato de persistência de terminais
type TerminalRepository interface {
	Create(ctx context.Context, t *Terminal) error
	Update(ctx context.Context, t *Terminal) error
	FindByID(ctx context.Context, id string) (*Terminal, error)
	FindByHostname(ctx context.Context, hostname string) (*Terminal, error)
	List(ctx context.Context, fiscalPlaceID string) ([]*Terminal, error)

	// NextDocumentNumberTx incrementa o contador do terminal sob bloqueio de
	// linha e retorna o número reservado; a numeração só é consumida se a
	// transação confirmar.
	NextDocumentNumberTx(ctx context.Context, tx pgx.Tx, terminalID string) (int64, error)
}
