package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hugohenrick/erp-pdv/internal/service"
)

// SequenceRepository implementa service.SequenceRepository usando PostgreSQL
type SequenceRepository struct {
	db *pgxpool.Pool
}

// NewSequenceRepository cria uma nova instância de SequenceRepository
func NewSequenceRepository(db *pgxpool.Pool) service.SequenceRepository {
	return &SequenceRepository{db: db}
}

// NextTx incrementa e devolve o contador nomeado. O UPDATE segura a linha até
// o commit, serializando emissões concorrentes do mesmo contador.
func (r *SequenceRepository) NextTx(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var value int64
	err := tx.QueryRow(ctx,
		"UPDATE sequences SET value = value + 1 WHERE name = $1 RETURNING value",
		name).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("falha ao avançar contador %s: %w", name, err)
	}
	return value, nil
}
