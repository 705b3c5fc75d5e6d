package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager é o contrato consumido pelos serviços para executar uma ação de
// usuário como uma única transação. Toda operação mutável do núcleo passa por
// aqui; escritas parciais nunca são observáveis.
type TxManager interface {
	Transaction(ctx context.Context, txFunc func(tx pgx.Tx) error) error
}

// PostgresDB gerencia a conexão com o PostgreSQL
type PostgresDB struct {
	pool *pgxpool.Pool
}

// NewPostgresDB cria uma nova conexão com o banco de dados PostgreSQL
func NewPostgresDB() (*PostgresDB, error) {
	// Obter a string de conexão da variável de ambiente
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		// Criar a string de conexão a partir de variáveis de ambiente individuais
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "postgres")
		password := getEnvOrDefault("DB_PASSWORD", "postgres")
		dbname := getEnvOrDefault("DB_NAME", "erp_pdv")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		connString = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	// Configurar pool de conexões
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar configuração do pool: %w", err)
	}

	// Ajustar configurações do pool
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	// Criar pool de conexões
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar pool de conexões: %w", err)
	}

	// Testar conexão
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("erro ao verificar conexão com o banco de dados: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Pool retorna o pool de conexões subjacente
func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

// GetConnection retorna uma conexão do pool para uso
func (db *PostgresDB) GetConnection(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao adquirir conexão do pool: %w", err)
	}
	return conn, nil
}

// Close fecha o pool de conexões
func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Transaction executa uma função dentro de uma transação
func (db *PostgresDB) Transaction(ctx context.Context, txFunc func(tx pgx.Tx) error) error {
	conn, err := db.GetConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	// Iniciar transação
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}

	// Executar função dentro da transação
	if err := txFunc(tx); err != nil {
		// Rollback em caso de erro
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Printf("erro ao fazer rollback: %v", rbErr)
		}
		return err
	}

	// Commit se tudo ocorreu bem
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	return nil
}

// getEnvOrDefault retorna o valor de uma variável de ambiente ou um valor padrão
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
