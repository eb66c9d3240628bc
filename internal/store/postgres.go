package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/punchamoorthee/ledgerview/internal/domain"
)

// Schema creates the seed tables.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id       BIGINT PRIMARY KEY,
	name     TEXT   NOT NULL,
	balance  BIGINT NOT NULL,
	owner_id BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	id          BIGINT PRIMARY KEY,
	description TEXT   NOT NULL,
	amount      BIGINT NOT NULL,
	account_id  BIGINT NOT NULL REFERENCES accounts (id)
);`

type pgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// PostgresSource loads seed records from Postgres and writes fixtures to it.
// The engine itself stays in memory; Postgres only supplies the initial state.
type PostgresSource struct {
	db   pgxIface
	pool *pgxpool.Pool
}

// NewPostgresSource connects and pings the database.
func NewPostgresSource(ctx context.Context, connString string) (*PostgresSource, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresSource{db: pool, pool: pool}, nil
}

// NewPostgresSourceFrom wraps an existing connection or pool.
func NewPostgresSourceFrom(db pgxIface) *PostgresSource {
	return &PostgresSource{db: db}
}

// Close releases the pool when the source owns one.
func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// LoadAccounts reads all accounts in id order.
func (s *PostgresSource) LoadAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, balance, owner_id FROM accounts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		var a domain.Account
		err := row.Scan(&a.ID, &a.Name, &a.Balance, &a.OwnerID)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan accounts: %w", err)
	}
	return accounts, nil
}

// LoadTransactions reads all transactions in id order.
func (s *PostgresSource) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx, "SELECT id, description, amount, account_id FROM transactions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	txs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		var t domain.Transaction
		err := row.Scan(&t.ID, &t.Description, &t.Amount, &t.AccountID)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	return txs, nil
}

// Migrate creates the seed tables if they do not exist.
func (s *PostgresSource) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// WriteFixtures bulk inserts accounts and then their transactions.
func (s *PostgresSource) WriteFixtures(ctx context.Context, accounts []domain.Account, txs []domain.Transaction) (int64, error) {
	accRows := make([][]any, 0, len(accounts))
	for _, a := range accounts {
		accRows = append(accRows, []any{a.ID, a.Name, a.Balance, a.OwnerID})
	}
	n, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"accounts"},
		[]string{"id", "name", "balance", "owner_id"},
		pgx.CopyFromRows(accRows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy accounts: %w", err)
	}

	txRows := make([][]any, 0, len(txs))
	for _, t := range txs {
		txRows = append(txRows, []any{t.ID, t.Description, t.Amount, t.AccountID})
	}
	m, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"transactions"},
		[]string{"id", "description", "amount", "account_id"},
		pgx.CopyFromRows(txRows),
	)
	if err != nil {
		return n, fmt.Errorf("copy transactions: %w", err)
	}
	return n + m, nil
}
