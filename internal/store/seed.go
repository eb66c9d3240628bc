package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/punchamoorthee/ledgerview/internal/domain"
)

// Seed is the initial state of both repositories.
type Seed struct {
	Accounts     []domain.Account
	Transactions []domain.Transaction
}

// FixtureSeed returns the built-in demo records.
func FixtureSeed() Seed {
	return Seed{
		Accounts:     FixtureAccounts(),
		Transactions: FixtureTransactions(),
	}
}

// LoadSeed reads both tables concurrently.
func (s *PostgresSource) LoadSeed(ctx context.Context) (Seed, error) {
	var seed Seed
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.LoadAccounts(ctx)
		seed.Accounts = accounts
		return err
	})
	g.Go(func() error {
		txs, err := s.LoadTransactions(ctx)
		seed.Transactions = txs
		return err
	})
	if err := g.Wait(); err != nil {
		return Seed{}, fmt.Errorf("load seed: %w", err)
	}
	return seed, nil
}

// Orphans returns the transactions whose account is not in the seed.
func (s Seed) Orphans() []domain.Transaction {
	known := make(map[int64]struct{}, len(s.Accounts))
	for _, a := range s.Accounts {
		known[a.ID] = struct{}{}
	}
	var out []domain.Transaction
	for _, t := range s.Transactions {
		if _, ok := known[t.AccountID]; !ok {
			out = append(out, t)
		}
	}
	return out
}
