package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/store"
	"github.com/punchamoorthee/ledgerview/pkg/ctxutil"
)

type harness struct {
	accounts *store.Repository[domain.Account]
	txs      *store.Repository[domain.Transaction]
	ledger   *LedgerService
	acctSvc  *AccountService
	txSvc    *TransactionService
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := discard()
	seed := store.FixtureSeed()
	accounts := store.NewRepository(log, seed.Accounts)
	txs := store.NewRepository(log, seed.Transactions)
	ledger := NewLedgerService(log, accounts, txs,
		store.NewSequence(store.NextID(seed.Accounts)),
		store.NewSequence(store.NextID(seed.Transactions)),
		store.NewLocker(),
	)
	return &harness{
		accounts: accounts,
		txs:      txs,
		ledger:   ledger,
		acctSvc:  NewAccountService(log, accounts, txs, ledger),
		txSvc:    NewTransactionService(log, accounts, txs),
	}
}

func asUser(id int64, perms ...domain.Permission) context.Context {
	if len(perms) == 0 {
		perms = domain.DemoGrants
	}
	return ctxutil.WithRequester(context.Background(), domain.NewRequester(&id, perms...))
}

func asAnonymous() context.Context {
	return ctxutil.WithRequester(context.Background(), domain.NewRequester(nil, domain.DemoGrants...))
}
