package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/policy"
	"github.com/punchamoorthee/ledgerview/internal/query"
)

// TransactionService answers transaction queries. A transaction is visible
// only together with its owning account.
type TransactionService struct {
	accounts accountRepo
	txs      transactionRepo
	log      *slog.Logger
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(log *slog.Logger, accounts accountRepo, txs transactionRepo) *TransactionService {
	return &TransactionService{
		accounts: accounts,
		txs:      txs,
		log:      log.With("service", "transactions"),
	}
}

// List runs opts against all transactions and redacts the ones whose
// account the requester may not see.
func (s *TransactionService) List(ctx context.Context, opts query.Options) (TransactionCollection, error) {
	pol := policyFromCtx(ctx)
	if !pol.Transaction.CanFindMany() {
		return TransactionCollection{}, domain.Forbidden("Cannot Find Transactions")
	}

	res, err := s.txs.FindAllAndCount(ctx, opts)
	if err != nil {
		return TransactionCollection{}, fmt.Errorf("find transactions: %w", err)
	}

	owners := make(map[int64]*AccountNode)
	nodes := make([]*TransactionNode, len(res.Rows))
	for i, t := range res.Rows {
		parent, ok := owners[t.AccountID]
		if !ok {
			parent = s.owner(pol, t)
			owners[t.AccountID] = parent
		}
		if parent == nil || !pol.Transaction.CanFindOne(t, parent.Account) {
			continue
		}
		nodes[i] = &TransactionNode{Transaction: t, Account: parent, CanShow: true}
	}
	return TransactionCollection{
		Nodes:    nodes,
		PageInfo: query.Paginate(opts, res),
		CanShow:  true,
	}, nil
}

// Get returns one transaction with its account. Transactions the requester
// may not see are reported as not found.
func (s *TransactionService) Get(ctx context.Context, id int64) (*TransactionNode, error) {
	pol := policyFromCtx(ctx)
	t, err := s.txs.FirstOrFail(ctx, query.Where("id", query.Int(id)))
	if err != nil {
		return nil, err
	}
	parent := s.owner(pol, t)
	if parent == nil || !pol.Transaction.CanFindOne(t, parent.Account) {
		return nil, fmt.Errorf("transaction %d: %w", id, domain.ErrNotFound)
	}
	return &TransactionNode{Transaction: t, Account: parent, CanShow: true}, nil
}

// owner resolves the transaction's account, or nil if it is missing or
// hidden from the requester.
func (s *TransactionService) owner(pol policy.Set, t domain.Transaction) *AccountNode {
	acc, ok := s.accounts.FindByPK(t.AccountID)
	if !ok {
		s.log.Warn("transaction references missing account",
			slog.Int64("transaction_id", t.ID),
			slog.Int64("account_id", t.AccountID),
		)
		return nil
	}
	if !pol.Account.CanFindOne(acc) {
		return nil
	}
	return accountNode(pol, acc)
}
