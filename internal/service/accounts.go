package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/policy"
	"github.com/punchamoorthee/ledgerview/internal/query"
	"github.com/punchamoorthee/ledgerview/pkg/ctxutil"
)

type ledger interface {
	Deposit(ctx context.Context, in EntryInput) (domain.Account, error)
	Withdraw(ctx context.Context, in EntryInput) (domain.Account, error)
	CreateAccount(ctx context.Context, in CreateAccountInput) (domain.Account, error)
	Reconcile(ctx context.Context, accountID int64) (Reconciliation, error)
}

// AccountService answers account queries and mutations on behalf of the
// requester carried in the context.
type AccountService struct {
	accounts accountRepo
	txs      transactionRepo
	ledger   ledger
	log      *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(log *slog.Logger, accounts accountRepo, txs transactionRepo, l ledger) *AccountService {
	return &AccountService{
		accounts: accounts,
		txs:      txs,
		ledger:   l,
		log:      log.With("service", "accounts"),
	}
}

// List runs opts against all accounts and redacts the ones the requester
// may not see.
func (s *AccountService) List(ctx context.Context, opts query.Options) (AccountCollection, error) {
	pol := policyFromCtx(ctx)
	if !pol.Account.CanFindMany() {
		return AccountCollection{}, domain.Forbidden("Cannot Find Accounts")
	}

	res, err := s.accounts.FindAllAndCount(ctx, opts)
	if err != nil {
		return AccountCollection{}, fmt.Errorf("find accounts: %w", err)
	}

	visible := policy.Redact(res.Rows, pol.Account.CanFindOne)
	nodes := make([]*AccountNode, len(visible))
	for i, a := range visible {
		if a != nil {
			nodes[i] = accountNode(pol, *a)
		}
	}
	return AccountCollection{
		Nodes:    nodes,
		PageInfo: query.Paginate(opts, res),
		CanShow:  true,
	}, nil
}

// Get returns one account. Accounts the requester may not see are
// reported as not found.
func (s *AccountService) Get(ctx context.Context, id int64) (*AccountNode, error) {
	pol := policyFromCtx(ctx)
	acc, err := s.visible(ctx, pol, id)
	if err != nil {
		return nil, err
	}
	return accountNode(pol, acc), nil
}

// CreateInput is a request to open an account for the requester.
type CreateInput struct {
	Name           string
	OpeningBalance int64
}

// Create opens an account owned by the requester.
func (s *AccountService) Create(ctx context.Context, in CreateInput) (*AccountNode, error) {
	r, _ := ctxutil.RequesterFromCtx(ctx)
	pol := policy.For(r)
	if !pol.Account.CanCreate() {
		return nil, domain.Forbidden("Cannot Create Account")
	}
	owner, ok := r.UserID()
	if !ok {
		return nil, domain.Forbidden("Cannot Create Account without a user")
	}

	acc, err := s.ledger.CreateAccount(ctx, CreateAccountInput{
		Name:           in.Name,
		OwnerID:        owner,
		OpeningBalance: in.OpeningBalance,
	})
	if err != nil {
		return nil, err
	}
	return accountNode(pol, acc), nil
}

// Deposit credits the account if the requester may deposit into it.
func (s *AccountService) Deposit(ctx context.Context, in EntryInput) (*AccountNode, error) {
	if in.Amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}
	pol := policyFromCtx(ctx)
	acc, err := s.visible(ctx, pol, in.AccountID)
	if err != nil {
		return nil, err
	}
	if !pol.Account.CanDeposit(acc) {
		return nil, domain.Forbidden("Cannot Deposit Into Account")
	}

	updated, err := s.ledger.Deposit(ctx, in)
	if err != nil {
		return nil, err
	}
	return accountNode(pol, updated), nil
}

// Withdraw debits the account if the requester may withdraw from it.
func (s *AccountService) Withdraw(ctx context.Context, in EntryInput) (*AccountNode, error) {
	if in.Amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}
	pol := policyFromCtx(ctx)
	acc, err := s.visible(ctx, pol, in.AccountID)
	if err != nil {
		return nil, err
	}
	if !pol.Account.CanWithdraw(acc) {
		return nil, domain.Forbidden("Cannot Withdraw From Account")
	}

	updated, err := s.ledger.Withdraw(ctx, in)
	if err != nil {
		return nil, err
	}
	return accountNode(pol, updated), nil
}

// Reconcile checks the account balance against its transactions.
func (s *AccountService) Reconcile(ctx context.Context, id int64) (Reconciliation, error) {
	pol := policyFromCtx(ctx)
	if _, err := s.visible(ctx, pol, id); err != nil {
		return Reconciliation{}, err
	}
	return s.ledger.Reconcile(ctx, id)
}

// Transactions lists the account's transactions. The account_id filter is
// forced to the account; the rest of opts applies as given.
func (s *AccountService) Transactions(ctx context.Context, id int64, opts query.Options) (TransactionCollection, error) {
	pol := policyFromCtx(ctx)
	acc, err := s.visible(ctx, pol, id)
	if err != nil {
		return TransactionCollection{}, err
	}
	if !pol.Transaction.CanFindMany() {
		return TransactionCollection{}, domain.Forbidden("Cannot Find Transactions")
	}

	opts = opts.WithFilter("account_id", query.Int(acc.ID))
	res, err := s.txs.FindAllAndCount(ctx, opts)
	if err != nil {
		return TransactionCollection{}, fmt.Errorf("find transactions: %w", err)
	}

	parent := accountNode(pol, acc)
	allow := func(t domain.Transaction) bool { return pol.Transaction.CanFindOne(t, acc) }
	visible := policy.Redact(res.Rows, allow)
	nodes := make([]*TransactionNode, len(visible))
	for i, t := range visible {
		if t != nil {
			nodes[i] = &TransactionNode{Transaction: *t, Account: parent, CanShow: true}
		}
	}
	return TransactionCollection{
		Nodes:    nodes,
		PageInfo: query.Paginate(opts, res),
		CanShow:  true,
	}, nil
}

func (s *AccountService) visible(ctx context.Context, pol policy.Set, id int64) (domain.Account, error) {
	acc, err := s.accounts.FirstOrFail(ctx, query.Where("id", query.Int(id)))
	if err != nil {
		return domain.Account{}, err
	}
	if !pol.Account.CanFindOne(acc) {
		return domain.Account{}, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	return acc, nil
}

func accountNode(pol policy.Set, a domain.Account) *AccountNode {
	return &AccountNode{
		Account: a,
		Can: AccountActions{
			Show:     pol.Account.CanFindOne(a),
			Withdraw: pol.Account.CanWithdraw(a),
			Deposit:  pol.Account.CanDeposit(a),
		},
	}
}

func policyFromCtx(ctx context.Context) policy.Set {
	r, _ := ctxutil.RequesterFromCtx(ctx)
	return policy.For(r)
}
