package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/query"
)

type accountRepo interface {
	FirstOrFail(ctx context.Context, opts query.OneOptions) (domain.Account, error)
	FindByPK(pk int64) (domain.Account, bool)
	FindAllAndCount(ctx context.Context, opts query.Options) (query.Rows[domain.Account], error)
	Save(ctx context.Context, a domain.Account) error
}

type transactionRepo interface {
	FirstOrFail(ctx context.Context, opts query.OneOptions) (domain.Transaction, error)
	FindAllAndCount(ctx context.Context, opts query.Options) (query.Rows[domain.Transaction], error)
	Save(ctx context.Context, t domain.Transaction) error
}

type sequence interface {
	Next() int64
}

type locker interface {
	RunSerialized(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

const (
	// MaxDescriptionLength bounds transaction descriptions.
	MaxDescriptionLength = 500
	// MaxNameLength bounds account names.
	MaxNameLength = 100
)

// EntryInput is a deposit or withdrawal request. Amount is always positive;
// the operation decides the sign.
type EntryInput struct {
	AccountID   int64
	Amount      int64
	Description string
}

// CreateAccountInput opens an account for OwnerID.
type CreateAccountInput struct {
	Name           string
	OwnerID        int64
	OpeningBalance int64
}

// Reconciliation compares an account balance with its transaction history.
type Reconciliation struct {
	AccountID    int64 `json:"account_id"`
	Balance      int64 `json:"balance"`
	Sum          int64 `json:"sum"`
	Transactions int   `json:"transactions"`
	Consistent   bool  `json:"consistent"`
}

// LedgerService applies balance changes. Every change is written as an
// immutable Transaction first and then accumulated into the account.
// Changes to one account are serialized.
type LedgerService struct {
	accounts   accountRepo
	txs        transactionRepo
	accountSeq sequence
	txSeq      sequence
	locks      locker
	log        *slog.Logger
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(
	log *slog.Logger,
	accounts accountRepo,
	txs transactionRepo,
	accountSeq sequence,
	txSeq sequence,
	locks locker,
) *LedgerService {
	return &LedgerService{
		accounts:   accounts,
		txs:        txs,
		accountSeq: accountSeq,
		txSeq:      txSeq,
		locks:      locks,
		log:        log.With("service", "ledger"),
	}
}

// Deposit credits in.Amount to the account and returns the updated account.
func (s *LedgerService) Deposit(ctx context.Context, in EntryInput) (domain.Account, error) {
	acc, err := s.entry(ctx, in, 1, "Deposit")
	observe("deposit", err)
	return acc, err
}

// Withdraw debits in.Amount from the account and returns the updated account.
// Balances may go negative.
func (s *LedgerService) Withdraw(ctx context.Context, in EntryInput) (domain.Account, error) {
	acc, err := s.entry(ctx, in, -1, "Withdrawal")
	observe("withdraw", err)
	return acc, err
}

func (s *LedgerService) entry(ctx context.Context, in EntryInput, sign int64, fallback string) (domain.Account, error) {
	if in.Amount <= 0 {
		return domain.Account{}, domain.NewValidationError("amount", "must be positive")
	}
	desc := defaultString(in.Description, fallback)
	if len(desc) > MaxDescriptionLength {
		return domain.Account{}, domain.NewValidationError("description", "is too long")
	}
	return s.apply(ctx, in.AccountID, sign*in.Amount, desc)
}

func (s *LedgerService) apply(ctx context.Context, accountID, signed int64, desc string) (domain.Account, error) {
	var updated domain.Account
	err := s.locks.RunSerialized(ctx, accountLock(accountID), func(ctx context.Context) error {
		acc, err := s.accounts.FirstOrFail(ctx, query.Where("id", query.Int(accountID)))
		if err != nil {
			return fmt.Errorf("load account %d: %w", accountID, err)
		}
		if overflows(acc.Balance, signed) {
			return domain.NewValidationError("amount", "balance would overflow")
		}

		tx := domain.Transaction{
			ID:          s.txSeq.Next(),
			AccountID:   acc.ID,
			Amount:      signed,
			Description: desc,
		}
		if err := s.txs.Save(ctx, tx); err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}

		// The transaction is recorded; the balance must follow regardless
		// of what happens to the caller's context.
		acc.Balance += signed
		if err := s.accounts.Save(context.WithoutCancel(ctx), acc); err != nil {
			s.log.ErrorContext(ctx, "transaction recorded but balance not saved",
				slog.Int64("account_id", acc.ID),
				slog.Int64("transaction_id", tx.ID),
				slog.Int64("amount", signed),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("save account: %w", err)
		}

		s.log.DebugContext(ctx, "ledger entry applied",
			slog.Int64("account_id", acc.ID),
			slog.Int64("transaction_id", tx.ID),
			slog.Int64("amount", signed),
			slog.Int64("balance", acc.Balance),
		)
		updated = acc
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return updated, nil
}

// CreateAccount opens an account. A positive opening balance is booked as
// a deposit so the balance is backed by a transaction from the start.
func (s *LedgerService) CreateAccount(ctx context.Context, in CreateAccountInput) (domain.Account, error) {
	acc, err := s.createAccount(ctx, in)
	observe("create", err)
	return acc, err
}

func (s *LedgerService) createAccount(ctx context.Context, in CreateAccountInput) (domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Account{}, domain.NewValidationError("name", "is required")
	}
	if len(name) > MaxNameLength {
		return domain.Account{}, domain.NewValidationError("name", "is too long")
	}
	if in.OpeningBalance < 0 {
		return domain.Account{}, domain.NewValidationError("opening_balance", "must not be negative")
	}

	acc := domain.Account{
		ID:      s.accountSeq.Next(),
		Name:    name,
		OwnerID: in.OwnerID,
	}
	if err := s.accounts.Save(ctx, acc); err != nil {
		return domain.Account{}, fmt.Errorf("save account: %w", err)
	}
	s.log.InfoContext(ctx, "account created",
		slog.Int64("account_id", acc.ID),
		slog.Int64("owner_id", acc.OwnerID),
	)

	if in.OpeningBalance == 0 {
		return acc, nil
	}
	return s.apply(ctx, acc.ID, in.OpeningBalance, "Opening balance")
}

// Reconcile sums the account's transactions and compares the result with
// its balance.
func (s *LedgerService) Reconcile(ctx context.Context, accountID int64) (Reconciliation, error) {
	var rec Reconciliation
	err := s.locks.RunSerialized(ctx, accountLock(accountID), func(ctx context.Context) error {
		acc, err := s.accounts.FirstOrFail(ctx, query.Where("id", query.Int(accountID)))
		if err != nil {
			return fmt.Errorf("load account %d: %w", accountID, err)
		}
		res, err := s.txs.FindAllAndCount(ctx, query.Options{
			Filters: map[string]query.Value{"account_id": query.Int(accountID)},
		})
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}

		var sum int64
		for _, t := range res.Rows {
			sum += t.Amount
		}
		rec = Reconciliation{
			AccountID:    acc.ID,
			Balance:      acc.Balance,
			Sum:          sum,
			Transactions: res.Total,
			Consistent:   acc.Balance == sum,
		}
		return nil
	})
	if err != nil {
		return Reconciliation{}, err
	}
	if !rec.Consistent {
		s.log.WarnContext(ctx, "ledger out of balance",
			slog.Int64("account_id", rec.AccountID),
			slog.Int64("balance", rec.Balance),
			slog.Int64("sum", rec.Sum),
		)
	}
	return rec, nil
}

func accountLock(id int64) string {
	return "account:" + strconv.FormatInt(id, 10)
}

func overflows(balance, delta int64) bool {
	if delta > 0 {
		return balance > math.MaxInt64-delta
	}
	return balance < math.MinInt64-delta
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}
