package policy

import "github.com/punchamoorthee/ledgerview/internal/domain"

// TransactionPolicy authorizes actions on transactions. Visibility of a
// transaction follows the account it belongs to.
type TransactionPolicy struct {
	r        domain.Requester
	accounts AccountPolicy
}

// CanFindMany reports whether the requester may list transactions at all.
func (p TransactionPolicy) CanFindMany() bool {
	return p.r.HasPermission(domain.PermTransactionViewOwn)
}

// CanFindOne reports whether the requester may see t, given its owning account.
func (p TransactionPolicy) CanFindOne(t domain.Transaction, account domain.Account) bool {
	if t.AccountID != account.ID {
		return false
	}
	if !p.accounts.CanFindOne(account) {
		return false
	}
	if !account.OwnedBy(p.r) {
		return false
	}
	return p.r.HasPermission(domain.PermTransactionViewOwn)
}
