package policy

import "github.com/punchamoorthee/ledgerview/internal/domain"

// AccountPolicy authorizes actions on accounts. It only looks at ownership
// and granted permissions, not at account state.
type AccountPolicy struct {
	r domain.Requester
}

// CanFindMany reports whether the requester may list accounts at all.
func (p AccountPolicy) CanFindMany() bool {
	return p.r.HasPermission(domain.PermAccountViewOwn)
}

// CanCreate reports whether the requester may open accounts.
func (p AccountPolicy) CanCreate() bool {
	return p.r.HasPermission(domain.PermAccountCreate)
}

// CanFindOne reports whether the requester may see a.
func (p AccountPolicy) CanFindOne(a domain.Account) bool {
	if !a.OwnedBy(p.r) {
		return false
	}
	return p.r.HasPermission(domain.PermAccountViewOwn)
}

// CanWithdraw reports whether the requester may withdraw from a.
func (p AccountPolicy) CanWithdraw(a domain.Account) bool {
	if !p.CanFindOne(a) {
		return false
	}
	if !a.OwnedBy(p.r) {
		return false
	}
	return p.r.HasPermission(domain.PermAccountWithdrawOwn)
}

// CanDeposit reports whether the requester may deposit into a.
func (p AccountPolicy) CanDeposit(a domain.Account) bool {
	if !p.CanFindOne(a) {
		return false
	}
	if !a.OwnedBy(p.r) {
		return false
	}
	return p.r.HasPermission(domain.PermAccountDepositOwn)
}
