package domain

import (
	"github.com/punchamoorthee/ledgerview/internal/query"
)

// Account represents a user's balance in the ledger.
type Account struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
	OwnerID int64  `json:"owner_id"`
}

// PrimaryKey returns the account id.
func (a Account) PrimaryKey() int64 { return a.ID }

// Attribute exposes account fields to the query engine by their wire names.
func (a Account) Attribute(field string) query.Value {
	switch field {
	case "id":
		return query.Int(a.ID)
	case "name":
		return query.Text(a.Name)
	case "balance":
		return query.Int(a.Balance)
	case "owner_id":
		return query.Int(a.OwnerID)
	}
	return query.Absent()
}

// OwnedBy reports whether the requester owns the account.
func (a Account) OwnedBy(r Requester) bool {
	id, ok := r.UserID()
	return ok && id == a.OwnerID
}

// Transaction is the immutable record of a single balance change.
// Positive amounts are deposits, negative amounts withdrawals.
type Transaction struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	AccountID   int64  `json:"account_id"`
}

// PrimaryKey returns the transaction id.
func (t Transaction) PrimaryKey() int64 { return t.ID }

// Attribute exposes transaction fields to the query engine by their wire names.
func (t Transaction) Attribute(field string) query.Value {
	switch field {
	case "id":
		return query.Int(t.ID)
	case "description":
		return query.Text(t.Description)
	case "amount":
		return query.Int(t.Amount)
	case "account_id":
		return query.Int(t.AccountID)
	}
	return query.Absent()
}
