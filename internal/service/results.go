package service

import (
	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/query"
)

// AccountActions are the per-node capability flags shown to the requester.
type AccountActions struct {
	Show     bool
	Withdraw bool
	Deposit  bool
}

// AccountNode is a visible account with its capability flags.
type AccountNode struct {
	Account domain.Account
	Can     AccountActions
}

// AccountCollection is a page of accounts. Nodes hidden from the requester
// are nil and keep their position.
type AccountCollection struct {
	Nodes    []*AccountNode
	PageInfo query.PageInfo
	CanShow  bool
}

// TransactionNode is a visible transaction. Account is nil when the owning
// account cannot be resolved for the requester.
type TransactionNode struct {
	Transaction domain.Transaction
	Account     *AccountNode
	CanShow     bool
}

// TransactionCollection is a page of transactions.
type TransactionCollection struct {
	Nodes    []*TransactionNode
	PageInfo query.PageInfo
	CanShow  bool
}
