package models

import (
	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/query"
	"github.com/punchamoorthee/ledgerview/internal/service"
)

// QueryRequest is the body of every */query endpoint.
type QueryRequest = query.Input

// AccountCan lists what the requester may do with an account.
type AccountCan struct {
	Show     bool `json:"show"`
	Withdraw bool `json:"withdraw"`
	Deposit  bool `json:"deposit"`
}

// ShowCan is the capability set for read-only nodes and collections.
type ShowCan struct {
	Show bool `json:"show"`
}

// AccountNode is the wire shape of a visible account.
type AccountNode struct {
	Data domain.Account `json:"data"`
	Can  AccountCan     `json:"can"`
}

// TransactionNode is the wire shape of a visible transaction. Account is
// null when the owning account is not visible.
type TransactionNode struct {
	Data    domain.Transaction `json:"data"`
	Account *AccountNode       `json:"account"`
	Can     ShowCan            `json:"can"`
}

// AccountCollection is a page of accounts. Hidden rows are null.
type AccountCollection struct {
	Nodes    []*AccountNode `json:"nodes"`
	PageInfo query.PageInfo `json:"pageInfo"`
	Can      ShowCan        `json:"can"`
}

// TransactionCollection is a page of transactions. Hidden rows are null.
type TransactionCollection struct {
	Nodes    []*TransactionNode `json:"nodes"`
	PageInfo query.PageInfo     `json:"pageInfo"`
	Can      ShowCan            `json:"can"`
}

// EntryRequest is the payload for deposits and withdrawals.
type EntryRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// CreateAccountRequest is the payload for opening an account.
type CreateAccountRequest struct {
	Name           string `json:"name"`
	OpeningBalance int64  `json:"opening_balance"`
}

// ErrorResponse is the canonical error body.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// NewAccountNode converts a service node to its wire shape.
func NewAccountNode(n *service.AccountNode) *AccountNode {
	if n == nil {
		return nil
	}
	return &AccountNode{
		Data: n.Account,
		Can: AccountCan{
			Show:     n.Can.Show,
			Withdraw: n.Can.Withdraw,
			Deposit:  n.Can.Deposit,
		},
	}
}

// NewTransactionNode converts a service node to its wire shape.
func NewTransactionNode(n *service.TransactionNode) *TransactionNode {
	if n == nil {
		return nil
	}
	return &TransactionNode{
		Data:    n.Transaction,
		Account: NewAccountNode(n.Account),
		Can:     ShowCan{Show: n.CanShow},
	}
}

// NewAccountCollection converts a service collection to its wire shape.
func NewAccountCollection(c service.AccountCollection) AccountCollection {
	nodes := make([]*AccountNode, len(c.Nodes))
	for i, n := range c.Nodes {
		nodes[i] = NewAccountNode(n)
	}
	return AccountCollection{
		Nodes:    nodes,
		PageInfo: c.PageInfo,
		Can:      ShowCan{Show: c.CanShow},
	}
}

// NewTransactionCollection converts a service collection to its wire shape.
func NewTransactionCollection(c service.TransactionCollection) TransactionCollection {
	nodes := make([]*TransactionNode, len(c.Nodes))
	for i, n := range c.Nodes {
		nodes[i] = NewTransactionNode(n)
	}
	return TransactionCollection{
		Nodes:    nodes,
		PageInfo: c.PageInfo,
		Can:      ShowCan{Show: c.CanShow},
	}
}
