package store

import "github.com/punchamoorthee/ledgerview/internal/domain"

// FixtureAccounts is the demo account set. Every balance equals the sum of
// that account's fixture transactions.
func FixtureAccounts() []domain.Account {
	return []domain.Account{
		{ID: 1, Name: "Checking", Balance: 5_000, OwnerID: domain.PublicUserID},
		{ID: 2, Name: "Savings", Balance: 15_000, OwnerID: domain.PublicUserID},
		{ID: 3, Name: "Term", Balance: 50_000, OwnerID: domain.PublicUserID},
		{ID: 4, Name: "Shares", Balance: 150_000, OwnerID: domain.PublicUserID},
		{ID: 5, Name: "Travel", Balance: 300, OwnerID: domain.PublicUserID},
	}
}

// FixtureTransactions is the demo transaction history.
func FixtureTransactions() []domain.Transaction {
	return []domain.Transaction{
		{ID: 1, AccountID: 1, Description: "Hartmann Payroll", Amount: 2_500},
		{ID: 2, AccountID: 1, Description: "Okafor & Sons", Amount: 1_000},
		{ID: 3, AccountID: 1, Description: "Bluewater Traders", Amount: 1_500},

		{ID: 4, AccountID: 2, Description: "Lindqvist Group", Amount: 2_500},
		{ID: 5, AccountID: 2, Description: "Marlow Holdings", Amount: 3_000},
		{ID: 6, AccountID: 2, Description: "Ferreira Logistics", Amount: 4_500},
		{ID: 7, AccountID: 2, Description: "Tanaka Industries", Amount: 5_000},

		{ID: 8, AccountID: 3, Description: "Northgate Capital", Amount: 40_000},
		{ID: 9, AccountID: 3, Description: "Quill Partners", Amount: 10_000},

		{ID: 10, AccountID: 4, Description: "Aster Equities", Amount: 100_000},
		{ID: 11, AccountID: 4, Description: "Brightline Funds", Amount: 50_000},

		{ID: 12, AccountID: 5, Description: "Coastal Airways", Amount: 300},
	}
}

// NextID returns one past the largest primary key in models, or 1.
func NextID[T Model](models []T) int64 {
	var top int64
	for _, m := range models {
		top = max(top, m.PrimaryKey())
	}
	return top + 1
}
