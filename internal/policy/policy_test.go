package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/punchamoorthee/ledgerview/internal/domain"
)

func userID(id int64) *int64 { return &id }

var (
	owned   = domain.Account{ID: 1, Name: "Checking", OwnerID: 1}
	foreign = domain.Account{ID: 2, Name: "Theirs", OwnerID: 7}
)

func TestAccountPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		requester domain.Requester
		account   domain.Account
		want      [3]bool // find one, deposit, withdraw
	}{
		{
			name:      "owner with all grants",
			requester: domain.NewRequester(userID(1), domain.DemoGrants...),
			account:   owned,
			want:      [3]bool{true, true, true},
		},
		{
			name:      "non-owner with all grants",
			requester: domain.NewRequester(userID(1), domain.DemoGrants...),
			account:   foreign,
			want:      [3]bool{false, false, false},
		},
		{
			name:      "owner without view",
			requester: domain.NewRequester(userID(1), domain.PermAccountDepositOwn, domain.PermAccountWithdrawOwn),
			account:   owned,
			want:      [3]bool{false, false, false},
		},
		{
			name:      "owner with view and deposit only",
			requester: domain.NewRequester(userID(1), domain.PermAccountViewOwn, domain.PermAccountDepositOwn),
			account:   owned,
			want:      [3]bool{true, true, false},
		},
		{
			name:      "anonymous",
			requester: domain.NewRequester(nil, domain.DemoGrants...),
			account:   owned,
			want:      [3]bool{false, false, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := For(tt.requester).Account
			assert.Equal(t, tt.want[0], p.CanFindOne(tt.account), "find one")
			assert.Equal(t, tt.want[1], p.CanDeposit(tt.account), "deposit")
			assert.Equal(t, tt.want[2], p.CanWithdraw(tt.account), "withdraw")
		})
	}
}

func TestAccountPolicy_Collection(t *testing.T) {
	t.Parallel()

	full := For(domain.NewRequester(userID(1), domain.DemoGrants...)).Account
	assert.True(t, full.CanFindMany())
	assert.True(t, full.CanCreate())

	none := For(domain.NewRequester(userID(1))).Account
	assert.False(t, none.CanFindMany())
	assert.False(t, none.CanCreate())
}

func TestTransactionPolicy_CanFindOne(t *testing.T) {
	t.Parallel()

	p := For(domain.NewRequester(userID(1), domain.DemoGrants...)).Transaction
	tx := domain.Transaction{ID: 1, AccountID: owned.ID, Amount: 10}

	assert.True(t, p.CanFindMany())
	assert.True(t, p.CanFindOne(tx, owned))
	assert.False(t, p.CanFindOne(domain.Transaction{ID: 2, AccountID: foreign.ID}, foreign), "foreign account")
	assert.False(t, p.CanFindOne(tx, foreign), "account does not own the transaction")

	noTxView := For(domain.NewRequester(userID(1), domain.PermAccountViewOwn)).Transaction
	assert.False(t, noTxView.CanFindMany())
	assert.False(t, noTxView.CanFindOne(tx, owned))
}

func TestRedact(t *testing.T) {
	t.Parallel()

	rows := []domain.Account{owned, foreign, {ID: 3, OwnerID: 1}}
	p := For(domain.NewRequester(userID(1), domain.DemoGrants...)).Account

	nodes := Redact(rows, p.CanFindOne)

	assert.Len(t, nodes, len(rows), "positions are kept")
	assert.Equal(t, owned, *nodes[0])
	assert.Nil(t, nodes[1], "foreign row never leaks")
	assert.Equal(t, int64(3), nodes[2].ID)

	nodes[0].Balance = 99
	assert.Zero(t, rows[0].Balance, "nodes are copies")
}
