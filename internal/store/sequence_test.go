package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/punchamoorthee/ledgerview/internal/domain"
)

func TestSequence(t *testing.T) {
	t.Parallel()

	seq := NewSequence(13)
	assert.Equal(t, int64(13), seq.Next())
	assert.Equal(t, int64(14), seq.Next())

	seq.Reset(100)
	assert.Equal(t, int64(100), seq.Next())
}

func TestSequence_ConcurrentIDsAreUnique(t *testing.T) {
	t.Parallel()

	seq := NewSequence(1)
	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := seq.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 100)
	assert.Equal(t, int64(101), seq.Next())
}

func TestNextID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(6), NextID(FixtureAccounts()))
	assert.Equal(t, int64(13), NextID(FixtureTransactions()))
	assert.Equal(t, int64(1), NextID[domain.Account](nil))
}

func TestFixtures_BalancesMatchTransactions(t *testing.T) {
	t.Parallel()

	sums := make(map[int64]int64)
	for _, tx := range FixtureTransactions() {
		sums[tx.AccountID] += tx.Amount
	}
	for _, a := range FixtureAccounts() {
		assert.Equal(t, a.Balance, sums[a.ID], "account %d", a.ID)
	}
	assert.Empty(t, FixtureSeed().Orphans())
}
