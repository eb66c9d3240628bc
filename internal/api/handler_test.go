package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/models"
	"github.com/punchamoorthee/ledgerview/internal/query"
	"github.com/punchamoorthee/ledgerview/internal/service"
	"github.com/punchamoorthee/ledgerview/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, grants ...domain.Permission) http.Handler {
	t.Helper()
	if len(grants) == 0 {
		grants = domain.DemoGrants
	}
	log := discard()
	seed := store.FixtureSeed()
	accounts := store.NewRepository(log, seed.Accounts)
	txs := store.NewRepository(log, seed.Transactions)
	ledger := service.NewLedgerService(log, accounts, txs,
		store.NewSequence(store.NextID(seed.Accounts)),
		store.NewSequence(store.NextID(seed.Transactions)),
		store.NewLocker(),
	)
	h := NewHandler(log,
		service.NewAccountService(log, accounts, txs, ledger),
		service.NewTransactionService(log, accounts, txs),
	)
	return NewRouter(h, log, grants)
}

func do(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if user != "" {
		req.Header.Set("X-User-Id", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}

func TestQueryAccounts(t *testing.T) {
	t.Parallel()

	body := `{"sorts":[{"field":"balance","dir":"Desc"}],"limit":2,"offset":2}`
	rec := do(t, newTestRouter(t), http.MethodPost, "/api/v1/accounts/query", "1", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[models.AccountCollection](t, rec)
	require.Len(t, res.Nodes, 2)
	assert.Equal(t, int64(2), res.Nodes[0].Data.ID)
	assert.Equal(t, int64(1), res.Nodes[1].Data.ID)
	assert.Equal(t, models.AccountCan{Show: true, Withdraw: true, Deposit: true}, res.Nodes[0].Can)
	assert.Equal(t, query.PageInfo{Page: 2, Pages: 3, Count: 2, Total: 5, More: true}, res.PageInfo)
	assert.True(t, res.Can.Show)
}

func TestQueryAccounts_EmptyBody(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodPost, "/api/v1/accounts/query", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[models.AccountCollection](t, rec).Nodes, 5)
}

func TestQueryAccounts_ForeignRowsAreNull(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodPost, "/api/v1/accounts/query", "42", `{"limit":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Nodes, 2)
	assert.Equal(t, "null", string(raw.Nodes[0]))
	assert.NotContains(t, rec.Body.String(), "Checking")
}

func TestQueryAccounts_TextFilter(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodPost, "/api/v1/accounts/query", "1", `{"filters":{"name":"SAV","owner_id":[1]}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[models.AccountCollection](t, rec)
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, "Savings", res.Nodes[0].Data.Name)
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		grants   []domain.Permission
		method   string
		path     string
		user     string
		body     string
		wantCode int
		wantBody string
	}{
		{name: "malformed json", method: http.MethodPost, path: "/api/v1/accounts/query", user: "1", body: `{`, wantCode: http.StatusBadRequest},
		{name: "bad direction", method: http.MethodPost, path: "/api/v1/accounts/query", user: "1", body: `{"sorts":[{"field":"id","dir":"up"}]}`, wantCode: http.StatusBadRequest},
		{name: "negative limit", method: http.MethodPost, path: "/api/v1/transactions/query", user: "1", body: `{"limit":-1}`, wantCode: http.StatusBadRequest},
		{name: "bad user header", method: http.MethodGet, path: "/api/v1/accounts/1", user: "abc", wantCode: http.StatusBadRequest},
		{name: "foreign account", method: http.MethodGet, path: "/api/v1/accounts/1", user: "42", wantCode: http.StatusNotFound},
		{name: "missing account", method: http.MethodGet, path: "/api/v1/accounts/99", user: "1", wantCode: http.StatusNotFound},
		{name: "foreign transaction", method: http.MethodGet, path: "/api/v1/transactions/1", user: "42", wantCode: http.StatusNotFound},
		{name: "zero amount", method: http.MethodPost, path: "/api/v1/accounts/1/deposit", user: "1", body: `{"amount":0}`, wantCode: http.StatusBadRequest, wantBody: `"field":"amount"`},
		{
			name:     "no list grant",
			grants:   []domain.Permission{domain.PermTransactionViewOwn},
			method:   http.MethodPost,
			path:     "/api/v1/accounts/query",
			user:     "1",
			wantCode: http.StatusForbidden,
			wantBody: "Cannot Find Accounts",
		},
		{
			name:     "no withdraw grant",
			grants:   []domain.Permission{domain.PermAccountViewOwn},
			method:   http.MethodPost,
			path:     "/api/v1/accounts/1/withdraw",
			user:     "1",
			body:     `{"amount":5}`,
			wantCode: http.StatusForbidden,
		},
		{name: "non-numeric id", method: http.MethodGet, path: "/api/v1/accounts/abc", user: "1", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, newTestRouter(t, tt.grants...), tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDepositWithdrawReconcile(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/accounts/1/deposit", "1", `{"amount":100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(5100), decode[models.AccountNode](t, rec).Data.Balance)

	rec = do(t, h, http.MethodPost, "/api/v1/accounts/1/withdraw", "1", `{"amount":30,"description":"ATM"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5070), decode[models.AccountNode](t, rec).Data.Balance)

	rec = do(t, h, http.MethodGet, "/api/v1/accounts/1/reconcile", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	r := decode[service.Reconciliation](t, rec)
	assert.True(t, r.Consistent)
	assert.Equal(t, int64(5070), r.Sum)
	assert.Equal(t, 5, r.Transactions)

	rec = do(t, h, http.MethodPost, "/api/v1/accounts/1/transactions/query", "1", `{"sorts":[{"field":"id","dir":"Desc"}],"limit":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	txs := decode[models.TransactionCollection](t, rec)
	require.Len(t, txs.Nodes, 1)
	assert.Equal(t, "ATM", txs.Nodes[0].Data.Description)
	assert.Equal(t, int64(-30), txs.Nodes[0].Data.Amount)
}

func TestCreateAccount(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, "/api/v1/accounts", "9", `{"name":"Holiday","opening_balance":75}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/v1/accounts/6", rec.Header().Get("Location"))

	node := decode[models.AccountNode](t, rec)
	assert.Equal(t, domain.Account{ID: 6, Name: "Holiday", Balance: 75, OwnerID: 9}, node.Data)

	rec = do(t, h, http.MethodGet, "/api/v1/accounts/6", "9", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/accounts", "", `{"name":"Anon"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetTransaction(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodGet, "/api/v1/transactions/12", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	node := decode[models.TransactionNode](t, rec)
	assert.Equal(t, "Coastal Airways", node.Data.Description)
	require.NotNil(t, node.Account)
	assert.Equal(t, "Travel", node.Account.Data.Name)
	assert.True(t, node.Can.Show)
}

func TestQueryTransactions(t *testing.T) {
	t.Parallel()

	body := `{"filters":{"description":"cap"},"sorts":[{"field":"amount","dir":"Asc"}]}`
	rec := do(t, newTestRouter(t), http.MethodPost, "/api/v1/transactions/query", "1", body)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[models.TransactionCollection](t, rec)
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, "Northgate Capital", res.Nodes[0].Data.Description)
	assert.Equal(t, 1, res.PageInfo.Total)
}

type failingAccounts struct {
	accountService
	err   error
	panic bool
}

func (f failingAccounts) Get(context.Context, int64) (*service.AccountNode, error) {
	if f.panic {
		panic("boom")
	}
	return nil, f.err
}

func TestInternalErrorsAreHidden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		svc     failingAccounts
		wantMsg string
	}{
		{name: "error", svc: failingAccounts{err: errors.New("index at 3 points at 4")}, wantMsg: "Internal Server Error"},
		{name: "invariant", svc: failingAccounts{err: domain.ErrInternal}, wantMsg: "Internal Server Error"},
		{name: "panic", svc: failingAccounts{panic: true}, wantMsg: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(discard(), tt.svc, nil)
			router := NewRouter(h, discard(), domain.DemoGrants)

			rec := do(t, router, http.MethodGet, "/api/v1/accounts/1", "1", "")
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.wantMsg, decode[models.ErrorResponse](t, rec).Error)
			assert.NotContains(t, rec.Body.String(), "index at")
		})
	}
}
