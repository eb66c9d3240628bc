package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/punchamoorthee/ledgerview/internal/domain"
)

// NewRouter wires the handler into a mux router. Every /api/v1 request
// carries a requester built from grants.
func NewRouter(h *Handler, log *slog.Logger, grants []domain.Permission) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Recovery(log), Observe(log))

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheckHandler).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(Requester(grants))

	v1.HandleFunc("/accounts", h.CreateAccountHandler).Methods(http.MethodPost)
	v1.HandleFunc("/accounts/query", h.QueryAccountsHandler).Methods(http.MethodPost)
	v1.HandleFunc("/accounts/{id:[0-9]+}", h.GetAccountHandler).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{id:[0-9]+}/deposit", h.DepositHandler).Methods(http.MethodPost)
	v1.HandleFunc("/accounts/{id:[0-9]+}/withdraw", h.WithdrawHandler).Methods(http.MethodPost)
	v1.HandleFunc("/accounts/{id:[0-9]+}/reconcile", h.ReconcileHandler).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{id:[0-9]+}/transactions/query", h.QueryAccountTransactionsHandler).Methods(http.MethodPost)
	v1.HandleFunc("/transactions/query", h.QueryTransactionsHandler).Methods(http.MethodPost)
	v1.HandleFunc("/transactions/{id:[0-9]+}", h.GetTransactionHandler).Methods(http.MethodGet)

	return r
}
