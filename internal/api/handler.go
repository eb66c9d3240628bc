package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/models"
	"github.com/punchamoorthee/ledgerview/internal/query"
	"github.com/punchamoorthee/ledgerview/internal/service"
	"github.com/punchamoorthee/ledgerview/pkg/ctxutil"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

const maxBodyBytes = 1 << 20

type accountService interface {
	List(ctx context.Context, opts query.Options) (service.AccountCollection, error)
	Get(ctx context.Context, id int64) (*service.AccountNode, error)
	Create(ctx context.Context, in service.CreateInput) (*service.AccountNode, error)
	Deposit(ctx context.Context, in service.EntryInput) (*service.AccountNode, error)
	Withdraw(ctx context.Context, in service.EntryInput) (*service.AccountNode, error)
	Reconcile(ctx context.Context, id int64) (service.Reconciliation, error)
	Transactions(ctx context.Context, id int64, opts query.Options) (service.TransactionCollection, error)
}

type transactionService interface {
	List(ctx context.Context, opts query.Options) (service.TransactionCollection, error)
	Get(ctx context.Context, id int64) (*service.TransactionNode, error)
}

type Handler struct {
	accounts     accountService
	transactions transactionService
	log          *slog.Logger
}

func NewHandler(log *slog.Logger, accounts accountService, transactions transactionService) *Handler {
	return &Handler{
		accounts:     accounts,
		transactions: transactions,
		log:          log.With("component", "api"),
	}
}

// respondWithServiceError maps domain error kinds onto HTTP statuses.
// Internal errors are logged and their message is not exposed.
func (h *Handler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		ferr *domain.ForbiddenError
	)
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: verr.Error(), Fields: verr.Errors})
	case errors.Is(err, domain.ErrBadRequest):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not Found")
	case errors.As(err, &ferr):
		respondWithError(w, http.StatusForbidden, ferr.Reason)
	case errors.Is(err, domain.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondWithError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		h.log.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// and reports false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) (bool, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("%w: malformed JSON body: %v", domain.ErrBadRequest, err)
	}
	return true, nil
}

// decodeQuery parses a query body. An empty body is an unconstrained query.
func decodeQuery(w http.ResponseWriter, r *http.Request) (query.Options, error) {
	var in models.QueryRequest
	ok, err := decodeJSON(w, r, &in)
	if err != nil {
		return query.Options{}, err
	}
	if !ok {
		return query.Options{}, nil
	}
	opts, err := query.Parse(&in)
	if err != nil {
		return query.Options{}, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	return opts, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, models.ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
