package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/punchamoorthee/ledgerview/internal/models"
	"github.com/punchamoorthee/ledgerview/internal/service"
)

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) QueryAccountsHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeQuery(w, r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	res, err := h.accounts.List(r.Context(), opts)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models.NewAccountCollection(res))
}

func (h *Handler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if _, err := decodeJSON(w, r, &req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	node, err := h.accounts.Create(r.Context(), service.CreateInput{
		Name:           req.Name,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/v1/accounts/%d", node.Account.ID))
	respondWithJSON(w, http.StatusCreated, models.NewAccountNode(node))
}

func (h *Handler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	node, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models.NewAccountNode(node))
}

func (h *Handler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.entry(w, r, h.accounts.Deposit)
}

func (h *Handler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.entry(w, r, h.accounts.Withdraw)
}

type entryFunc func(ctx context.Context, in service.EntryInput) (*service.AccountNode, error)

func (h *Handler) entry(w http.ResponseWriter, r *http.Request, apply entryFunc) {
	id, err := pathID(r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	var req models.EntryRequest
	if _, err := decodeJSON(w, r, &req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	node, err := apply(r.Context(), service.EntryInput{
		AccountID:   id,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models.NewAccountNode(node))
}

func (h *Handler) ReconcileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	rec, err := h.accounts.Reconcile(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

func (h *Handler) QueryAccountTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	opts, err := decodeQuery(w, r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	res, err := h.accounts.Transactions(r.Context(), id, opts)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models.NewTransactionCollection(res))
}

func (h *Handler) QueryTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := decodeQuery(w, r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	res, err := h.transactions.List(r.Context(), opts)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models.NewTransactionCollection(res))
}

func (h *Handler) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	node, err := h.transactions.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models.NewTransactionNode(node))
}
