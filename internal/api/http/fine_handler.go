package http

import (
	"net/http"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/service"
)

type FineHandler struct {
	fineSvc service.FineService
}

func NewFineHandler(fineSvc service.FineService) *FineHandler {
	return &FineHandler{fineSvc: fineSvc}
}

func (h *FineHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatronID    int32           `json:"patron_id"`
		LoanID      *int32          `json:"loan_id,omitempty"`
		AmountCents int32           `json:"amount_cents"`
		Type        domain.FineType `json:"type"`
		Reason      string          `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AmountCents <= 0 {
		writeBadRequest(w, "amount_cents must be positive")
		return
	}
	if req.Type == "" {
		req.Type = domain.FineOther
	}

	fine, balance, err := h.fineSvc.Assess(r.Context(), req.PatronID, req.LoanID, req.AmountCents, req.Type, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"fine": fine, "balance_cents": balance})
}

func (h *FineHandler) Pay(w http.ResponseWriter, r *http.Request) {
	fineID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid fine id")
		return
	}
	var req struct {
		AmountCents int32                `json:"amount_cents"`
		Method      domain.PaymentMethod `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Method == "" {
		writeBadRequest(w, "payment method is required")
		return
	}

	fine, balance, err := h.fineSvc.Pay(r.Context(), fineID, req.AmountCents, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fine": fine, "balance_cents": balance})
}

func (h *FineHandler) Waive(w http.ResponseWriter, r *http.Request) {
	fineID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid fine id")
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Reason == "" {
		writeBadRequest(w, "a waive reason is required")
		return
	}
	staff, ok := staffID(r)
	if !ok {
		writeUnauthorized(w, "staff identity required")
		return
	}

	fine, balance, err := h.fineSvc.Waive(r.Context(), fineID, staff, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fine": fine, "balance_cents": balance})
}

func (h *FineHandler) PatronFines(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}
	status := domain.FineStatus(r.URL.Query().Get("status"))

	fines, err := h.fineSvc.List(r.Context(), patronID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fines)
}
