package http

import (
	"net/http"

	"openshelf-backend/internal/security"
	"openshelf-backend/internal/service"
)

type CirculationHandler struct {
	circSvc service.CirculationService
}

func NewCirculationHandler(circSvc service.CirculationService) *CirculationHandler {
	return &CirculationHandler{circSvc: circSvc}
}

// staffID resolves the acting staff member from the token.
func staffID(r *http.Request) (int32, bool) {
	claims, ok := claimsFrom(r.Context())
	if !ok || claims.StaffID == nil {
		return 0, false
	}
	return *claims.StaffID, true
}

func (h *CirculationHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CopyID   int32 `json:"copy_id"`
		PatronID int32 `json:"patron_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	staff, ok := staffID(r)
	if !ok {
		writeUnauthorized(w, "staff identity required")
		return
	}

	loan, err := h.circSvc.Checkout(r.Context(), req.CopyID, req.PatronID, staff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *CirculationHandler) Return(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid loan id")
		return
	}
	staff, ok := staffID(r)
	if !ok {
		writeUnauthorized(w, "staff identity required")
		return
	}

	loan, fine, err := h.circSvc.Return(r.Context(), loanID, staff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loan": loan, "fine": fine})
}

// Renew extends a loan. Staff renew any loan; a patron may only renew
// their own.
func (h *CirculationHandler) Renew(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid loan id")
		return
	}
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}

	if !claims.HasPermission(security.PermProcessCheckout) {
		if claims.PatronID == nil || !h.ownsLoan(r, *claims.PatronID, loanID) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"success":false,"message":"loan belongs to another patron"}`))
			return
		}
	}

	loan, err := h.circSvc.Renew(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *CirculationHandler) ownsLoan(r *http.Request, patronID, loanID int32) bool {
	loans, err := h.circSvc.ActiveLoans(r.Context(), patronID)
	if err != nil {
		return false
	}
	for _, l := range loans {
		if l.ID == loanID {
			return true
		}
	}
	return false
}

func (h *CirculationHandler) DeclareLost(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid loan id")
		return
	}
	var req struct {
		ReplacementCostCents int32 `json:"replacement_cost_cents"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	staff, ok := staffID(r)
	if !ok {
		writeUnauthorized(w, "staff identity required")
		return
	}

	loan, fine, err := h.circSvc.DeclareLost(r.Context(), loanID, staff, req.ReplacementCostCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loan": loan, "fine": fine})
}

func (h *CirculationHandler) PatronLoans(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}

	loans, err := h.circSvc.ActiveLoans(r.Context(), patronID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *CirculationHandler) OverdueLoans(w http.ResponseWriter, r *http.Request) {
	var branchID *int32
	if raw := queryInt32(r, "branch_id", 0); raw != 0 {
		branchID = &raw
	}

	loans, err := h.circSvc.OverdueLoans(r.Context(), branchID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}
