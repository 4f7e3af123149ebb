package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/service"
)

type PatronHandler struct {
	patronSvc service.PatronService
}

func NewPatronHandler(patronSvc service.PatronService) *PatronHandler {
	return &PatronHandler{patronSvc: patronSvc}
}

func (h *PatronHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID             *int32                `json:"user_id,omitempty"`
		FirstName          string                `json:"first_name"`
		LastName           string                `json:"last_name"`
		Email              string                `json:"email"`
		Phone              string                `json:"phone"`
		Address            string                `json:"address"`
		DateOfBirth        string                `json:"date_of_birth,omitempty"`
		MembershipType     domain.MembershipType `json:"membership_type"`
		RegisteredBranchID int32                 `json:"registered_branch_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		writeBadRequest(w, "first_name, last_name and email are required")
		return
	}

	patron := &domain.Patron{
		UserID:             req.UserID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		MembershipType:     req.MembershipType,
		RegisteredBranchID: req.RegisteredBranchID,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeBadRequest(w, "date_of_birth must be YYYY-MM-DD")
			return
		}
		patron.DateOfBirth = &dob
	}

	if err := h.patronSvc.Register(r.Context(), patron); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, patron)
}

func (h *PatronHandler) Get(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}
	patron, err := h.patronSvc.Get(r.Context(), patronID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patron)
}

func (h *PatronHandler) GetByCardNumber(w http.ResponseWriter, r *http.Request) {
	card := mux.Vars(r)["card"]
	patron, err := h.patronSvc.GetByCardNumber(r.Context(), card)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patron)
}

func (h *PatronHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}
	var req struct {
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.patronSvc.UpdateContact(r.Context(), patronID, req.Email, req.Phone, req.Address); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "contact details updated")
}

func (h *PatronHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}
	if err := h.patronSvc.Suspend(r.Context(), patronID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "patron suspended")
}

func (h *PatronHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}
	if err := h.patronSvc.Reactivate(r.Context(), patronID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "patron reactivated")
}

func (h *PatronHandler) RenewMembership(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}
	patron, err := h.patronSvc.RenewMembership(r.Context(), patronID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patron)
}

func (h *PatronHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}
	stats, err := h.patronSvc.Statistics(r.Context(), patronID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
