package http

import (
	"net/http"

	"openshelf-backend/internal/security"
	"openshelf-backend/internal/service"
)

type ReservationHandler struct {
	resSvc service.ReservationService
}

func NewReservationHandler(resSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{resSvc: resSvc}
}

// Place puts a hold on a material. A patron holds for themselves; staff
// with hold management may hold on a patron's behalf.
func (h *ReservationHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MaterialID int32 `json:"material_id"`
		PatronID   int32 `json:"patron_id,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}

	patronID := req.PatronID
	if !claims.HasPermission(security.PermManageHolds) {
		if claims.PatronID == nil {
			writeUnauthorized(w, "no patron record linked to this account")
			return
		}
		patronID = *claims.PatronID
	}
	if patronID == 0 {
		writeBadRequest(w, "patron_id is required")
		return
	}

	res, err := h.resSvc.Place(r.Context(), req.MaterialID, patronID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	reservationID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid reservation id")
		return
	}
	var req struct {
		CopyID int32 `json:"copy_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	staff, ok := staffID(r)
	if !ok {
		writeUnauthorized(w, "staff identity required")
		return
	}

	res, err := h.resSvc.Fulfill(r.Context(), reservationID, req.CopyID, staff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Cancel terminates a hold. Patrons cancel their own; staff supply the
// owning patron explicitly.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservationID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid reservation id")
		return
	}
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}

	var patronID int32
	if claims.PatronID != nil {
		patronID = *claims.PatronID
	}
	if claims.HasPermission(security.PermManageHolds) {
		var req struct {
			PatronID int32 `json:"patron_id"`
		}
		if decodeBody(w, r, &req) {
			patronID = req.PatronID
		} else {
			return
		}
	}
	if patronID == 0 {
		writeBadRequest(w, "patron_id is required")
		return
	}

	res, err := h.resSvc.Cancel(r.Context(), reservationID, patronID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Position(w http.ResponseWriter, r *http.Request) {
	reservationID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid reservation id")
		return
	}

	rank, err := h.resSvc.Position(r.Context(), reservationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"position": rank})
}

func (h *ReservationHandler) PatronReservations(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid patron id")
		return
	}

	reservations, err := h.resSvc.ListByPatron(r.Context(), patronID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *ReservationHandler) MaterialQueue(w http.ResponseWriter, r *http.Request) {
	materialID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid material id")
		return
	}

	queue, err := h.resSvc.Queue(r.Context(), materialID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queue)
}
