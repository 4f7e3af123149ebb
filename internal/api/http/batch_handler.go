package http

import (
	"net/http"
	"time"

	"openshelf-backend/internal/service"
)

// BatchHandler exposes the sweeps as staff endpoints so operations can run
// them outside the nightly schedule.
type BatchHandler struct {
	batchSvc  service.BatchService
	reportSvc service.ReportService
}

func NewBatchHandler(batchSvc service.BatchService, reportSvc service.ReportService) *BatchHandler {
	return &BatchHandler{batchSvc: batchSvc, reportSvc: reportSvc}
}

func (h *BatchHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	count, err := h.batchSvc.MarkOverdueLoans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"loans_marked": count})
}

func (h *BatchHandler) OverdueReminders(w http.ResponseWriter, r *http.Request) {
	count, err := h.batchSvc.SendOverdueReminders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"patrons_reminded": count})
}

func (h *BatchHandler) ExpireReservations(w http.ResponseWriter, r *http.Request) {
	count, err := h.batchSvc.ExpireReservations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"holds_expired": count})
}

func (h *BatchHandler) ExpireMemberships(w http.ResponseWriter, r *http.Request) {
	count, err := h.batchSvc.ExpireMemberships(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"patrons_expired": count})
}

// DailyReport returns the circulation summary for one day; the day defaults
// to today and branch_id scopes the report when given.
func (h *BatchHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeBadRequest(w, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	var branchID *int32
	if raw := queryInt32(r, "branch_id", 0); raw != 0 {
		branchID = &raw
	}

	report, err := h.reportSvc.DailyCirculation(r.Context(), branchID, day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
