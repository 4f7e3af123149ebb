package http

import (
	"net/http"

	"openshelf-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}

	notifications, total, err := h.noteSvc.GetNotifications(r.Context(), claims.UserID,
		queryInt32(r, "page", 1), queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications, "total": total})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}
	notificationID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid notification id")
		return
	}

	if err := h.noteSvc.MarkAsRead(r.Context(), claims.UserID, notificationID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "notification marked as read")
}
