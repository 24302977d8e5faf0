package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/api/dto"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
)

type NotificationHandler struct {
	Repo     ports.NotificationRepository
	Notifier ports.Notifier
	Log      *zap.Logger
}

// List handles GET /api/notifications. The caller only ever sees their own
// inbox; ?unread=true narrows to unread rows.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := h.Repo.ListByUser(r.Context(), id.UserID, unreadOnly, limit)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		res = append(res, dto.NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			RelatedID: n.RelatedID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok {
		return
	}

	if err := h.Repo.MarkRead(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllRead handles POST /api/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok {
		return
	}

	updated, err := h.Repo.MarkAllRead(r.Context(), id.UserID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusOK, dto.MarkAllReadResponse{Updated: updated})
}

// Send handles POST /api/notifications/send, an admin broadcast to one user.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionNotificationSend) {
		return
	}

	var req dto.SendNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.UserID == "" || req.Title == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "user_id and title are required")
		return
	}

	n := &domain.Notification{
		ID:      uuid.NewString(),
		UserID:  req.UserID,
		Type:    domain.NotifySystem,
		Title:   req.Title,
		Message: req.Message,
	}
	if err := h.Repo.Create(r.Context(), n); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	if err := h.Notifier.Send(r.Context(), n.UserID, n.Title, n.Message); err != nil {
		h.Log.Warn("notifier send failed", zap.String("user_id", n.UserID), zap.Error(err))
	}

	writeData(w, r, h.Log, http.StatusCreated, dto.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	})
}
