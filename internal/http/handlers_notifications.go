package http

import (
	"net/http"

	"saldo/internal/storage"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := s.store.ListNotifications(r.Context(), unreadOnly)
	if err != nil {
		writeStoreError(w, r, err, "list notifications failed")
		return
	}
	if notifications == nil {
		notifications = []storage.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkNotificationRead(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err, "mark notification read failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
