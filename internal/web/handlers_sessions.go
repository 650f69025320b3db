package web

import (
	"net/http"

	"github.com/JonMunkholm/orderlist/internal/core"
	mw "github.com/JonMunkholm/orderlist/internal/web/middleware"
)

// handleCreateSession opens a list session. The list starts loading and
// fills once the seed delay elapses.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.service.NewSession(r.Context())
	mw.AnnotateSession(r.Context(), sess.ID)

	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, ViewResponse{
		SessionID: sess.ID,
		View:      sess.List.Snapshot(),
	})
}

// handleGetSession returns the current page view.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.writeView(w, http.StatusOK, sessionFrom(r))
}

// handleDeleteSession closes the session and cancels a pending seed.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.service.CloseSession(sess.ID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNotifications drains the session's pending notifications.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NotificationsResponse{
		Notifications: sessionFrom(r).Notifications.Drain(),
	})
}

func (s *Server) writeView(w http.ResponseWriter, status int, sess *core.Session) {
	writeJSON(w, status, ViewResponse{
		SessionID: sess.ID,
		View:      sess.List.Snapshot(),
	})
}
