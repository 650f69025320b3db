package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/orderlist/internal/core"
	mw "github.com/JonMunkholm/orderlist/internal/web/middleware"
)

type sessionKey struct{}

// withSession resolves the {sessionID} URL parameter and stores the session
// in the request context. Unknown or closed sessions end the request.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.service.Session(chi.URLParam(r, "sessionID"))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSessionContext(r.Context(), sess)))
	})
}

// withSessionContext attaches sess and its id for logging.
func withSessionContext(ctx context.Context, sess *core.Session) context.Context {
	mw.AnnotateSession(ctx, sess.ID)
	ctx = core.ContextWithSessionID(ctx, sess.ID)
	return context.WithValue(ctx, sessionKey{}, sess)
}

// sessionFrom returns the session stored by withSession or withUISession.
func sessionFrom(r *http.Request) *core.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*core.Session)
	return sess
}
