package web

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/orderlist/internal/core"
	"github.com/JonMunkholm/orderlist/internal/logging"
	"github.com/JonMunkholm/orderlist/internal/web/templates"
)

// withUISession resolves the session named by the page cookie. A missing or
// expired session is replaced by a new one, subject to the session create
// limit, and the cookie is reset.
func (s *Server) withUISession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			if sess, err := s.service.Session(c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(withSessionContext(r.Context(), sess)))
				return
			}
		}

		if s.createLimiter != nil {
			if ok, retry := s.createLimiter.allow(clientIP(r)); !ok {
				s.rejectRateLimited(w, r, retry)
				return
			}
		}

		sess := s.service.NewSession(r.Context())
		cookie := &http.Cookie{
			Name:     s.cfg.Session.CookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		if ttl := s.cfg.Session.TTL; ttl > 0 {
			cookie.MaxAge = int(ttl.Seconds())
		}
		http.SetCookie(w, cookie)
		next.ServeHTTP(w, r.WithContext(withSessionContext(r.Context(), sess)))
	})
}

// handleIndex renders the order list page and flushes pending toasts.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.renderPage(w, r, http.StatusOK, sess, core.RecordForm{})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, sess *core.Session, form core.RecordForm) {
	view := sess.List.Snapshot()
	data := templates.PageData{
		View:          view,
		Columns:       columnMeta(view.Params.Sort),
		Notifications: sess.Notifications.Drain(),
		Form:          form,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// redirectHome ends a form post with a redirect back to the page.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleUIQuery applies the toolbar's search text and status filter.
func (s *Server) handleUIQuery(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, core.ErrInvalidRequest)
		return
	}

	params := sess.List.Params()
	params.Search = r.PostForm.Get("search")
	if status := strings.TrimSpace(r.PostForm.Get("status")); status != "" {
		params.Status = status
	}
	sess.List.SetQuery(params)
	redirectHome(w, r)
}

// handleUISort handles a column header click.
func (s *Server) handleUISort(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.List.ClickSort(chi.URLParam(r, "column"))
	redirectHome(w, r)
}

// handleUIPage moves to the page named by the pager button.
func (s *Server) handleUIPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	page, err := parsePage(r.PostFormValue("page"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	sess.List.SetPage(page)
	redirectHome(w, r)
}

// handleUIToggle flips one row checkbox.
func (s *Server) handleUIToggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.List.Toggle(r.PostFormValue("id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	redirectHome(w, r)
}

// handleUIToggleAll flips the header checkbox.
func (s *Server) handleUIToggleAll(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.List.ToggleAll()
	redirectHome(w, r)
}

// handleUISubmit adds an order from the page form. Invalid input renders the
// page again with the form filled in and the error toast.
func (s *Server) handleUISubmit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, core.ErrInvalidRequest)
		return
	}

	form := core.RecordForm{
		CustomerName: r.PostForm.Get("customerName"),
		Email:        r.PostForm.Get("email"),
		Project:      r.PostForm.Get("project"),
		Address:      r.PostForm.Get("address"),
		Status:       r.PostForm.Get("status"),
	}
	if _, err := sess.List.Submit(form); err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			s.renderPage(w, r, http.StatusUnprocessableEntity, sess, form)
			return
		}
		s.respondError(w, r, err)
		return
	}
	redirectHome(w, r)
}
