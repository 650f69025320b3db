package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/orderlist/internal/core"
)

// handleSetQuery merges search, status filter and sort into the session's
// query. Omitted fields keep their current value.
func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess := sessionFrom(r)
	sess.List.SetQuery(req.apply(sess.List.Params()))
	s.writeView(w, http.StatusOK, sess)
}

// handleClickSort behaves like a click on a column header.
func (s *Server) handleClickSort(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.List.ClickSort(chi.URLParam(r, "column"))
	s.writeView(w, http.StatusOK, sess)
}

// handleSetPage moves to a page, clamped to the available range.
func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess := sessionFrom(r)
	sess.List.SetPage(req.Page)
	s.writeView(w, http.StatusOK, sess)
}

// handleToggle flips one record's selection.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess := sessionFrom(r)
	if err := sess.List.Toggle(req.ID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeView(w, http.StatusOK, sess)
}

// handleToggleAll selects or clears the whole current page.
func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.List.ToggleAll()
	s.writeView(w, http.StatusOK, sess)
}

// handleSubmit adds a record from the JSON form body.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var form core.RecordForm
	if err := decodeJSON(w, r, &form); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess := sessionFrom(r)
	rec, err := sess.List.Submit(form)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitResponse{
		Record: rec,
		View:   sess.List.Snapshot(),
	})
}
