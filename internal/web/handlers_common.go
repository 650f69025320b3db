package web

// handlers_common.go holds request parsing, response helpers and the JSON
// request and response types shared by the handlers.

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/JonMunkholm/orderlist/internal/core"
	"github.com/JonMunkholm/orderlist/internal/web/templates"
)

// MaxBodySize is the maximum accepted JSON request body (64KB).
const MaxBodySize = 64 * 1024

// parsePage parses a 1-based page number from a form or query value.
func parsePage(val string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, errors.Wrap(core.ErrInvalidPage, "parse page")
	}
	return n, nil
}

// decodeJSON reads a JSON request body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.Wrap(core.ErrInvalidRequest, "empty body")
		}
		return errors.Wrapf(core.ErrInvalidRequest, "decode body: %v", err)
	}
	return nil
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// columnMeta builds the header metadata for the visible columns.
func columnMeta(sort core.SortSpec) []templates.ColumnMeta {
	active, _ := core.Column(sort.Column)
	return lo.FilterMap(visibleColumns, func(key string, _ int) (templates.ColumnMeta, bool) {
		def, ok := core.Column(key)
		if !ok {
			return templates.ColumnMeta{}, false
		}
		return templates.ColumnMeta{
			Key:    def.Key,
			Label:  def.Label,
			Active: def.Key == active.Key,
			Dir:    sort.Dir,
		}, true
	})
}

// visibleColumns are the table columns of the HTML page in display order.
var visibleColumns = []string{
	core.ColumnID,
	core.ColumnCustomerName,
	core.ColumnProject,
	core.ColumnAddress,
	core.ColumnDisplayDate,
	core.ColumnStatus,
}

// ViewResponse wraps a page view for JSON encoding.
type ViewResponse struct {
	SessionID string        `json:"sessionId"`
	View      core.PageView `json:"view"`
}

// SubmitResponse is returned after a record is added.
type SubmitResponse struct {
	Record core.Record   `json:"record"`
	View   core.PageView `json:"view"`
}

// NotificationsResponse holds drained notifications.
type NotificationsResponse struct {
	Notifications []core.Notification `json:"notifications"`
}

// QueryRequest updates some or all query parameters. Nil fields keep their value.
type QueryRequest struct {
	Search *string        `json:"search"`
	Status *string        `json:"status"`
	Sort   *core.SortSpec `json:"sort"`
}

// apply merges the request into params.
func (q QueryRequest) apply(params core.QueryParams) core.QueryParams {
	if q.Search != nil {
		params.Search = *q.Search
	}
	if q.Status != nil {
		params.Status = *q.Status
	}
	if q.Sort != nil {
		params.Sort = core.SortSpec{Column: q.Sort.Column, Dir: core.ParseSortDirection(string(q.Sort.Dir))}
	}
	return params
}

// PageRequest moves to a page.
type PageRequest struct {
	Page int `json:"page"`
}

// ToggleRequest toggles one record's selection.
type ToggleRequest struct {
	ID string `json:"id"`
}
