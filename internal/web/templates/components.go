// Package templates renders the HTML order list page as templ components.
//
// Components live in components.templ; run `templ generate` after editing it.
package templates

import (
	"fmt"

	"github.com/JonMunkholm/orderlist/internal/core"
)

// ColumnMeta describes a sortable table header.
type ColumnMeta struct {
	Key    string
	Label  string
	Active bool
	Dir    core.SortDirection
}

// PageData is everything the order list page renders.
type PageData struct {
	View          core.PageView
	Columns       []ColumnMeta
	Notifications []core.Notification
	Form          core.RecordForm
}

func pagerSummary(view core.PageView) string {
	return fmt.Sprintf("Page %d of %d, %d orders", view.Page, view.TotalPages, view.TotalRecords)
}

func selectionSummary(selected int) string {
	return fmt.Sprintf("%d selected", selected)
}

// cellText is the plain text of a column without special rendering.
func cellText(rec core.Record, key string) string {
	if def, ok := core.Column(key); ok {
		return def.Value(rec)
	}
	return ""
}
