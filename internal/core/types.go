package core

import (
	"strings"
	"time"
)

// Status is the workflow state of an order record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusComplete   Status = "complete"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusComplete, StatusApproved, StatusRejected}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusComplete, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Label returns the human-readable status text.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusComplete:
		return "Complete"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// ParseStatus converts a string to a Status. Matching is case-insensitive.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// StatusFilterAll matches records of every status.
const StatusFilterAll = "all"

// Record is one row of the order list.
type Record struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Email        string    `json:"email"`
	Project      string    `json:"project"`
	Address      string    `json:"address"`
	AvatarRef    string    `json:"avatarRef"`
	DisplayDate  string    `json:"displayDate"` // "Just now", "5 minutes ago", "Yesterday", "Mar 4, 2026"...
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"` // real timestamp; the displayDate sort never reads it
}

// SortDirection is the direction of the single active sort column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection returns SortAsc for "asc" and SortDesc for anything else.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortSpec represents the active sort column and direction.
type SortSpec struct {
	Column string        `json:"column"`
	Dir    SortDirection `json:"dir"`
}

// DefaultSort is applied to new lists: most recent first.
var DefaultSort = SortSpec{Column: ColumnDisplayDate, Dir: SortDesc}

// QueryParams holds everything the query engine derives a view from.
type QueryParams struct {
	Search string   `json:"search"`
	Status string   `json:"status"` // "all" or a Status value
	Sort   SortSpec `json:"sort"`
}

// DefaultQueryParams returns the parameters of a freshly opened list.
func DefaultQueryParams() QueryParams {
	return QueryParams{Status: StatusFilterAll, Sort: DefaultSort}
}

// RecordForm carries the fields of the "add order" form.
type RecordForm struct {
	CustomerName string `json:"customerName" validate:"required"`
	Email        string `json:"email" validate:"required"`
	Project      string `json:"project" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Status       string `json:"status" validate:"omitempty,oneof=pending in-progress complete approved rejected"`
}

// PageView is an immutable snapshot of what the list currently shows.
type PageView struct {
	Records         []Record    `json:"records"`
	Page            int         `json:"page"`
	PageSize        int         `json:"pageSize"`
	TotalPages      int         `json:"totalPages"`
	TotalRecords    int         `json:"totalRecords"` // records in the view, not the dataset
	DatasetSize     int         `json:"datasetSize"`
	SelectedIDs     []string    `json:"selectedIds"`
	AllPageSelected bool        `json:"allPageSelected"`
	Loading         bool        `json:"loading"`
	Params          QueryParams `json:"params"`
}

// IsSelected reports whether id is in the snapshot's selection.
func (v PageView) IsSelected(id string) bool {
	for _, sel := range v.SelectedIDs {
		if sel == id {
			return true
		}
	}
	return false
}

// PageIDs returns the ids on the current page in display order.
func (v PageView) PageIDs() []string {
	return recordIDs(v.Records)
}
