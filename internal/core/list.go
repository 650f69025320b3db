package core

// list.go holds the state of one order list: the live dataset, the query
// parameters, the derived view, the current page and the selection.
//
// Every transition runs under a single mutex, so a recompute or an insertion
// is atomic relative to readers of the page. Any change to the dataset or to
// the query parameters recomputes the view and resets the page to 1; a page
// change alone never touches the view.

import (
	"slices"
	"sync"
	"time"
)

// Recompute triggers reported to ListObserver.
const (
	TriggerLoad   = "load"
	TriggerSearch = "search"
	TriggerStatus = "status"
	TriggerSort   = "sort"
	TriggerSubmit = "submit"
	TriggerQuery  = "query"
)

// ListObserver is told about recomputes and submissions. Metrics implements it.
type ListObserver interface {
	Recomputed(trigger string, viewSize int)
	Submitted(err error)
}

// ListOptions configures a new List. Zero values select defaults.
type ListOptions struct {
	PageSize int
	Notifier Notifier
	Observer ListObserver
	Now      func() time.Time
}

// List is the state of one order list. It is safe for concurrent use.
type List struct {
	mu sync.Mutex

	dataset   []Record
	params    QueryParams
	view      []Record
	page      int
	pageSize  int
	selection *Selection
	loading   bool
	closed    bool

	notifier Notifier
	observer ListObserver
	now      func() time.Time
}

// NewList returns an empty list in the loading state with default query
// parameters (all statuses, newest first).
func NewList(opts ListOptions) *List {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &List{
		dataset:   []Record{},
		params:    DefaultQueryParams(),
		view:      []Record{},
		page:      1,
		pageSize:  opts.PageSize,
		selection: NewSelection(),
		loading:   true,
		notifier:  opts.Notifier,
		observer:  opts.Observer,
		now:       opts.Now,
	}
}

// Load replaces the live dataset, typically with generated seed data, and
// ends the loading state.
func (l *List) Load(records []Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrSessionClosed
	}
	l.dataset = slices.Clone(records)
	l.loading = false
	l.selection.Clear()
	l.recomputeLocked(TriggerLoad)
	return nil
}

// SetSearch changes the search text.
func (l *List) SetSearch(search string) {
	l.update(TriggerSearch, func(p *QueryParams) { p.Search = search })
}

// SetStatusFilter changes the status filter ("all" or a status).
func (l *List) SetStatusFilter(status string) {
	l.update(TriggerStatus, func(p *QueryParams) { p.Status = status })
}

// SetSort sets the active sort column and direction.
func (l *List) SetSort(column string, dir SortDirection) {
	l.update(TriggerSort, func(p *QueryParams) { p.Sort = SortSpec{Column: column, Dir: dir} })
}

// ClickSort handles a click on a column header: the active column flips its
// direction, any other column becomes active in ascending order.
func (l *List) ClickSort(column string) {
	l.update(TriggerSort, func(p *QueryParams) {
		if p.Sort.Column == column {
			p.Sort.Dir = p.Sort.Dir.Flip()
			return
		}
		p.Sort = SortSpec{Column: column, Dir: SortAsc}
	})
}

// SetQuery replaces all query parameters at once. The view is recomputed only
// if something changed.
func (l *List) SetQuery(params QueryParams) {
	l.update(TriggerQuery, func(p *QueryParams) { *p = params })
}

// update applies fn to the query parameters and recomputes if they changed.
func (l *List) update(trigger string, fn func(*QueryParams)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	next := l.params
	fn(&next)
	if next == l.params {
		return
	}
	l.params = next
	l.recomputeLocked(trigger)
}

// recomputeLocked derives the view and resets the page. Caller holds l.mu.
func (l *List) recomputeLocked(trigger string) {
	l.view = Query(l.dataset, l.params)
	l.page = 1
	if l.observer != nil {
		l.observer.Recomputed(trigger, len(l.view))
	}
}

// SetPage moves to page n, clamped to the available pages, and returns the
// resulting page number. The view is not recomputed.
func (l *List) SetPage(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return l.page
	}
	l.page = ClampPage(n, TotalPages(len(l.view), l.pageSize))
	return l.page
}

// Toggle flips the selection of a record on the current page.
func (l *List) Toggle(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrSessionClosed
	}
	if !slices.Contains(l.pageIDsLocked(), id) {
		return ErrRecordNotOnPage
	}
	l.selection.Toggle(id)
	return nil
}

// ToggleAll selects every record of the current page, or clears the
// selection if the page is already fully selected.
func (l *List) ToggleAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.selection.ToggleAll(l.pageIDsLocked())
}

func (l *List) pageIDsLocked() []string {
	return recordIDs(Paginate(l.view, l.page, l.pageSize))
}

func recordIDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// Snapshot returns what the list currently shows.
func (l *List) Snapshot() PageView {
	l.mu.Lock()
	defer l.mu.Unlock()

	page := Paginate(l.view, l.page, l.pageSize)
	ids := recordIDs(page)
	return PageView{
		Records:         page,
		Page:            l.page,
		PageSize:        l.pageSize,
		TotalPages:      TotalPages(len(l.view), l.pageSize),
		TotalRecords:    len(l.view),
		DatasetSize:     len(l.dataset),
		SelectedIDs:     l.selection.IDs(),
		AllPageSelected: len(ids) > 0 && l.selection.AllSelected(ids),
		Loading:         l.loading,
		Params:          l.params,
	}
}

// Dataset returns a copy of the live dataset in stored order.
func (l *List) Dataset() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.dataset)
}

// View returns a copy of the full derived view.
func (l *List) View() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.view)
}

// Params returns the current query parameters.
func (l *List) Params() QueryParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params
}

// Loading reports whether seed data is still pending.
func (l *List) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Close tears the list down. Later loads and submissions fail with
// ErrSessionClosed; other transitions become no-ops.
func (l *List) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Closed reports whether Close was called.
func (l *List) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
