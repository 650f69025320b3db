package core

// query.go derives the filtered, sorted view of the live dataset.
//
// The comparator is:
//
//	asc:  a > b ? 1 : -1
//	desc: a < b ? 1 : -1
//
// There is no equal branch, so ties are not totally ordered and their
// relative order depends on the sort algorithm. Date-like columns are parsed
// from their display text; text such as "Just now" or "5 minutes ago" does not
// parse and becomes NaN, which compares false in both directions.

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

var nan = math.NaN()

// sortKey is a comparable value extracted from a record for one column.
type sortKey struct {
	num     float64
	str     string
	numeric bool
}

func numKey(f float64) sortKey { return sortKey{num: f, numeric: true} }
func strKey(s string) sortKey  { return sortKey{str: s} }

func (k sortKey) greater(o sortKey) bool {
	if k.numeric {
		return k.num > o.num
	}
	return k.str > o.str
}

func (k sortKey) less(o sortKey) bool {
	if k.numeric {
		return k.num < o.num
	}
	return k.str < o.str
}

// displayDateLayouts are the calendar formats a display date may carry.
var displayDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	"01/02/2006",
	time.RFC3339,
}

// ParseDisplayDate parses a display date as a calendar date.
// Relative text ("Just now", "3 hours ago", "Yesterday") is not a date and
// returns false.
func ParseDisplayDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range displayDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// keyFor extracts the sort key of r for the given column.
func keyFor(def ColumnDefinition, r Record) sortKey {
	if def.Sorted != nil {
		return def.Sorted(r)
	}
	if def.Kind == ColumnDate {
		t, ok := ParseDisplayDate(def.Value(r))
		if !ok {
			return numKey(nan)
		}
		return numKey(float64(t.UnixMilli()))
	}
	return strKey(def.Value(r))
}

// compareKeys implements the list comparator. It never returns 0.
func compareKeys(a, b sortKey, dir SortDirection) int {
	if dir == SortAsc {
		if a.greater(b) {
			return 1
		}
		return -1
	}
	if a.less(b) {
		return 1
	}
	return -1
}

// MatchesSearch reports whether r contains search (case-insensitive) in any
// of its searchable fields. An empty search matches everything.
func MatchesSearch(r Record, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return lo.SomeBy([]string{r.CustomerName, r.Email, r.Project, r.ID, r.Address}, func(field string) bool {
		return strings.Contains(strings.ToLower(field), q)
	})
}

// MatchesStatus reports whether r passes the status filter. "all", the empty
// string and unrecognized values let every record through.
func MatchesStatus(r Record, filter string) bool {
	st, ok := ParseStatus(filter)
	if !ok {
		return true
	}
	return r.Status == st
}

// Query returns a new slice holding the records of dataset that match params,
// ordered by the active sort column. The dataset is not modified.
// An unknown sort column leaves the filtered records in dataset order.
func Query(dataset []Record, params QueryParams) []Record {
	view := lo.Filter(dataset, func(r Record, _ int) bool {
		return MatchesSearch(r, params.Search) && MatchesStatus(r, params.Status)
	})

	def, ok := Column(params.Sort.Column)
	if !ok {
		return view
	}

	dir := params.Sort.Dir
	if dir != SortAsc {
		dir = SortDesc
	}

	type keyed struct {
		rec Record
		key sortKey
	}
	rows := lo.Map(view, func(r Record, _ int) keyed {
		return keyed{rec: r, key: keyFor(def, r)}
	})

	slices.SortStableFunc(rows, func(a, b keyed) int {
		return compareKeys(a.key, b.key, dir)
	})
	return lo.Map(rows, func(k keyed, _ int) Record { return k.rec })
}
