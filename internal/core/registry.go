package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ColumnKind determines how a column's values are compared when sorting.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnDate            // display string parsed as a calendar date
	ColumnTime            // real timestamp
)

// Built-in column keys.
const (
	ColumnID           = "id"
	ColumnCustomerName = "customerName"
	ColumnEmail        = "email"
	ColumnProject      = "project"
	ColumnAddress      = "address"
	ColumnStatus       = "status"
	ColumnDisplayDate  = "displayDate"
	ColumnCreatedAt    = "createdAt"
)

// ColumnDefinition describes a sortable column of the order list.
type ColumnDefinition struct {
	Key     string
	Label   string
	Aliases []string
	Kind    ColumnKind
	Value   func(Record) string
	Sorted  func(Record) sortKey // optional override for non-text kinds
}

var (
	columns   = make(map[string]ColumnDefinition)
	aliases   = make(map[string]string)
	columnsMu sync.RWMutex
)

// RegisterColumn adds a column definition to the registry.
// Panics if the key or one of its aliases is already registered.
func RegisterColumn(def ColumnDefinition) {
	columnsMu.Lock()
	defer columnsMu.Unlock()

	names := append([]string{def.Key}, def.Aliases...)
	for _, name := range names {
		k := strings.ToLower(name)
		if _, exists := aliases[k]; exists {
			panic(fmt.Sprintf("column already registered: %s", name))
		}
	}
	for _, name := range names {
		aliases[strings.ToLower(name)] = def.Key
	}
	columns[def.Key] = def
}

// Column returns a column definition by key or alias (case-insensitive).
// Returns false if not found.
func Column(name string) (ColumnDefinition, bool) {
	columnsMu.RLock()
	defer columnsMu.RUnlock()

	key, ok := aliases[strings.ToLower(name)]
	if !ok {
		return ColumnDefinition{}, false
	}
	def, ok := columns[key]
	return def, ok
}

// Columns returns all registered columns sorted by key.
func Columns() []ColumnDefinition {
	columnsMu.RLock()
	defer columnsMu.RUnlock()

	result := make([]ColumnDefinition, 0, len(columns))
	for _, def := range columns {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

func init() {
	RegisterColumn(ColumnDefinition{Key: ColumnID, Label: "Order ID", Value: func(r Record) string { return r.ID }})
	RegisterColumn(ColumnDefinition{Key: ColumnCustomerName, Label: "User", Value: func(r Record) string { return r.CustomerName }})
	RegisterColumn(ColumnDefinition{Key: ColumnEmail, Label: "Email", Value: func(r Record) string { return r.Email }})
	RegisterColumn(ColumnDefinition{Key: ColumnProject, Label: "Project", Value: func(r Record) string { return r.Project }})
	RegisterColumn(ColumnDefinition{Key: ColumnAddress, Label: "Address", Value: func(r Record) string { return r.Address }})
	RegisterColumn(ColumnDefinition{Key: ColumnStatus, Label: "Status", Value: func(r Record) string { return string(r.Status) }})
	RegisterColumn(ColumnDefinition{
		Key:     ColumnDisplayDate,
		Label:   "Date",
		Aliases: []string{"orderDate"},
		Kind:    ColumnDate,
		Value:   func(r Record) string { return r.DisplayDate },
	})
	RegisterColumn(ColumnDefinition{
		Key:   ColumnCreatedAt,
		Label: "Created",
		Kind:  ColumnTime,
		Value: func(r Record) string { return r.CreatedAt.Format("2006-01-02T15:04:05Z07:00") },
		Sorted: func(r Record) sortKey {
			if r.CreatedAt.IsZero() {
				return numKey(nan)
			}
			return numKey(float64(r.CreatedAt.UnixNano()))
		},
	})
}
