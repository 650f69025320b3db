package core

import (
	"testing"
)

// ============================================================================
// Query Benchmarks
// ============================================================================

// BenchmarkQuery_Search benchmarks the search filter over a large dataset.
// This runs on every keystroke in the search box.
func BenchmarkQuery_Search(b *testing.B) {
	dataset := testGenerator(1).Generate(5000)
	params := QueryParams{Search: "wilson", Status: StatusFilterAll}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Query(dataset, params)
	}
}

// BenchmarkQuery_SortText benchmarks sorting by a text column.
func BenchmarkQuery_SortText(b *testing.B) {
	dataset := testGenerator(1).Generate(5000)
	params := QueryParams{Status: StatusFilterAll, Sort: SortSpec{Column: ColumnCustomerName, Dir: SortAsc}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Query(dataset, params)
	}
}

// BenchmarkQuery_SortDate benchmarks the default date sort, which parses
// every display date.
func BenchmarkQuery_SortDate(b *testing.B) {
	dataset := testGenerator(1).Generate(5000)
	params := DefaultQueryParams()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Query(dataset, params)
	}
}

// ============================================================================
// Generation Benchmarks
// ============================================================================

// BenchmarkGenerate benchmarks seed data generation for a new session.
func BenchmarkGenerate(b *testing.B) {
	g := testGenerator(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Generate(DefaultSeedCount)
	}
}

// BenchmarkParseDisplayDate benchmarks date parsing.
// This is a hot path during a date sort.
func BenchmarkParseDisplayDate(b *testing.B) {
	testCases := []string{
		"Mar 4, 2026",   // Text month
		"2026-03-04",    // ISO format
		"Just now",      // Relative, never parses
		"5 minutes ago", // Relative
		"Yesterday",     // Relative
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseDisplayDate(tc)
		}
	}
}

// ============================================================================
// List Benchmarks
// ============================================================================

// BenchmarkList_Snapshot benchmarks rendering the current page.
func BenchmarkList_Snapshot(b *testing.B) {
	l := NewList(ListOptions{})
	if err := l.Load(testGenerator(1).Generate(5000)); err != nil {
		b.Fatal(err)
	}
	l.ToggleAll()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Snapshot()
	}
}
