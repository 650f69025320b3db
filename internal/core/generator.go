package core

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
)

// DefaultSeedCount is the number of records a new list is seeded with.
const DefaultSeedCount = 50

// idBase is added to the 1-based sequence number to form "#CM9801", "#CM9802"...
const idBase = 9800

// PlaceholderAvatar is assigned to records entered through the add form.
const PlaceholderAvatar = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=32&h=32&fit=crop&crop=face"

type customer struct {
	name   string
	avatar string
}

var (
	seedCustomers = []customer{
		{"Sarah Wilson", "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=32&h=32&fit=crop&crop=face"},
		{"Kate Morrison", "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=32&h=32&fit=crop&crop=face"},
		{"Drew Cano", "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=32&h=32&fit=crop&crop=face"},
		{"Orlando Diggs", "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=32&h=32&fit=crop&crop=face"},
		{"Andi Lane", "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=32&h=32&fit=crop&crop=face"},
		{"Natali Craig", "https://images.unsplash.com/photo-1487412720507-e7ab37603c6f?w=32&h=32&fit=crop&crop=face"},
		{"Mike Johnson", "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=32&h=32&fit=crop&crop=face"},
		{"Emily Davis", "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=32&h=32&fit=crop&crop=face"},
	}
	seedProjects = []string{
		"Landing Page", "CRM Admin pages", "Client Project", "Admin Dashboard",
		"App Landing Page", "E-commerce Site", "Mobile App", "API Integration",
	}
	seedAddresses = []string{
		"Meadow Lane Oakland", "Larry San Francisco", "Bagwell Avenue Ocala", "Washburn Baton Rouge",
		"Nest Lane Olivette", "Main Street Boston", "Oak Avenue Seattle", "Pine Road Miami",
	}
)

// FormatRecordID returns the display id for a 1-based sequence number.
func FormatRecordID(seq int) string {
	return fmt.Sprintf("#CM%04d", idBase+seq)
}

// FormatElapsed maps an elapsed value to its display text. The thresholds are
// minute counts: <1 "Just now", <60 "N minutes ago", <1440 "N hours ago",
// <2880 "Yesterday", otherwise the calendar date of fallback.
func FormatElapsed(elapsed int, fallback time.Time) string {
	plural := func(n int) string {
		if n > 1 {
			return "s"
		}
		return ""
	}
	switch {
	case elapsed < 1:
		return "Just now"
	case elapsed < 60:
		return fmt.Sprintf("%d minute%s ago", elapsed, plural(elapsed))
	case elapsed < 24*60:
		h := elapsed / 60
		return fmt.Sprintf("%d hour%s ago", h, plural(h))
	case elapsed < 2*24*60:
		return "Yesterday"
	default:
		return fallback.Format("Jan 2, 2006")
	}
}

// ElapsedTime returns the timestamp behind FormatElapsed's text. Elapsed is in
// minutes like the display buckets; the calendar bucket uses fallback, kept no
// later than the start of that bucket.
func ElapsedTime(now time.Time, elapsed int, fallback time.Time) time.Time {
	if elapsed < 1 {
		return now
	}
	if elapsed < 2*24*60 {
		return now.Add(-time.Duration(elapsed) * time.Minute)
	}
	if limit := now.Add(-2 * 24 * time.Hour); fallback.After(limit) {
		return limit
	}
	return fallback
}

// RecencyPriority ranks display text by how recent it looks: 0 for
// "Just now" up to 4 for calendar dates.
func RecencyPriority(displayDate string) int {
	switch {
	case displayDate == "Just now":
		return 0
	case strings.Contains(displayDate, "minute"):
		return 1
	case strings.Contains(displayDate, "hour"):
		return 2
	case displayDate == "Yesterday":
		return 3
	default:
		return 4
	}
}

// Generator produces synthetic seed data.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator returns a generator using rng and now. Nil arguments fall back
// to a randomly seeded source and time.Now.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// Generate returns count records with sequential ids "#CM9801".."#CM98xx",
// ordered by RecencyPriority of their display date.
func (g *Generator) Generate(count int) []Record {
	if count <= 0 {
		return []Record{}
	}
	now := g.now()
	records := make([]Record, 0, count)

	for i := 1; i <= count; i++ {
		status := Statuses[g.rng.IntN(len(Statuses))]
		project := seedProjects[g.rng.IntN(len(seedProjects))]
		cust := seedCustomers[g.rng.IntN(len(seedCustomers))]
		address := seedAddresses[g.rng.IntN(len(seedAddresses))]

		orderDate := now.AddDate(0, 0, -g.rng.IntN(30))
		elapsed := g.rng.IntN(24 * 7)

		records = append(records, Record{
			ID:           FormatRecordID(i),
			CustomerName: cust.name,
			Email:        strings.ToLower(strings.Replace(cust.name, " ", ".", 1)) + "@email.com",
			AvatarRef:    cust.avatar,
			Project:      project,
			Address:      address,
			DisplayDate:  FormatElapsed(elapsed, orderDate),
			Status:       status,
			CreatedAt:    ElapsedTime(now, elapsed, orderDate),
		})
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		return RecencyPriority(a.DisplayDate) - RecencyPriority(b.DisplayDate)
	})
	return records
}

// Generate produces count records from a randomly seeded generator.
func Generate(count int) []Record {
	return NewGenerator(nil, nil).Generate(count)
}
