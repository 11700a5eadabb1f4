package renderer

import (
	"strings"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
)

// Report gathers the sections of the full portfolio report.
type Report struct {
	Date        date.Date
	Current     cartera.CurrentValue
	Gains       []cartera.Gains
	Performance cartera.Performance
	History     []cartera.Snapshot
	Categories  []cartera.CategorySnapshot
	Recent      []cartera.Transaction // latest transactions, oldest first
}

// ReportMarkdown renders every section of a report, one after the other.
func ReportMarkdown(r Report) string {
	sections := []string{
		CurrentValueMarkdown(r.Current, r.Date),
	}
	if len(r.Gains) > 0 {
		sections = append(sections, GainsMarkdown(r.Gains))
	}
	sections = append(sections, PerformanceMarkdown(r.Performance))
	if len(r.Categories) > 0 {
		sections = append(sections, CategoriesMarkdown(r.Categories[len(r.Categories)-1:]))
	}
	if len(r.History) > 0 {
		sections = append(sections, HistoryMarkdown(r.History, HistoryOptions{Period: date.Weekly}))
	}
	if len(r.Recent) > 0 {
		var b strings.Builder
		b.WriteString("# Recent Transactions\n\n")
		for i, tx := range r.Recent {
			b.WriteString(tx.When().String() + " " + Transaction(tx))
			if i < len(r.Recent)-1 {
				b.WriteString("\n")
			}
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n\n")
}
