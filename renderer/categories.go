package renderer

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/cartera"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// CategoriesMarkdown renders the latest breakdown by category, its evolution
// over the history, and the alerts raised on any day.
func CategoriesMarkdown(history []cartera.CategorySnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if len(history) == 0 {
		doc.H1("Categories")
		doc.PlainText("No valuation in this range.")
		return doc.String()
	}
	last := history[len(history)-1]
	doc.H1(fmt.Sprintf("Categories on %s", last.Date))

	breakdown := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Category", "Value", "Share"},
		Rows:      [][]string{},
	}
	for _, cat := range last.Names() {
		v := last.Categories[cat]
		breakdown.Rows = append(breakdown.Rows, []string{string(cat), money(v, last.Currency), share(v, last.Total).String()})
	}
	breakdown.Rows = append(breakdown.Rows, []string{md.Bold("Total"), md.Bold(money(last.Total, last.Currency)), ""})
	doc.Table(breakdown)

	if len(history) > 1 {
		doc.H2("Evolution")
		names := categories(history)
		header := append([]string{"Date"}, make([]string, len(names))...)
		align := []md.TableAlignment{md.AlignLeft}
		for i, cat := range names {
			header[i+1] = string(cat)
			align = append(align, md.AlignRight)
		}
		header = append(header, "Total")
		align = append(align, md.AlignRight)

		evolution := md.TableSet{Alignment: align, Header: header, Rows: [][]string{}}
		for _, c := range history {
			row := []string{c.Date.String()}
			for _, cat := range names {
				row = append(row, money(c.Categories[cat], c.Currency))
			}
			row = append(row, money(c.Total, c.Currency))
			evolution.Rows = append(evolution.Rows, row)
		}
		doc.Table(evolution)
	}

	var alerts []string
	for _, c := range history {
		for _, a := range c.Alerts() {
			alerts = append(alerts, fmt.Sprintf("%s: %s is worth %s, more than the total %s",
				a.Date, a.Category, money(a.Value, c.Currency), money(a.Total, c.Currency)))
		}
	}
	if len(alerts) > 0 {
		doc.H2("Alerts")
		doc.BulletList(alerts...)
	}
	return doc.String()
}

// categories returns every category present in the history, sorted.
func categories(history []cartera.CategorySnapshot) []cartera.Category {
	seen := make(map[cartera.Category]bool)
	for _, c := range history {
		for cat := range c.Categories {
			seen[cat] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// share is the percent of total a value represents.
func share(v, total decimal.Decimal) cartera.Percent {
	if total.IsZero() {
		return 0
	}
	return cartera.Percent(v.Div(total).InexactFloat64() * 100)
}
