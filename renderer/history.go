package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	md "github.com/nao1215/markdown"
)

// HistoryOptions tune the history table.
type HistoryOptions struct {
	Period date.Period // one row per period end, Daily for every day
	Clamp  bool        // display negative cash as zero
}

// HistoryMarkdown renders the whole portfolio value history as a table.
func HistoryMarkdown(history []cartera.Snapshot, opts HistoryOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if len(history) == 0 {
		doc.H1("Portfolio History")
		doc.PlainText("No valuation in this range.")
		return doc.String()
	}
	first, last := history[0].Date, history[len(history)-1].Date
	doc.H1(fmt.Sprintf("Portfolio History from %s to %s", first, last))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Value ARS", "Value USD", "Cash ARS", "Cash USD"},
		Rows:   [][]string{},
	}
	for _, s := range sample(history, opts.Period) {
		table.Rows = append(table.Rows, []string{
			s.Date.String(),
			money(s.ValueARS, cartera.ARS),
			money(s.ValueUSD, cartera.USD),
			cash(s.CashARS, cartera.ARS, opts.Clamp),
			cash(s.CashUSD, cartera.USD, opts.Clamp),
		})
	}
	doc.Table(table)
	return doc.String()
}

// sample keeps the last snapshot of each period.
func sample(history []cartera.Snapshot, p date.Period) []cartera.Snapshot {
	if p == date.Daily {
		return history
	}
	rng := date.Range{From: history[0].Date, To: history[len(history)-1].Date}
	var out []cartera.Snapshot
	i := 0
	for end := range rng.Ends(p) {
		for ; i < len(history) && !history[i].Date.After(end); i++ {
		}
		if i > 0 && (len(out) == 0 || out[len(out)-1].Date != history[i-1].Date) {
			out = append(out, history[i-1])
		}
	}
	return out
}
