package renderer

import (
	"bytes"

	"github.com/etnz/cartera"
	md "github.com/nao1215/markdown"
)

// GainsMarkdown renders what the portfolio earned, one row per currency.
func GainsMarkdown(gains []cartera.Gains) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Gains")
	rows := make([][]string, 0, len(gains))
	for _, g := range gains {
		rows = append(rows, []string{
			string(g.Currency), g.Contributions.String(), g.Invested.String(), g.Value.String(),
			g.Net.SignedString(), g.Annualized.SignedString(), g.IRR.SignedString(),
		})
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Currency", "Contributions", "Invested", "Value", "Net Gains", "Annualized", "IRR"},
		Rows:      rows,
	})
	return doc.String()
}
