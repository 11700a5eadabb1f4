package renderer

import (
	"bytes"

	"github.com/etnz/cartera"
	md "github.com/nao1215/markdown"
)

// PerformanceMarkdown renders nominal and real trailing returns.
func PerformanceMarkdown(p cartera.Performance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Performance")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Period", "ARS", "ARS (real)", "USD", "USD (real)"},
		Rows: [][]string{
			{"Month", p.MonthlyARS.SignedString(), p.RealMonthlyARS.SignedString(), p.MonthlyUSD.SignedString(), p.RealMonthlyUSD.SignedString()},
			{"Year", p.AnnualARS.SignedString(), p.RealAnnualARS.SignedString(), p.AnnualUSD.SignedString(), p.RealAnnualUSD.SignedString()},
		},
	})
	return doc.String()
}
