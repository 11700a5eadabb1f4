package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	md "github.com/nao1215/markdown"
)

// CurrentValueMarkdown renders the value of the portfolio right now.
func CurrentValueMarkdown(cv cartera.CurrentValue, on date.Date) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Value on %s", on))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Bucket", "Value", "Total"},
		Rows: [][]string{
			{"ARS", cv.ARS.String(), cv.Total(cartera.ARS).String()},
			{"USD", cv.USD.String(), cv.Total(cartera.USD).String()},
		},
	})
	doc.PlainText(fmt.Sprintf("Exchange rate: 1 USD = %s", cartera.M(cv.USDARS, cartera.ARS)))

	if len(cv.Positions) > 0 {
		rows := make([][]string, 0, len(cv.Positions))
		for _, g := range cv.Positions {
			rows = append(rows, []string{
				g.Name, string(g.Asset), g.Cost.String(), g.Value.String(), g.Gain.SignedString(), g.Return().SignedString(),
			})
		}
		doc.H2("Unrealized Gains")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Position", "Type", "Cost", "Value", "Gain", "Return"},
			Rows:      rows,
		})
	}

	if len(cv.Duplicates) > 0 {
		doc.H2("Duplicate Listings")
		var dups []string
		for _, d := range cv.Duplicates {
			dups = append(dups, d.String())
		}
		doc.BulletList(dups...)
	}
	return doc.String()
}
