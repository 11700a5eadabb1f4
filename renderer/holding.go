package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/cartera"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders what is held: cash, open positions and
// fixed-income instruments. Empty sections are skipped.
func HoldingsMarkdown(h cartera.Holdings, clamp bool) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Holdings on %s", h.Date))

	var balances [][]string
	for _, cur := range cartera.Currencies {
		if m, ok := h.Cash[cur]; ok {
			balances = append(balances, []string{string(cur), cash(m.Value(), cur, clamp)})
		}
	}
	doc.H2("Cash")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Currency", "Balance"},
		Rows:      balances,
	})

	if len(h.Positions) > 0 {
		rows := make([][]string, 0, len(h.Positions))
		for _, p := range h.Positions {
			rows = append(rows, []string{
				p.Security, string(p.AssetType), string(p.Currency), p.Quantity.String(),
				money(p.AveragePrice, p.Currency), p.Cost().String(),
				string(cartera.CategoryOf(p.Security, p.AssetType)),
			})
		}
		doc.H2("Positions")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header:    []string{"Security", "Type", "Currency", "Quantity", "Avg Price", "Cost", "Category"},
			Rows:      rows,
		})
	}

	if len(h.Active)+len(h.Matured) > 0 {
		var rows [][]string
		for _, inst := range h.Active {
			v, _ := inst.AccruedValue(h.Date)
			rows = append(rows, instrumentRow(inst, cartera.M(v, inst.Currency), inst.Interest(h.Date), "active"))
		}
		for _, inst := range h.Matured {
			rows = append(rows, instrumentRow(inst, inst.Final(), inst.Interest(h.Date), "matured"))
		}
		doc.H2("Fixed Income")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header:    []string{"Type", "Provider", "Principal", "Rate", "Start", "Maturity", "Value", "Interest", "Status"},
			Rows:      rows,
		})
	}
	return doc.String()
}

func instrumentRow(inst *cartera.Instrument, value, interest cartera.Money, status string) []string {
	return []string{
		string(inst.Kind), inst.Provider, cartera.M(inst.Amount, inst.Currency).String(),
		fmt.Sprintf("%s%%", inst.AnnualRate), inst.Start.String(), inst.Maturity.String(),
		value.String(), interest.SignedString(), status,
	}
}
