package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/etnz/cartera/docs"
	"github.com/etnz/cartera/renderer"
	"google.golang.org/genai"
)

// Portfolio is what the accountant answers from.
type Portfolio struct {
	Ledger    *cartera.Ledger
	Prices    cartera.PriceHistory
	Options   cartera.Options
	Inflation *cartera.Inflation
	Now       func() time.Time // defaults to time.Now
}

func (p *Portfolio) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Portfolio) today() date.Date { return date.FromTime(p.now()) }

// Func implements a Function with a declaration and a closure.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }

func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	out, err := f.Func(ctx, args)
	if err != nil {
		return failure(id, f.Decl.Name, err.Error())
	}
	return success(id, f.Decl.Name, out)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func dateParam(what string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeString,
		Description: what + " Today is the default.\n\n" + must(docs.GetTopic("dates")),
	}
}

var currencyParam = &genai.Schema{
	Type:        genai.TypeString,
	Description: "ARS or USD. ARS is the default.",
	Enum:        []string{"ARS", "USD"},
}

var markdownResponse = &genai.Schema{
	Type:        genai.TypeString,
	Description: "A markdown report.",
}

// Tools returns the functions valuing p.
func (p *Portfolio) Tools() []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Holdings",
				Description: "Holdings lists the cash, the open positions and the fixed-income instruments held on a day.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"date": dateParam("The day of the holdings.")},
				},
				Response: markdownResponse,
			},
			Func: p.holdings,
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "CurrentValue",
				Description: "CurrentValue values the portfolio right now, by currency bucket, with the exchange rate used, and the gains made on the cash deposited.",
				Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}},
				Response:    markdownResponse,
			},
			Func: p.currentValue,
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "History",
				Description: "History is the daily value of the whole portfolio in ARS and USD, sampled at the end of each period.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"from": dateParam("The first day of the history."),
						"to":   dateParam("The last day of the history."),
						"period": {
							Type:        genai.TypeString,
							Description: "One row per period: day, week, month, quarter or year. Month is the default.",
						},
					},
				},
				Response: markdownResponse,
			},
			Func: p.history,
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Categories",
				Description: "Categories breaks the portfolio value of a day down by category (sector, bonds, crypto, cauciones, cash...).",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date":     dateParam("The day of the breakdown."),
						"currency": currencyParam,
					},
				},
				Response: markdownResponse,
			},
			Func: p.categories,
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Performance",
				Description: "Performance is the monthly and annual return of the portfolio, nominal and real (net of inflation), in ARS and USD.",
				Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}},
				Response:    markdownResponse,
			},
			Func: p.performance,
		},
	}
}

func (p *Portfolio) holdings(_ context.Context, args map[string]any) (string, error) {
	on, err := argDate(args, "date", p.today())
	if err != nil {
		return "", err
	}
	return renderer.HoldingsMarkdown(p.Ledger.Holdings(on, p.Options.InitialCash), false), nil
}

func (p *Portfolio) currentValue(ctx context.Context, _ map[string]any) (string, error) {
	now := p.now()
	on := date.FromTime(now)
	cv := cartera.ComputeCurrentValue(ctx, p.Ledger.Holdings(on, p.Options.InitialCash), p.Prices, p.Options, now)
	return renderer.CurrentValueMarkdown(cv, on) + "\n" + renderer.GainsMarkdown(cartera.ComputeGains(p.Ledger, cv, on)), nil
}

func (p *Portfolio) history(ctx context.Context, args map[string]any) (string, error) {
	to, err := argDate(args, "to", p.today())
	if err != nil {
		return "", err
	}
	from, err := argDate(args, "from", p.Ledger.OldestTransactionDate())
	if err != nil {
		return "", err
	}
	period := date.Monthly
	if s, ok := args["period"].(string); ok && s != "" {
		if period, err = date.ParsePeriod(s); err != nil {
			return "", err
		}
	}
	history, err := cartera.ValueHistory(ctx, p.Ledger, p.Prices, date.Range{From: from, To: to}, p.Options)
	if err != nil {
		return "", err
	}
	return renderer.HistoryMarkdown(history, renderer.HistoryOptions{Period: period}), nil
}

func (p *Portfolio) categories(ctx context.Context, args map[string]any) (string, error) {
	on, err := argDate(args, "date", p.today())
	if err != nil {
		return "", err
	}
	opts := p.Options
	if s, ok := args["currency"].(string); ok && s != "" {
		if opts.Target, err = cartera.ParseCurrency(s); err != nil {
			return "", err
		}
	}
	history, err := cartera.CategoryHistory(ctx, p.Ledger, p.Prices, date.Range{From: on, To: on}, opts)
	if err != nil {
		return "", err
	}
	return renderer.CategoriesMarkdown(history), nil
}

func (p *Portfolio) performance(ctx context.Context, _ map[string]any) (string, error) {
	today := p.today()
	history, err := cartera.ValueHistory(ctx, p.Ledger, p.Prices, date.Range{From: today.AddYear(-1), To: today}, p.Options)
	if err != nil {
		return "", err
	}
	return renderer.PerformanceMarkdown(cartera.ComputePerformance(history, p.Inflation)), nil
}

// argDate reads a date argument, def when missing.
func argDate(args map[string]any, name string, def date.Date) (date.Date, error) {
	v, ok := args[name]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	if s == "" {
		return def, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return def, fmt.Errorf("argument %q must be a valid date, got %q", name, s)
	}
	return d, nil
}
