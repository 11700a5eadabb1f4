package date

import (
	"fmt"
	"slices"
	"strings"
)

// Period is a calendar period used to sample daily series.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periodNames holds the noun and the adjective of each period, in Period order.
var periodNames = [...][2]string{
	Daily:     {"day", "daily"},
	Weekly:    {"week", "weekly"},
	Monthly:   {"month", "monthly"},
	Quarterly: {"quarter", "quarterly"},
	Yearly:    {"year", "yearly"},
}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p][1]
}

// PeriodNames returns the short name of every period, shortest period first.
func PeriodNames() []string {
	names := make([]string, len(periodNames))
	for i, n := range periodNames {
		names[i] = n[0]
	}
	return names
}

// ParsePeriod parses names like "month" or "monthly", ignoring case.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	i := slices.IndexFunc(periodNames[:], func(n [2]string) bool { return n[0] == s || n[1] == s })
	if i < 0 {
		return Daily, fmt.Errorf("unknown period %q, use one of %s", s, strings.Join(PeriodNames(), ", "))
	}
	return Period(i), nil
}
