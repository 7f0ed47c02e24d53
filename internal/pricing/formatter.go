package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Formatter formats quotes and ROI estimates for display.
type Formatter struct{}

// NewFormatter creates a new formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// reportWidth is the outer width of every boxed report, borders included.
const reportWidth = 61

// FormatQuote returns a boxed stay quote for terminal display.
func (f *Formatter) FormatQuote(q *Quote) string {
	r := newReport("Stay Quote")
	if q.Property != "" {
		r.row("Property: " + q.Property)
	}
	r.row(fmt.Sprintf("Nights: %d", q.Nights))
	r.rule('├', '─', '┤')

	r.blank()
	for _, item := range q.Items {
		r.row(fmt.Sprintf("%-18s %3d x %-5s %12s", item.Description, item.Quantity, item.UnitType, Currency(item.Total, 2)))
	}
	r.divider()
	r.pair("Total", Currency(q.Total, 2), 30)
	r.blank()
	r.row("Average per night: " + Currency(q.NightlyAverage(), 2))
	return r.close()
}

// FormatROI returns a boxed ROI estimate for terminal display.
func (f *Formatter) FormatROI(e *ROIEstimate) string {
	r := newReport("rentwise ROI Estimate")
	r.rule('├', '─', '┤')
	r.pair("Team size", trimFloat(e.Input.TeamSize), 28)
	r.pair("Hours saved per week", trimFloat(e.Input.HoursPerWeek), 28)
	r.pair("Hourly rate", Currency(e.Input.HourlyRate, 2), 28)
	r.pair("Implementation cost", Currency(e.Input.ImplementationCost, 0), 28)
	r.divider()
	r.pair("Annual savings", Currency(e.AnnualSavings, 0), 28)
	r.pair("ROI", fmt.Sprintf("%.0f%%", e.ROIPercent), 28)
	return r.close()
}

// FormatCompact returns a single-line quote summary.
func (f *Formatter) FormatCompact(q *Quote) string {
	return fmt.Sprintf("%s: %s for %d nights (%s/night)",
		q.Property, Currency(q.Total, 2), q.Nights, Currency(q.NightlyAverage(), 2))
}

// FormatJSON returns v indented as JSON.
func (f *Formatter) FormatJSON(v interface{}) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

// Currency formats v as US dollars with thousands separators.
func Currency(v float64, decimals int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString("." + frac)
	}
	return sign + "$" + b.String()
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// report draws a fixed-width box line by line.
type report struct {
	sb    strings.Builder
	inner int
}

func newReport(title string) *report {
	r := &report{inner: reportWidth - 2}
	r.rule('┌', '─', '┐')
	r.row(title)
	return r
}

func (r *report) rule(left, fill, right rune) {
	r.sb.WriteRune(left)
	r.sb.WriteString(strings.Repeat(string(fill), r.inner))
	r.sb.WriteRune(right)
	r.sb.WriteByte('\n')
}

// row writes text with one space of padding on both sides, truncating
// when it does not fit.
func (r *report) row(text string) {
	runes := []rune(text)
	room := r.inner - 2
	if len(runes) > room {
		runes = runes[:room]
	}
	fmt.Fprintf(&r.sb, "│ %s%s │\n", string(runes), strings.Repeat(" ", room-len(runes)))
}

// pair writes a left-aligned label column followed by a right-aligned value.
func (r *report) pair(label, value string, labelWidth int) {
	r.row(fmt.Sprintf("%-*s %12s", labelWidth, label, value))
}

func (r *report) divider() { r.row(strings.Repeat("─", r.inner-2)) }

func (r *report) blank() { r.row("") }

func (r *report) close() string {
	r.rule('└', '─', '┘')
	return r.sb.String()
}
