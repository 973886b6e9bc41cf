// Package report renders CPTs and posterior distributions as console
// tables.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/inference"
)

// Defaults
const (
	DefaultPlaces  = 4
	DefaultMaxRows = 64
	barWidth       = 20
)

// Renderer formats network content. The zero value is not usable; use New.
type Renderer struct {
	places  int32
	maxRows int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithPlaces sets the number of decimal places for probabilities
func WithPlaces(n int32) Option {
	return func(r *Renderer) { r.places = n }
}

// WithMaxRows caps the CPT rows printed per table; zero or less prints all
func WithMaxRows(n int) Option {
	return func(r *Renderer) { r.maxRows = n }
}

// New creates a renderer
func New(opts ...Option) *Renderer {
	r := &Renderer{places: DefaultPlaces, maxRows: DefaultMaxRows}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Probability formats p with a fixed number of places, rounding half away
// from zero
func Probability(p float64, places int32) string {
	return decimal.NewFromFloat(p).StringFixed(places)
}

func (r *Renderer) prob(p float64) string {
	return Probability(p, r.places)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// Table renders one CPT: a column per parent, then one per child state
func (r *Renderer) Table(t *bayes.Table) (string, error) {
	parents := t.Parents()
	child := t.Child()

	headers := make([]string, 0, len(parents)+child.Cardinality())
	for _, p := range parents {
		headers = append(headers, p.Name())
	}
	for _, s := range child.States() {
		headers = append(headers, "P("+s+")")
	}

	tbl := newTable(headers...).StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col >= len(parents):
			return probStyle
		default:
			return cellStyle
		}
	})

	shown := 0
	err := t.EachRow(func(pa bayes.ParentAssignment, dist []float64) bool {
		if r.maxRows > 0 && shown == r.maxRows {
			return false
		}
		cells := make([]string, 0, len(headers))
		cells = append(cells, pa...)
		for _, p := range dist {
			cells = append(cells, r.prob(p))
		}
		tbl.Row(cells...)
		shown++
		return true
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(child.Name()))
	if t.Lazy() {
		b.WriteString(mutedStyle.Render(" (lazy)"))
	}
	b.WriteString("\n")
	b.WriteString(tbl.String())
	b.WriteString("\n")
	if hidden := t.RowCount() - shown; hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("... %d more rows", hidden)))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Network renders every CPT in topological order
func (r *Renderer) Network(net *bayes.Network) (string, error) {
	var b strings.Builder
	for i, v := range net.TopologicalOrder() {
		t, err := net.Table(v.Name())
		if err != nil {
			return "", err
		}
		out, err := r.Table(t)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// Summary lists each variable with its states and parents
func (r *Renderer) Summary(net *bayes.Network) (string, error) {
	tbl := newTable("Variable", "States", "Parents", "Rows")
	for _, v := range net.TopologicalOrder() {
		t, err := net.Table(v.Name())
		if err != nil {
			return "", err
		}
		parents := make([]string, 0, len(t.Parents()))
		for _, p := range t.Parents() {
			parents = append(parents, p.Name())
		}
		tbl.Row(v.Name(), strings.Join(v.States(), ", "), strings.Join(parents, ", "), fmt.Sprint(t.RowCount()))
	}
	return tbl.String() + "\n", nil
}

// Posterior renders a query result with a bar per joint assignment
func (r *Renderer) Posterior(title string, dist *inference.Distribution, evidence inference.Evidence) string {
	headers := append(dist.Variables(), "P", "")
	n := len(dist.Variables())
	tbl := newTable(headers...).StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == n:
			return probStyle
		case col == n+1:
			return barStyle
		default:
			return cellStyle
		}
	})

	for _, e := range dist.Entries() {
		cells := append([]string(nil), e.States...)
		cells = append(cells, r.prob(e.P), bar(e.P))
		tbl.Row(cells...)
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("given " + FormatEvidence(evidence)))
	b.WriteString("\n")
	b.WriteString(tbl.String())
	b.WriteString("\n")
	return b.String()
}

// FormatEvidence prints evidence sorted by variable name, or "nothing"
func FormatEvidence(evidence inference.Evidence) string {
	if len(evidence) == 0 {
		return "nothing"
	}
	keys := make([]string, 0, len(evidence))
	for k := range evidence {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + evidence[k]
	}
	return strings.Join(parts, ", ")
}

func bar(p float64) string {
	n := int(decimal.NewFromFloat(p).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	n = max(0, min(barWidth, n))
	return strings.Repeat("█", n)
}
