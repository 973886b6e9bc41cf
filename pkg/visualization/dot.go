package visualization

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteDOT writes the visualization as a Graphviz document. Positions are
// pinned with pos="x,y!" (y negated, Graphviz grows upwards) so
// `neato -n` reproduces the computed layout.
func (v *Visualization) WriteDOT(w io.Writer) error {
	_, err := io.WriteString(w, v.DOT())
	return err
}

// DOT renders the visualization as a Graphviz document
func (v *Visualization) DOT() string {
	kind, arrow := "graph", "--"
	if v.Directed {
		kind, arrow = "digraph", "->"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s {\n", kind, quote(v.Name))
	b.WriteString("  node [shape=ellipse];\n")

	for _, n := range v.Nodes {
		fmt.Fprintf(&b, "  %s [label=%s", quote(n.ID), quote(n.Label))
		if p, ok := v.Positions[n.ID]; ok {
			fmt.Fprintf(&b, ", pos=\"%s,%s!\"", coord(p.X), coord(-p.Y))
		}
		b.WriteString("];\n")
	}

	for _, e := range v.Edges {
		fmt.Fprintf(&b, "  %s %s %s", quote(e.From), arrow, quote(e.To))
		if !v.Directed {
			fmt.Fprintf(&b, " [label=%s]", quote(strconv.FormatFloat(e.Weight, 'g', -1, 64)))
		}
		b.WriteString(";\n")
	}

	b.WriteString("}\n")
	return b.String()
}

// quote produces a DOT string literal; newlines become \n line breaks
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
