// Package serializer renders an ast.Patch back to patch source text (spec
// §4.3) and provides buildPatch, the template-builder-facing convenience
// that assigns node ids by position.
package serializer

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
)

// Serialize emits canvas open/close lines in DFS order matching the parser,
// interleaving node lines with connection lines at the end of each canvas
// (spec §4.3).
func Serialize(p *ast.Patch) string {
	var b strings.Builder
	if p != nil && p.Root != nil {
		writeCanvas(&b, p.Root, true)
	}
	return b.String()
}

func writeCanvas(b *strings.Builder, c *ast.Canvas, isRoot bool) {
	fmt.Fprintf(b, "#N canvas %s %s %s %s %s;\n",
		fmtNum(c.X), fmtNum(c.Y), fmtNum(c.Width), fmtNum(c.Height), fmtInt(c.FontSize))

	childByPdArg := indexChildrenByName(c)

	for _, n := range c.Nodes {
		if name, ok := ast.IsSubpatchObj(n); ok {
			if child, found := childByPdArg[name]; found {
				// The #X restore line recreates the "pd" node on reparse, so
				// it is not also written as an #X obj line.
				writeCanvas(b, child, false)
				fmt.Fprintf(b, "#X restore %s %s pd %s;\n", fmtNum(n.X), fmtNum(n.Y), name)
				continue
			}
		}
		writeNode(b, n)
	}
	for _, conn := range c.Connections {
		fmt.Fprintf(b, "#X connect %d %d %d %d;\n", conn.FromNode, conn.FromOutlet, conn.ToNode, conn.ToInlet)
	}
}

func indexChildrenByName(c *ast.Canvas) map[string]*ast.Canvas {
	m := make(map[string]*ast.Canvas, len(c.Children))
	for _, child := range c.Children {
		m[child.Name] = child
	}
	return m
}

func writeNode(b *strings.Builder, n ast.Node) {
	switch n.Kind {
	case ast.KindObj:
		fmt.Fprintf(b, "#X obj %s %s %s%s;\n", fmtNum(n.X), fmtNum(n.Y), n.Name, joinArgs(n.Args))
	case ast.KindMsg:
		fmt.Fprintf(b, "#X msg %s %s%s;\n", fmtNum(n.X), fmtNum(n.Y), joinArgs(n.Args))
	case ast.KindText:
		fmt.Fprintf(b, "#X text %s %s%s;\n", fmtNum(n.X), fmtNum(n.Y), joinArgs(n.Args))
	case ast.KindFloatAtom:
		writeAtom(b, "floatatom", n)
	case ast.KindSymbolAtom:
		writeAtom(b, "symbolatom", n)
	case ast.KindArray:
		fmt.Fprintf(b, "#X array %s %d %s %s;\n", n.Name, n.ArraySize, n.ArrayType, n.ArrayFlags)
		for _, line := range arrayContinuationLines(n) {
			fmt.Fprintf(b, "%s;\n", line)
		}
	}
}

func writeAtom(b *strings.Builder, kind string, n ast.Node) {
	fmt.Fprintf(b, "#X %s %s %s %s %s %s %s %s %s %s;\n",
		kind, fmtNum(n.X), fmtNum(n.Y), fmtNum(n.Width), fmtNum(n.Min), fmtNum(n.Max),
		fmtNum(n.Position), orDash(n.Label), orDash(n.LabelSend), orDash(n.LabelReceive))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// arrayContinuationLines splits an array node's Raw field — which the
// parser populates only with accumulated #A lines, one per attachArrayData
// call, and never with the "#X array" header itself — back into individual
// statement bodies, re-emitted verbatim for lossless round-trip (spec §3.1
// array retention).
func arrayContinuationLines(n ast.Node) []string {
	if n.Raw == "" {
		return nil
	}
	lines := strings.Split(n.Raw, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSuffix(strings.TrimSpace(l), ";")
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func joinArgs(args []ast.Token) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	return b.String()
}

func fmtNum(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func fmtInt(i int) string { return fmt.Sprintf("%d", i) }
