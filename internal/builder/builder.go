// Package builder holds the shared primitives every template builder uses
// to assemble a Fragment (spec §4.5): add/wire, deterministic grid layout,
// and the PatchSpec/Port/ParameterDescriptor types that make up a Fragment.
package builder

import "github.com/Conceptual-Machines/patch-core/internal/ast"

// PatchSpec is nodes+connections for one fragment's canvas; each node's id
// is its position, assigned by Builder.Add/AddAt (spec §3.3).
type PatchSpec struct {
	Nodes       []ast.Node
	Connections []ast.Connection
}

// SignalType mirrors registry.SignalType without importing registry, to
// keep builder free of a dependency on the catalogue package — a Port's
// signal type is declared by the template author, not looked up.
type SignalType string

const (
	Audio   SignalType = "audio"
	Control SignalType = "control"
)

type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
)

// Port is a named, typed I/O tap on a Fragment (spec §3.3).
type Port struct {
	Name       string
	SignalType SignalType
	Direction  Direction
	NodeIndex  int
	PortIndex  int // inlet (Direction==Input) or outlet (Direction==Output) index on NodeIndex

	// IoNodeIndex, if set, points at a terminal I/O sink/source node that
	// must be disconnected when this port is used via a bus (spec §3.3).
	IoNodeIndex *int
}

// Curve is a ParameterDescriptor's response curve.
type Curve string

const (
	Linear      Curve = "linear"
	Exponential Curve = "exponential"
)

// ParameterDescriptor names a continuously controllable value on a
// Fragment (spec §3.3).
type ParameterDescriptor struct {
	Name     string
	Label    string
	Min, Max float64
	Default  float64
	Unit     string
	Curve    Curve
	Category string

	// TargetNodeIndex/TargetInlet identify the inlet a controller-injected
	// receive must wire into (spec §4.7 step 5).
	TargetNodeIndex int
	TargetInlet     int
}

// Fragment is a template builder's output (spec §3.3).
type Fragment struct {
	Spec       PatchSpec
	Ports      []Port
	Parameters []ParameterDescriptor
}

// PortByName looks up a fragment's port by name.
func (f *Fragment) PortByName(name string) (Port, bool) {
	for _, p := range f.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// ParamByName looks up a fragment's parameter descriptor by name.
func (f *Fragment) ParamByName(name string) (ParameterDescriptor, bool) {
	for _, p := range f.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterDescriptor{}, false
}

// Builder accumulates a PatchSpec for one template invocation. It is the
// shared framework referenced by spec §4.5: add()/wire() plus a
// deterministic grid layout cursor.
type Builder struct {
	spec PatchSpec

	// layout cursor: a simple deterministic grid, advanced by Add (row) and NextColumn (column)
	// so repeated calls to a template with identical parameters lay nodes
	// out identically (spec §4.5, "Builder determinism").
	col, row int
}

// New starts a fresh Builder at grid origin.
func New() *Builder { return &Builder{} }

const (
	colWidth = 90.0
	rowStep  = 40.0
	baseX    = 20.0
	baseY    = 20.0
)

// Add appends a node at the current layout cursor and returns its index
// within the fragment (spec §4.5, "add(node) -> index").
func (b *Builder) Add(n ast.Node) int {
	if n.X == 0 && n.Y == 0 {
		n.X = baseX + float64(b.col)*colWidth
		n.Y = baseY + float64(b.row)*rowStep
	}
	idx := len(b.spec.Nodes)
	n.ID = idx
	b.spec.Nodes = append(b.spec.Nodes, n)
	b.row++
	return idx
}

// AddAt appends a node at an explicit (x,y), bypassing the layout cursor —
// used when a template needs deliberate column placement (e.g. parallel
// voice chains side by side).
func (b *Builder) AddAt(n ast.Node, x, y float64) int {
	n.X, n.Y = x, y
	idx := len(b.spec.Nodes)
	n.ID = idx
	b.spec.Nodes = append(b.spec.Nodes, n)
	return idx
}

// NextColumn resets the row cursor and advances to a new column, for
// templates that lay voices/steps out side by side.
func (b *Builder) NextColumn() {
	b.col++
	b.row = 0
}

// ColumnX returns the x coordinate of the current column, for templates
// that need to compute AddAt positions explicitly.
func (b *Builder) ColumnX(col int) float64 { return baseX + float64(col)*colWidth }

// RowY returns the y coordinate of a given row within the current column.
func (b *Builder) RowY(row int) float64 { return baseY + float64(row)*rowStep }

// Wire appends a connection with default outlet/inlet 0 when not given
// (spec §4.5, "wire(from, to, outlet?, inlet?)").
func (b *Builder) Wire(from, to int, outletInlet ...int) {
	outlet, inlet := 0, 0
	if len(outletInlet) > 0 {
		outlet = outletInlet[0]
	}
	if len(outletInlet) > 1 {
		inlet = outletInlet[1]
	}
	b.spec.Connections = append(b.spec.Connections, ast.Connection{
		FromNode: from, FromOutlet: outlet, ToNode: to, ToInlet: inlet,
	})
}

// Spec returns the accumulated PatchSpec.
func (b *Builder) Spec() PatchSpec { return b.spec }

// Obj is a convenience constructor for an obj node.
func Obj(name string, args ...ast.Token) ast.Node {
	return ast.Node{Kind: ast.KindObj, Name: name, Args: args}
}

// Msg is a convenience constructor for a msg node.
func Msg(tokens ...ast.Token) ast.Node {
	return ast.Node{Kind: ast.KindMsg, Args: tokens}
}

// Num builds a numeric ast.Token from a float64.
func Num(n float64) ast.Token { return ast.NumberToken(n, "") }

// Sym builds a symbol ast.Token.
func Sym(s string) ast.Token { return ast.SymbolToken(s) }

func IntPtr(i int) *int { return &i }
