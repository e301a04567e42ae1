package composer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
)

// busNameGen tracks names already handed out so two wires never collide;
// collisions are only possible when two WireSpecs name the same endpoints
// twice, so the fallback path (uuid) is cold in practice.
type busNameGen struct {
	seen map[string]bool
}

func newBusNameGen() *busNameGen { return &busNameGen{seen: map[string]bool{}} }

func (g *busNameGen) next(from, output, to, input string) string {
	name := fmt.Sprintf("bus__%s__%s__%s__%s", from, output, to, input)
	if !g.seen[name] {
		g.seen[name] = true
		return name
	}
	name = "bus__" + uuid.NewString()
	g.seen[name] = true
	return name
}

func moduleByID(modules []*builtModule, id string) *builtModule {
	for _, m := range modules {
		if m.id == id {
			return m
		}
	}
	return nil
}

// applyWiring runs spec §4.7 step 4: for each WireSpec, inject a paired
// bus-send/bus-receive (audio or control object family matching the port's
// signal type) and, where either endpoint carries an ioNodeIndex, sever its
// original direct connection to the terminal I/O node.
func applyWiring(canvas *ast.Canvas, modules []*builtModule, offsets map[string]moduleOffset, wires []WireSpec) error {
	gen := newBusNameGen()

	for _, w := range wires {
		fromMod := moduleByID(modules, w.From)
		if fromMod == nil {
			return fmt.Errorf("wire from unknown module %q", w.From)
		}
		toMod := moduleByID(modules, w.To)
		if toMod == nil {
			return fmt.Errorf("wire to unknown module %q", w.To)
		}

		outPort, err := requirePort(fromMod, w.Output)
		if err != nil {
			return err
		}
		inPort, err := requirePort(toMod, w.Input)
		if err != nil {
			return err
		}

		fromBase := offsets[w.From].base
		toBase := offsets[w.To].base

		busName := gen.next(w.From, w.Output, w.To, w.Input)
		sendObj, recvObj := "send", "receive"
		if outPort.SignalType == builder.Audio {
			sendObj, recvObj = "send~", "receive~"
		}

		sendIdx := canvas.AddNode(ast.Node{Kind: ast.KindObj, Name: sendObj, Args: []ast.Token{ast.SymbolToken(busName)}})
		recvIdx := canvas.AddNode(ast.Node{Kind: ast.KindObj, Name: recvObj, Args: []ast.Token{ast.SymbolToken(busName)}})

		producerTap := fromBase + outPort.NodeIndex
		consumerTap := toBase + inPort.NodeIndex

		canvas.AddConnection(ast.Connection{FromNode: producerTap, FromOutlet: outPort.PortIndex, ToNode: sendIdx, ToInlet: 0})
		canvas.AddConnection(ast.Connection{FromNode: recvIdx, FromOutlet: 0, ToNode: consumerTap, ToInlet: inPort.PortIndex})

		if outPort.IoNodeIndex != nil {
			ioIdx := fromBase + *outPort.IoNodeIndex
			removeConnection(canvas, producerTap, ioIdx)
		}
		if inPort.IoNodeIndex != nil {
			ioIdx := toBase + *inPort.IoNodeIndex
			removeConnection(canvas, ioIdx, consumerTap)
		}
	}

	return nil
}

// removeConnection drops every connection directly between from and to,
// regardless of outlet/inlet index — used to silence a fragment's direct
// path to its terminal I/O node once that tap is routed through a bus.
func removeConnection(canvas *ast.Canvas, from, to int) {
	kept := canvas.Connections[:0]
	for _, c := range canvas.Connections {
		if c.FromNode == from && c.ToNode == to {
			continue
		}
		kept = append(kept, c)
	}
	canvas.Connections = kept
}
