package composer

import (
	"fmt"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
	"github.com/Conceptual-Machines/patch-core/internal/logger"
	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
	"github.com/Conceptual-Machines/patch-core/internal/registry"
	"github.com/Conceptual-Machines/patch-core/internal/templates"
)

// builtModule is one module after fragment construction and id assignment,
// carried through the rest of the pipeline.
type builtModule struct {
	id       string
	template templates.Name
	fragment *builder.Fragment
}

// buildModules runs spec §4.7 steps 1-2: build each fragment, then compute
// a unique stable id (explicit, else derived from filename, else template
// name with a numeric suffix on collision).
func buildModules(specs []ModuleSpec) ([]*builtModule, error) {
	out := make([]*builtModule, 0, len(specs))
	used := make(map[string]bool, len(specs))

	for i, spec := range specs {
		fragment, err := templates.Build(spec.Template, spec.Params)
		if err != nil {
			wrapped := patcherr.InModule(i, string(spec.Template), err)
			logger.Error("composer: module build failed", wrapped, logger.Fields{"index": i, "template": string(spec.Template)})
			return nil, wrapped
		}

		id := deriveID(spec, used)
		used[id] = true

		out = append(out, &builtModule{id: id, template: spec.Template, fragment: fragment})
	}
	return out, nil
}

func deriveID(spec ModuleSpec, used map[string]bool) string {
	base := spec.ID
	if base == "" {
		base = spec.Filename
	}
	if base == "" {
		base = string(spec.Template)
	}
	if !used[base] {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !used[candidate] {
			return candidate
		}
	}
}

// moduleOffset records where a built module's local node index 0 landed in
// the combined canvas, for rewriting WireSpec/ControllerMapping targets.
type moduleOffset struct {
	base int // combined index of the module's local node 0
}

// assembleCombined runs spec §4.7 step 3: title node, per-module section
// label, global-name dedup, node/connection offsetting.
func assembleCombined(modules []*builtModule) (*ast.Canvas, map[string]moduleOffset, error) {
	canvas := &ast.Canvas{Width: 800, Height: 600, FontSize: 12}
	canvas.AddNode(ast.Node{Kind: ast.KindText, Args: []ast.Token{ast.SymbolToken("Rack")}})

	offsets := make(map[string]moduleOffset, len(modules))

	for i, mod := range modules {
		labelIdx := canvas.AddNode(ast.Node{
			Kind: ast.KindText,
			Args: []ast.Token{ast.SymbolToken(mod.id)},
			X:    float64(i) * ColumnWidth,
		})
		base := labelIdx + 1
		offsets[mod.id] = moduleOffset{base: base}

		nodes := dedupGlobalNames(mod.fragment.Spec.Nodes, mod.id)
		for _, n := range nodes {
			n.X += float64(i) * ColumnWidth
			canvas.AddNode(n)
		}
		for _, conn := range mod.fragment.Spec.Connections {
			canvas.AddConnection(ast.Connection{
				FromNode:   conn.FromNode + base,
				FromOutlet: conn.FromOutlet,
				ToNode:     conn.ToNode + base,
				ToInlet:    conn.ToInlet,
			})
		}
	}

	return canvas, offsets, nil
}

// dedupGlobalNames suffixes every table-defining or table-referencing
// node's global name with "_<moduleID>" so two instances of the same
// template never collide over a shared array/delay-line name (spec §4.7
// step 3, "Deduplicate global-name resources").
func dedupGlobalNames(nodes []ast.Node, moduleID string) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		switch {
		case n.Kind == ast.KindArray:
			n.Name = n.Name + "_" + moduleID
		case n.Kind == ast.KindObj && registry.IsTableReferencing(n.Name) && len(n.Args) > 0:
			args := append([]ast.Token{}, n.Args...)
			args[0] = ast.SymbolToken(args[0].String() + "_" + moduleID)
			n.Args = args
		}
		out[i] = n
	}
	return out
}
