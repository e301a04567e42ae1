// Package composer implements the Rack Composer (spec §4.7): it builds one
// Fragment per requested module, assembles them into a single combined
// canvas with deduplicated global names, injects inter-module buses and
// controller-parameter wiring, and returns both the combined patch and the
// individual per-module patches.
package composer

import (
	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
	"github.com/Conceptual-Machines/patch-core/internal/templates"
)

// ModuleSpec describes one rack slot (spec §4.7 contract).
type ModuleSpec struct {
	ID       string // explicit id; empty derives from Filename, else Template
	Template templates.Name
	Params   builder.Map
	Filename string
}

// WireSpec is one inter-module connection request, addressed by module id
// and port name (spec §4.7 step 4).
type WireSpec struct {
	From   string
	Output string
	To     string
	Input  string
}

// ControlCategory classifies a device control or parameter for the
// auto-mapper's category-matching phases (spec §4.7, "Controller
// Auto-Mapper").
type ControlCategory string

const (
	CategoryAmplitude ControlCategory = "amplitude"
	CategoryFrequency ControlCategory = "frequency"
	CategoryFilter    ControlCategory = "filter"
	CategoryOther     ControlCategory = "other"
)

// DeviceControl is one physical/virtual controller input available for
// auto-mapping.
type DeviceControl struct {
	ID       string
	Category ControlCategory
}

// ExplicitMapping pins a device control to a specific module parameter,
// applied in auto-mapper phase 1 ahead of any automatic assignment.
type ExplicitMapping struct {
	ModuleID  string
	Param     string
	ControlID string
}

// ControllerConfig is the composer's optional controller-mapping input.
type ControllerConfig struct {
	Controls []DeviceControl
	Explicit []ExplicitMapping
}

// ControllerMapping is one resolved control->parameter assignment (spec
// §4.7, "Controller Auto-Mapper").
type ControllerMapping struct {
	ModuleID  string
	Param     string
	ControlID string
	BusName   string // "<moduleId>__p__<paramName>"
}

// ModulePatch pairs an assembled module with its own standalone patch and
// the Fragment the template builder produced for it.
type ModulePatch struct {
	ID       string
	Template templates.Name
	Patch    *ast.Patch
	Fragment *builder.Fragment
}

// Result is the composer's output: each module's own patch and the combined
// patch, both as ASTs, plus the resolved controller mappings. Compose does
// not serialize them; that is left to the serializer package.
type Result struct {
	Modules  []ModulePatch
	Combined *ast.Patch
	Mappings []ControllerMapping
}

// ColumnWidth is the fixed horizontal spacing between modules in the
// combined patch (spec §4.7 step 3).
const ColumnWidth = 400.0

// Compose runs the full algorithm of spec §4.7: build each module, assign
// stable ids, assemble the combined patch, apply inter-module wiring, and
// resolve controller-parameter injection. dryRun skips nothing in the
// algorithm itself — it exists for callers that want the Result without
// persisting any file (SPEC_FULL.md supplement #4).
func Compose(modules []ModuleSpec, wires []WireSpec, cfg ControllerConfig, dryRun bool) (*Result, error) {
	built, err := buildModules(modules)
	if err != nil {
		return nil, err
	}

	combined, offsets, err := assembleCombined(built)
	if err != nil {
		return nil, err
	}

	if err := applyWiring(combined, built, offsets, wires); err != nil {
		return nil, err
	}

	mappings, err := autoMapControllers(built, cfg)
	if err != nil {
		return nil, err
	}
	if err := injectControllers(combined, built, offsets, mappings); err != nil {
		return nil, err
	}

	result := &Result{
		Mappings: mappings,
		Combined: &ast.Patch{Root: combined},
	}
	for _, mod := range built {
		result.Modules = append(result.Modules, ModulePatch{
			ID:       mod.id,
			Template: mod.template,
			Patch:    fragmentToPatch(mod.fragment),
			Fragment: mod.fragment,
		})
	}
	_ = dryRun
	return result, nil
}

func fragmentToPatch(f *builder.Fragment) *ast.Patch {
	root := &ast.Canvas{
		ID:          0,
		Width:       640,
		Height:      480,
		FontSize:    12,
		Nodes:       append([]ast.Node{}, f.Spec.Nodes...),
		Connections: append([]ast.Connection{}, f.Spec.Connections...),
	}
	return &ast.Patch{Root: root}
}

// requirePort looks up a named port on a built module, for both wiring and
// controller injection call sites.
func requirePort(mod *builtModule, portName string) (builder.Port, error) {
	port, ok := mod.fragment.PortByName(portName)
	if !ok {
		return builder.Port{}, patcherr.UnknownPort(mod.id, portName)
	}
	return port, nil
}
