package composer

import (
	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/logger"
	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
)

// paramRef names one (module, parameter) pair across the whole rack.
type paramRef struct {
	moduleID string
	param    string
	category ControlCategory
}

func busNameFor(moduleID, param string) string {
	return moduleID + "__p__" + param
}

// autoMapControllers runs spec §4.7's four-phase Controller Auto-Mapper:
// explicit mappings first, then amplitude->amplitude, then
// frequency->filter, then round-robin over whatever remains.
func autoMapControllers(modules []*builtModule, cfg ControllerConfig) ([]ControllerMapping, error) {
	if len(cfg.Controls) == 0 {
		return nil, nil
	}

	allParams := collectParamRefs(modules)
	usedParams := map[string]bool{}
	usedControls := map[string]bool{}
	var mappings []ControllerMapping

	// Phase 1: explicit mappings.
	for _, em := range cfg.Explicit {
		ref, ok := findParamRef(allParams, em.ModuleID, em.Param)
		if !ok {
			return nil, patcherr.UnknownPort(em.ModuleID, em.Param)
		}
		if usedParams[paramKey(ref)] {
			return nil, patcherr.DuplicateMapping(em.Param)
		}
		usedParams[paramKey(ref)] = true
		usedControls[em.ControlID] = true
		mappings = append(mappings, ControllerMapping{
			ModuleID: ref.moduleID, Param: ref.param, ControlID: em.ControlID,
			BusName: busNameFor(ref.moduleID, ref.param),
		})
	}

	// Phase 2: amplitude controls -> amplitude parameters.
	mappings = append(mappings, assignByCategory(cfg.Controls, allParams, usedControls, usedParams,
		CategoryAmplitude, CategoryAmplitude)...)

	// Phase 3: frequency controls -> filter parameters.
	mappings = append(mappings, assignByCategory(cfg.Controls, allParams, usedControls, usedParams,
		CategoryFrequency, CategoryFilter)...)

	// Phase 4: round-robin leftover controls onto leftover parameters.
	var leftoverControls []DeviceControl
	for _, c := range cfg.Controls {
		if !usedControls[c.ID] {
			leftoverControls = append(leftoverControls, c)
		}
	}
	var leftoverParams []paramRef
	for _, p := range allParams {
		if !usedParams[paramKey(p)] {
			leftoverParams = append(leftoverParams, p)
		}
	}
	n := len(leftoverControls)
	if len(leftoverParams) < n {
		n = len(leftoverParams)
	}
	for i := 0; i < n; i++ {
		c, p := leftoverControls[i], leftoverParams[i]
		usedControls[c.ID] = true
		usedParams[paramKey(p)] = true
		mappings = append(mappings, ControllerMapping{
			ModuleID: p.moduleID, Param: p.param, ControlID: c.ID, BusName: busNameFor(p.moduleID, p.param),
		})
	}

	logger.Info("composer: controller auto-mapping resolved", logger.Fields{
		"controls": len(cfg.Controls), "mapped": len(mappings),
	})
	return mappings, nil
}

func collectParamRefs(modules []*builtModule) []paramRef {
	var out []paramRef
	for _, mod := range modules {
		for _, pd := range mod.fragment.Parameters {
			category := ControlCategory(pd.Category)
			if category == "" {
				category = CategoryOther
			}
			out = append(out, paramRef{moduleID: mod.id, param: pd.Name, category: category})
		}
	}
	return out
}

func paramKey(r paramRef) string { return r.moduleID + "/" + r.param }

func findParamRef(refs []paramRef, moduleID, param string) (paramRef, bool) {
	for _, r := range refs {
		if r.moduleID == moduleID && r.param == param {
			return r, true
		}
	}
	return paramRef{}, false
}

// assignByCategory round-robins unused controls of controlCat onto unused
// parameters of paramCat, in declaration order, marking both used.
func assignByCategory(controls []DeviceControl, params []paramRef, usedControls, usedParams map[string]bool,
	controlCat, paramCat ControlCategory) []ControllerMapping {
	var candidateControls []DeviceControl
	for _, c := range controls {
		if !usedControls[c.ID] && c.Category == controlCat {
			candidateControls = append(candidateControls, c)
		}
	}
	var candidateParams []paramRef
	for _, p := range params {
		if !usedParams[paramKey(p)] && p.category == paramCat {
			candidateParams = append(candidateParams, p)
		}
	}

	n := len(candidateControls)
	if len(candidateParams) < n {
		n = len(candidateParams)
	}
	out := make([]ControllerMapping, 0, n)
	for i := 0; i < n; i++ {
		c, p := candidateControls[i], candidateParams[i]
		usedControls[c.ID] = true
		usedParams[paramKey(p)] = true
		out = append(out, ControllerMapping{
			ModuleID: p.moduleID, Param: p.param, ControlID: c.ID, BusName: busNameFor(p.moduleID, p.param),
		})
	}
	return out
}

// injectControllers runs spec §4.7 step 5: for each resolved mapping,
// append a named-receive node and wire it into the target module's
// parameter control inlet.
func injectControllers(canvas *ast.Canvas, modules []*builtModule, offsets map[string]moduleOffset, mappings []ControllerMapping) error {
	for _, cm := range mappings {
		mod := moduleByID(modules, cm.ModuleID)
		if mod == nil {
			return patcherr.UnknownModule(cm.ModuleID)
		}
		pd, ok := mod.fragment.ParamByName(cm.Param)
		if !ok {
			return patcherr.UnknownPort(cm.ModuleID, cm.Param)
		}

		recvIdx := canvas.AddNode(ast.Node{Kind: ast.KindObj, Name: "receive", Args: []ast.Token{ast.SymbolToken(cm.BusName)}})
		target := offsets[cm.ModuleID].base + pd.TargetNodeIndex
		canvas.AddConnection(ast.Connection{FromNode: recvIdx, FromOutlet: 0, ToNode: target, ToInlet: pd.TargetInlet})
	}
	return nil
}
