package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
	"github.com/Conceptual-Machines/patch-core/internal/patcherr"
	"github.com/Conceptual-Machines/patch-core/internal/templates"
)

func TestComposeSingleModuleAssignsDerivedID(t *testing.T) {
	res, err := Compose([]ModuleSpec{{Template: templates.Synth}}, nil, ControllerConfig{}, false)
	require.NoError(t, err)
	require.Len(t, res.Modules, 1)
	assert.Equal(t, "synth", res.Modules[0].ID)
}

func TestComposeDuplicateTemplateIDsGetNumericSuffix(t *testing.T) {
	res, err := Compose([]ModuleSpec{
		{Template: templates.Synth},
		{Template: templates.Synth},
	}, nil, ControllerConfig{}, false)
	require.NoError(t, err)
	require.Len(t, res.Modules, 2)
	assert.Equal(t, "synth", res.Modules[0].ID)
	assert.Equal(t, "synth_1", res.Modules[1].ID)
}

func TestComposeBadTemplateWrapsModuleIndexedError(t *testing.T) {
	_, err := Compose([]ModuleSpec{{Template: templates.Name("nope")}}, nil, ControllerConfig{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module 0")
	var perr *patcherr.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, patcherr.KindUnknownTemplate, perr.Kind)
}

func TestComposeWiringInjectsBusAndSeversDirectIO(t *testing.T) {
	res, err := Compose([]ModuleSpec{
		{ID: "seq", Template: templates.Sequencer},
		{ID: "syn", Template: templates.Synth},
	}, []WireSpec{
		{From: "seq", Output: "note", To: "syn", Input: "note"},
	}, ControllerConfig{}, false)
	require.NoError(t, err)

	var sendFound, recvFound bool
	for _, n := range res.Combined.Root.Nodes {
		if n.Kind != ast.KindObj {
			continue
		}
		if n.Name == "send" {
			sendFound = true
		}
		if n.Name == "receive" {
			recvFound = true
		}
	}
	assert.True(t, sendFound)
	assert.True(t, recvFound)

	noteOutIdx := -1
	for i, n := range res.Combined.Root.Nodes {
		if n.Kind == ast.KindObj && n.Name == "outlet" && len(n.Args) == 1 && n.Args[0].String() == "note" {
			noteOutIdx = i
		}
	}
	require.NotEqual(t, -1, noteOutIdx)
	for _, c := range res.Combined.Root.Connections {
		assert.NotEqual(t, noteOutIdx, c.ToNode, "the sequencer's direct connection into its note outlet is severed")
	}
}

func TestComposeGlobalNameDedupAcrossTwoTuringInstances(t *testing.T) {
	res, err := Compose([]ModuleSpec{
		{ID: "t1", Template: templates.Turing},
		{ID: "t2", Template: templates.Turing},
	}, nil, ControllerConfig{}, false)
	require.NoError(t, err)

	var arrayNames []string
	for _, n := range res.Combined.Root.Nodes {
		if n.Kind == ast.KindArray {
			arrayNames = append(arrayNames, n.Name)
		}
	}
	require.Len(t, arrayNames, 2)
	assert.NotEqual(t, arrayNames[0], arrayNames[1])
	assert.True(t, strings.HasSuffix(arrayNames[0], "_t1") || strings.HasSuffix(arrayNames[0], "_t2"))
}

func TestComposeControllerAutoMapperAmplitudePhase(t *testing.T) {
	res, err := Compose([]ModuleSpec{
		{ID: "syn", Template: templates.Synth},
	}, nil, ControllerConfig{
		Controls: []DeviceControl{{ID: "knob1", Category: CategoryAmplitude}},
	}, false)
	require.NoError(t, err)
	require.Len(t, res.Mappings, 1)
	assert.Equal(t, "amplitude", res.Mappings[0].Param)
	assert.Equal(t, "syn__p__amplitude", res.Mappings[0].BusName)
}

func TestComposeControllerExplicitMappingWins(t *testing.T) {
	res, err := Compose([]ModuleSpec{
		{ID: "syn", Template: templates.Synth},
	}, nil, ControllerConfig{
		Controls: []DeviceControl{{ID: "knob1", Category: CategoryOther}},
		Explicit: []ExplicitMapping{{ModuleID: "syn", Param: "cutoff", ControlID: "knob1"}},
	}, false)
	require.NoError(t, err)
	require.Len(t, res.Mappings, 1)
	assert.Equal(t, "cutoff", res.Mappings[0].Param)
}

func TestComposeDuplicateExplicitMappingErrors(t *testing.T) {
	_, err := Compose([]ModuleSpec{
		{ID: "syn", Template: templates.Synth},
	}, nil, ControllerConfig{
		Controls: []DeviceControl{{ID: "k1"}, {ID: "k2"}},
		Explicit: []ExplicitMapping{
			{ModuleID: "syn", Param: "cutoff", ControlID: "k1"},
			{ModuleID: "syn", Param: "cutoff", ControlID: "k2"},
		},
	}, false)
	require.Error(t, err)
	var perr *patcherr.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, patcherr.KindDuplicateMapping, perr.Kind)
}

func TestComposeUnknownWireEndpointErrors(t *testing.T) {
	_, err := Compose([]ModuleSpec{
		{ID: "syn", Template: templates.Synth},
	}, []WireSpec{{From: "ghost", Output: "audio", To: "syn", Input: "note"}}, ControllerConfig{}, false)
	require.Error(t, err)
}

func TestComposeUnknownPortErrors(t *testing.T) {
	_, err := Compose([]ModuleSpec{
		{ID: "syn", Template: templates.Synth},
	}, []WireSpec{{From: "syn", Output: "not-a-port", To: "syn", Input: "note"}}, ControllerConfig{}, false)
	require.Error(t, err)
}

func TestFragmentToPatchPreservesNodesAndConnections(t *testing.T) {
	f := &builder.Fragment{
		Spec: builder.PatchSpec{
			Nodes:       []ast.Node{{Kind: ast.KindObj, Name: "osc~"}, {Kind: ast.KindObj, Name: "dac~"}},
			Connections: []ast.Connection{{FromNode: 0, ToNode: 1}},
		},
	}
	p := fragmentToPatch(f)
	assert.Len(t, p.Root.Nodes, 2)
	assert.Len(t, p.Root.Connections, 1)
}
