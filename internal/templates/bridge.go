package templates

import (
	"github.com/Conceptual-Machines/patch-core/internal/ast"
	"github.com/Conceptual-Machines/patch-core/internal/builder"
)

type bridgeParams struct {
	protocol string
	port     int
	routes   []string
}

func fromMapBridge(m builder.Map) (bridgeParams, error) {
	var p bridgeParams
	var err error
	if p.protocol, err = builder.Enum("protocol", m["protocol"], []string{"osc", "fudi"}, "fudi", "", ""); err != nil {
		return p, err
	}
	if p.port, err = builder.IntRange("port", m["port"], 3000, 1, 65535); err != nil {
		return p, err
	}
	if p.routes, err = builder.StringList("routes", m["routes"], nil); err != nil {
		return p, err
	}
	return p, nil
}

// buildBridge assembles §4.6.8: a receiver dispatching incoming external
// messages onto named control buses "pd-<route>".
func buildBridge(m builder.Map) (*builder.Fragment, error) {
	p, err := fromMapBridge(m)
	if err != nil {
		return nil, err
	}

	b := builder.New()

	recvObj := "udpreceive"
	if p.protocol == "osc" {
		recvObj = "oscparse"
	}
	portRecv := b.Add(builder.Obj(recvObj, builder.Num(float64(p.port))))

	var ports []builder.Port
	if len(p.routes) == 0 {
		send := b.Add(builder.Obj("send", builder.Sym("pd-default")))
		b.Wire(portRecv, send)
		ports = append(ports, builder.Port{Name: "pd-default", SignalType: builder.Control, Direction: builder.Output, NodeIndex: portRecv, PortIndex: 0, IoNodeIndex: builder.IntPtr(send)})
	} else {
		router := b.Add(builder.Obj("route", symTokens(p.routes)...))
		b.Wire(portRecv, router)

		for i, route := range p.routes {
			send := b.Add(builder.Obj("send", builder.Sym("pd-"+route)))
			b.Wire(router, send, i)
			ports = append(ports, builder.Port{Name: "pd-" + route, SignalType: builder.Control, Direction: builder.Output, NodeIndex: router, PortIndex: i, IoNodeIndex: builder.IntPtr(send)})
		}
	}

	return &builder.Fragment{Spec: b.Spec(), Ports: ports}, nil
}

func symTokens(ss []string) []ast.Token {
	out := make([]ast.Token, len(ss))
	for i, s := range ss {
		out[i] = builder.Sym(s)
	}
	return out
}
