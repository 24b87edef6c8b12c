package refgraph

import (
	"testing"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
)

func indexOf(order []addr.Address, a addr.Address) int {
	for i, x := range order {
		if x == a {
			return i
		}
	}
	return -1
}

func TestTopoOrderLinearChain(t *testing.T) {
	core := addr.Address(1)
	engine := addr.Address(2)
	game := addr.Address(3)

	g := New()
	g.AddEdge(game, engine)
	g.AddEdge(engine, core)

	order, cycles := g.TopoOrder()
	if len(cycles) != 0 {
		t.Fatalf("cycles = %v, want none", cycles)
	}
	if len(order) != 3 {
		t.Fatalf("order = %v, want 3 packages", order)
	}
	if indexOf(order, core) > indexOf(order, engine) || indexOf(order, engine) > indexOf(order, game) {
		t.Fatalf("order = %v, want core before engine before game", order)
	}
}

func TestTopoOrderIgnoresSelfEdge(t *testing.T) {
	core := addr.Address(1)
	g := New()
	g.AddEdge(core, core)

	order, cycles := g.TopoOrder()
	if len(cycles) != 0 {
		t.Fatalf("cycles = %v, want none for a self-edge", cycles)
	}
	if len(order) != 1 || order[0] != core {
		t.Fatalf("order = %v, want [core]", order)
	}
}

func TestTopoOrderReportsDirectCycle(t *testing.T) {
	a := addr.Address(1)
	b := addr.Address(2)

	g := New()
	g.AddEdge(a, b)
	g.AddEdge(b, a)

	order, cycles := g.TopoOrder()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %v, want exactly one", cycles)
	}
	if len(order) != 2 {
		t.Fatalf("order = %v, want both packages still present", order)
	}
}

func TestTopoOrderKeepsUnrelatedPackagesOutOfACycle(t *testing.T) {
	a := addr.Address(1)
	b := addr.Address(2)
	c := addr.Address(3)

	g := New()
	g.AddEdge(a, b)
	g.AddEdge(b, a)
	g.AddEdge(c, a) // c depends on the cyclic pair but isn't part of it

	order, cycles := g.TopoOrder()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %v, want exactly one", cycles)
	}
	if indexOf(order, c) < indexOf(order, a) {
		t.Fatalf("order = %v, want c to still come after its dependency a", order)
	}
}
