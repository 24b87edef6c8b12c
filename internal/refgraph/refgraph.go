// Package refgraph orders packages for #include emission. A package's
// struct bodies can reference types declared in another package, so the
// Package Builder's output must be written in dependency order; when two
// packages reference each other directly the cycle is reported to the
// caller rather than silently broken. Nothing here splits headers or
// forward-declares across a cycle: internal/engine records each reported
// cycle as an anomaly and emits packages in the single order TopoOrder
// returns. Grounded on RefGraphSolver as referenced (but not retrievable
// in source form) from original_source/Dumper/dumper.cpp; the traversal
// is a depth-first search with three-color marking for cycle detection.
package refgraph

import "github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"

// Graph is a directed graph of package references, keyed by the
// addr.Address of each package's UPackage object.
type Graph struct {
	edges map[addr.Address]map[addr.Address]bool
	nodes []addr.Address // insertion order, for deterministic output
	seen  map[addr.Address]bool
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		edges: make(map[addr.Address]map[addr.Address]bool),
		seen:  make(map[addr.Address]bool),
	}
}

func (g *Graph) addNode(pkg addr.Address) {
	if !g.seen[pkg] {
		g.seen[pkg] = true
		g.nodes = append(g.nodes, pkg)
	}
}

// AddEdge records that fromPackage's headers need a type declared in
// toPackage. Self-edges are dropped: a package never needs to be
// ordered relative to itself.
func (g *Graph) AddEdge(fromPackage, toPackage addr.Address) {
	g.addNode(fromPackage)
	g.addNode(toPackage)
	if fromPackage == toPackage {
		return
	}
	if g.edges[fromPackage] == nil {
		g.edges[fromPackage] = make(map[addr.Address]bool)
	}
	g.edges[fromPackage][toPackage] = true
}

const (
	colorWhite = iota // unvisited
	colorGray         // on the current DFS stack
	colorBlack        // fully processed
)

// TopoOrder returns packages in reverse-postorder: every package whose
// only remaining edges close a reported cycle is still emitted as soon
// as its non-cyclic dependencies are satisfied, so a package outside
// any cycle that depends on one always comes after it. Within a
// reported cycle, relative order is whatever the DFS happened to visit
// first, and that order is final: there is no second pass.
func (g *Graph) TopoOrder() (order []addr.Address, cycles [][]addr.Address) {
	color := make(map[addr.Address]int, len(g.nodes))
	var stack []addr.Address

	var visit func(n addr.Address)
	visit = func(n addr.Address) {
		color[n] = colorGray
		stack = append(stack, n)

		for _, dep := range sortedTargets(g.edges[n], g.nodes) {
			switch color[dep] {
			case colorWhite:
				visit(dep)
			case colorGray:
				cycles = append(cycles, cyclePath(stack, dep))
			}
		}

		stack = stack[:len(stack)-1]
		color[n] = colorBlack
		order = append(order, n)
	}

	for _, n := range g.nodes {
		if color[n] == colorWhite {
			visit(n)
		}
	}

	return order, cycles
}

// cyclePath returns the slice of the current DFS stack from dep's first
// occurrence to the top, the back-edge that closed the cycle.
func cyclePath(stack []addr.Address, dep addr.Address) []addr.Address {
	for i, n := range stack {
		if n == dep {
			out := make([]addr.Address, len(stack)-i)
			copy(out, stack[i:])
			return out
		}
	}
	return nil
}

// sortedTargets returns dep's keys in nodes' insertion order, so
// TopoOrder is deterministic across runs over the same AddEdge sequence.
func sortedTargets(dep map[addr.Address]bool, nodes []addr.Address) []addr.Address {
	if len(dep) == 0 {
		return nil
	}
	out := make([]addr.Address, 0, len(dep))
	for _, n := range nodes {
		if dep[n] {
			out = append(out, n)
		}
	}
	return out
}
