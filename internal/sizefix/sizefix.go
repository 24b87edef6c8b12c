// Package sizefix repairs undersized struct sizes before Package Builder
// renders any member list. Engine reflection occasionally reports a
// struct's properties-size smaller than the space its own members
// consume, or smaller than its parent's; this package raises each struct
// to its own members' extent and to its parent's corrected size, passing
// sizes down the inheritance chain to a fixed point (a child's members
// never raise an ancestor), the same worklist-to-convergence idiom
// golang-debug/internal/gocore/reverse.go uses for reverse-edge
// propagation, adapted here from edge-counting to size-propagation.
package sizefix

import "github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"

// Member is the (offset, size) pair the fixer needs from one direct
// property of a struct -- nothing else about the property matters here.
type Member struct {
	Offset int64
	Size   int64
}

// StructShape is the fixer's entire view of one struct: its own address,
// its parent's address (addr.Nil at the root of a hierarchy), the size
// the engine itself reports, and its direct members. internal/engine
// builds these directly off the Reflection Model before any rendering,
// independently of the richer record Package Builder later produces for
// emission -- sizefix has no knowledge of pkgbuild's output types, so
// Run can run strictly before Package Builder processes a single
// package, matching the `dump objects -> fix class sizes -> process each
// package` order in internal/engine.
type StructShape struct {
	Addr         addr.Address
	Parent       addr.Address
	ReportedSize int64
	Members      []Member
}

// required returns max(offset+size) across s's direct members, 0 if it
// has none.
func required(s StructShape) int64 {
	var r int64
	for _, m := range s.Members {
		if v := m.Offset + m.Size; v > r {
			r = v
		}
	}
	return r
}

// Run computes the corrected size of every struct in shapes, iterating
// corrected(S) <- max(corrected(S), required(S), corrected(parent(S)))
// to a fixed point. Convergence is bounded by inheritance depth: each
// round can only raise a struct's corrected size to at least its
// parent's, so after at most len(shapes) rounds no further round can
// change anything. Cycles (which should not occur in a real inheritance
// graph, but are not assumed impossible here) are handled by the same
// max-based update: whichever side of the cycle is wider wins, and the
// pass still terminates since sizes only ever grow.
func Run(shapes []StructShape) map[addr.Address]int64 {
	corrected := make(map[addr.Address]int64, len(shapes))
	req := make(map[addr.Address]int64, len(shapes))
	parent := make(map[addr.Address]addr.Address, len(shapes))
	for _, s := range shapes {
		corrected[s.Addr] = s.ReportedSize
		req[s.Addr] = required(s)
		parent[s.Addr] = s.Parent
	}

	for round := 0; round <= len(shapes); round++ {
		changed := false
		for _, s := range shapes {
			cur := corrected[s.Addr]
			next := cur
			if req[s.Addr] > next {
				next = req[s.Addr]
			}
			if p := parent[s.Addr]; !p.IsNil() {
				if corrected[p] > next {
					next = corrected[p]
				}
			}
			if next != cur {
				corrected[s.Addr] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return corrected
}
