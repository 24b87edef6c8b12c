package sizefix

import (
	"testing"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
)

func TestRunPropagatesRequiredSizeUpward(t *testing.T) {
	// Base reports 0x10 but its own member needs 0x18.
	base := StructShape{
		Addr:         0x1000,
		Parent:       addr.Nil,
		ReportedSize: 0x10,
		Members:      []Member{{Offset: 0x10, Size: 8}},
	}
	// Child reports a size consistent with its own members but smaller
	// than the corrected base -- must be lifted to match.
	child := StructShape{
		Addr:         0x2000,
		Parent:       0x1000,
		ReportedSize: 0x14,
		Members:      []Member{{Offset: 0x10, Size: 4}},
	}

	got := Run([]StructShape{base, child})
	if got[0x1000] != 0x18 {
		t.Fatalf("corrected base = %#x, want 0x18", got[0x1000])
	}
	if got[0x2000] != 0x18 {
		t.Fatalf("corrected child = %#x, want 0x18 (inherited from base)", got[0x2000])
	}
}

func TestRunPropagatesThroughMultipleGenerations(t *testing.T) {
	grandparent := StructShape{Addr: 1, Parent: addr.Nil, ReportedSize: 8}
	parent := StructShape{Addr: 2, Parent: 1, ReportedSize: 8}
	child := StructShape{Addr: 3, Parent: 2, ReportedSize: 8, Members: []Member{{Offset: 0x20, Size: 8}}}

	got := Run([]StructShape{grandparent, parent, child})
	if got[3] != 0x28 {
		t.Fatalf("corrected child = %#x, want 0x28", got[3])
	}
	// The fixer only lifts a struct's own size from its own members and
	// its parent's corrected size -- it never pushes a child's
	// requirement back down onto an ancestor that has no member of its
	// own demanding it.
	if got[1] != 8 {
		t.Fatalf("corrected grandparent = %#x, want unchanged 8", got[1])
	}
	if got[2] != 8 {
		t.Fatalf("corrected parent = %#x, want unchanged 8", got[2])
	}
}

func TestRunLeavesUnrelatedStructsIndependent(t *testing.T) {
	a := StructShape{Addr: 1, Parent: addr.Nil, ReportedSize: 4}
	b := StructShape{Addr: 2, Parent: addr.Nil, ReportedSize: 4, Members: []Member{{Offset: 4, Size: 4}}}

	got := Run([]StructShape{a, b})
	if got[1] != 4 {
		t.Fatalf("corrected a = %#x, want unchanged 4", got[1])
	}
	if got[2] != 8 {
		t.Fatalf("corrected b = %#x, want 8", got[2])
	}
}

func TestRunIsIdempotent(t *testing.T) {
	shapes := []StructShape{
		{Addr: 1, Parent: addr.Nil, ReportedSize: 0x10},
		{Addr: 2, Parent: 1, ReportedSize: 0x10, Members: []Member{{Offset: 0x18, Size: 8}}},
		{Addr: 3, Parent: 2, ReportedSize: 0x10},
	}

	first := Run(shapes)
	// Feed the corrected sizes back in as the new ReportedSize, exactly as
	// a second full Dump run would observe them, and confirm nothing moves.
	fedBack := make([]StructShape, len(shapes))
	for i, s := range shapes {
		s.ReportedSize = first[s.Addr]
		fedBack[i] = s
	}
	second := Run(fedBack)

	for addr, size := range first {
		if second[addr] != size {
			t.Fatalf("second Run()[%s] = %#x, want %#x (idempotence)", addr, second[addr], size)
		}
	}
}

func TestRunHandlesCycleByPreferringLargerSize(t *testing.T) {
	// A malformed but not impossible-to-represent input: two structs each
	// naming the other as parent. The max-based update still converges,
	// and the wider side's size wins.
	a := StructShape{Addr: 1, Parent: 2, ReportedSize: 0x20}
	b := StructShape{Addr: 2, Parent: 1, ReportedSize: 0x10}

	got := Run([]StructShape{a, b})
	if got[1] != 0x20 || got[2] != 0x20 {
		t.Fatalf("corrected = {1: %#x, 2: %#x}, want both 0x20", got[1], got[2])
	}
}
