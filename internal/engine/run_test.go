package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

func testCfg() offsets.Config {
	return offsets.Config{
		NameEntry: offsets.NameEntry{HeaderSize: 2, WideBit: 0, LenBitShift: 6, LenBits: 10, Stride: 2, BlockShift: 16, BlockBits: 16},
		FName:     offsets.FName{ComparisonIndex: 0, Number: 4},
		Object:    offsets.Object{Index: 0x0c, Class: 0x10, Outer: 0x18, Name: 0x20},
		Field:     offsets.Field{Next: 0x28},
		Struct:    offsets.Struct{SuperStruct: 0x30, Children: 0x38, ChildProperties: 0x40, PropertiesSize: 0x48},
		Function:  offsets.Function{FunctionFlags: 0xb8, Func: 0xc8},
		Property:  offsets.Property{ArrayDim: 0x4c, ElementSize: 0x50, PropertyFlags: 0x58, Offset: 0x6c, Extra: 0x50},
		FProperty: offsets.Property{ArrayDim: 0x38, ElementSize: 0x3c, PropertyFlags: 0x40, Offset: 0x4c, SizeOfSelf: 0x20, Extra: 0x3c},
		FField:    offsets.FField{ClassPtr: 0x08, Name: 0x20, Next: 0x10},
		Enum:      offsets.Enum{Names: 0x38},

		ObjectArray:          offsets.ObjectArray{ItemStride: 0x18, ItemObjectOffset: 0},
		ObjectTableChunkSize: 64,
	}
}

// newBareContext builds a Context holding a package object and one
// plain object inside it -- enough for engine.Run's "-p" pass
// (names+objects, no package filtering) to walk without a nil-pointer
// fault. Deliberately registers no "Class"/"Struct"/"Enum"/"Function"
// metaclass object, so every model.StaticClass lookup engine.Run's
// full pass depends on resolves to addr.Nil and every IsA check
// against it is vacuously false -- which is exactly the "zero
// packages after filtering" condition the second test below exercises.
func newBareContext(t *testing.T) (*Context, *remote.Fake) {
	t.Helper()
	f := remote.NewFake()
	cfg := testCfg()

	var nextName int64
	writeName := func(s string) uint32 {
		entry := addr.Address(0x1000).Add(nextName)
		f.WriteUint16(entry, uint16(len(s))<<6)
		f.WriteAt(entry.Add(2), []byte(s))
		idx := uint32(nextName / cfg.NameEntry.Stride)
		// Entries are packed back to back at their stride-aligned size,
		// the layout namepool.Pool.Dump walks.
		nextName += (cfg.NameEntry.HeaderSize + int64(len(s)) + cfg.NameEntry.Stride - 1) / cfg.NameEntry.Stride * cfg.NameEntry.Stride
		return idx
	}
	writeObject := func(obj, class, outer addr.Address, poolIndex uint32) {
		f.WritePtr(obj.Add(cfg.Object.Class), class)
		f.WritePtr(obj.Add(cfg.Object.Outer), outer)
		f.WriteUint32(obj.Add(cfg.Object.Name).Add(cfg.FName.ComparisonIndex), poolIndex)
	}

	pkg := addr.Address(0xC100)
	other := addr.Address(0xC200)
	coreIdx := writeName("CoreUObject")
	otherIdx := writeName("Other")
	writeObject(pkg, addr.Nil, addr.Nil, coreIdx)
	writeObject(other, addr.Nil, pkg, otherIdx)

	chunk := addr.Address(0x9000)
	f.WritePtr(chunk, pkg)
	f.WritePtr(chunk.Add(cfg.ObjectArray.ItemStride), other)

	ctx := New(f, cfg, Globals{
		NameBlocks:   []addr.Address{0x1000},
		ObjectChunks: []addr.Address{chunk},
		NumObjects:   2,
	}, nil, nil)
	return ctx, f
}

func TestRunNamesOnlyPass(t *testing.T) {
	ctx, _ := newBareContext(t)
	dir := t.TempDir()

	res, err := Run(ctx, Options{Directory: dir, Full: false})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.NameCount != 2 {
		t.Errorf("NameCount = %d, want 2", res.NameCount)
	}
	if res.ObjectCount != 2 {
		t.Errorf("ObjectCount = %d, want 2", res.ObjectCount)
	}

	names, err := os.ReadFile(filepath.Join(dir, "NamesDump.txt"))
	if err != nil {
		t.Fatalf("reading NamesDump.txt: %v", err)
	}
	if !strings.Contains(string(names), "CoreUObject") {
		t.Errorf("NamesDump.txt missing CoreUObject: %s", names)
	}

	objects, err := os.ReadFile(filepath.Join(dir, "ObjectsDump.txt"))
	if err != nil {
		t.Fatalf("reading ObjectsDump.txt: %v", err)
	}
	if !strings.Contains(string(objects), "CoreUObject") {
		t.Errorf("ObjectsDump.txt missing CoreUObject: %s", objects)
	}

	if _, err := os.Stat(filepath.Join(dir, "SDK")); err == nil {
		t.Errorf("SDK directory should not be created on a names-only pass")
	}
}

func TestRunFullPassReturnsZeroPackagesWhenNothingQualifies(t *testing.T) {
	ctx, _ := newBareContext(t)
	dir := t.TempDir()

	_, err := Run(ctx, Options{Directory: dir, Full: true})
	if err != ErrZeroPackages {
		t.Fatalf("Run error = %v, want ErrZeroPackages", err)
	}
}
