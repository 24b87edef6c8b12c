// Package objecttable enumerates the target's reflected objects through the
// engine's two-level GUObjectArray: a slice of chunk base pointers, each
// chunk holding a fixed run of FUObjectItem slots. Grounded on
// original_source/Dumper/wrappers.cpp's ObjObjects wrapper (Find, Dump,
// ForEachObjectOfClass) and, for the two-level indexing shape, on
// golang-debug/core/mapping.go's page-table lookup over chunked storage.
package objecttable

import (
	"strings"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/namepool"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// Table is a read-only view over the target's object array.
type Table struct {
	r           remote.Reader
	cfg         offsets.Config
	chunks      []addr.Address
	chunkSize   int
	numElements int
	names       *namepool.Pool
}

// New constructs a Table over chunks (the decoded array of chunk base
// pointers), reporting numElements live slots across them.
func New(r remote.Reader, cfg offsets.Config, chunks []addr.Address, numElements int, names *namepool.Pool) *Table {
	return &Table{r: r, cfg: cfg, chunks: chunks, chunkSize: cfg.ObjectTableChunkSize, numElements: numElements, names: names}
}

// Names returns the name pool backing this table's name resolution.
func (t *Table) Names() *namepool.Pool {
	return t.names
}

// Len reports the number of live slots.
func (t *Table) Len() int {
	return t.numElements
}

// At resolves slot index i to its UObject pointer. It reports false for an
// out-of-range index or a slot holding a null object.
func (t *Table) At(i int) (addr.Address, bool) {
	if i < 0 || i >= t.numElements || t.chunkSize <= 0 {
		return addr.Nil, false
	}
	chunk := i / t.chunkSize
	slot := i % t.chunkSize
	if chunk < 0 || chunk >= len(t.chunks) {
		return addr.Nil, false
	}
	item := t.chunks[chunk].Add(int64(slot) * t.cfg.ObjectArray.ItemStride)
	obj := remote.ReadPtr(t.r, item.Add(t.cfg.ObjectArray.ItemObjectOffset))
	if obj.IsNil() {
		return addr.Nil, false
	}
	return obj, true
}

// ForEach walks every live object, stopping early when yield returns false.
func (t *Table) ForEach(yield func(obj addr.Address) bool) {
	for i := 0; i < t.numElements; i++ {
		obj, ok := t.At(i)
		if !ok {
			continue
		}
		if !yield(obj) {
			return
		}
	}
}

// ForEachOfClass walks every live object whose Class pointer equals class
// exactly (no inheritance test), mirroring ObjObjects.ForEachObjectOfClass.
func (t *Table) ForEachOfClass(class addr.Address, yield func(obj addr.Address) bool) {
	t.ForEach(func(obj addr.Address) bool {
		if t.classOf(obj) != class {
			return true
		}
		return yield(obj)
	})
}

// Dump walks every live object in slot order.
func (t *Table) Dump(yield func(index int, obj addr.Address) bool) {
	for i := 0; i < t.numElements; i++ {
		obj, ok := t.At(i)
		if !ok {
			continue
		}
		if !yield(i, obj) {
			return
		}
	}
}

// Class returns obj's Class pointer.
func (t *Table) Class(obj addr.Address) addr.Address {
	return remote.ReadPtr(t.r, obj.Add(t.cfg.Object.Class))
}

// Outer returns obj's Outer pointer, or addr.Nil for a top-level package.
func (t *Table) Outer(obj addr.Address) addr.Address {
	return remote.ReadPtr(t.r, obj.Add(t.cfg.Object.Outer))
}

// Index returns obj's slot index in GUObjectArray.
func (t *Table) Index(obj addr.Address) uint32 {
	return remote.ReadUint32(t.r, obj.Add(t.cfg.Object.Index))
}

func (t *Table) classOf(obj addr.Address) addr.Address { return t.Class(obj) }

func (t *Table) outerOf(obj addr.Address) addr.Address { return t.Outer(obj) }

// Name resolves an object's own (non-qualified) name.
func (t *Table) Name(obj addr.Address) string {
	nameAddr := obj.Add(t.cfg.Object.Name)
	index := remote.ReadUint32(t.r, nameAddr.Add(t.cfg.FName.ComparisonIndex))
	number := remote.ReadUint32(t.r, nameAddr.Add(t.cfg.FName.Number))
	return t.names.Resolve(index, number)
}

// FullName renders "<ClassName> Outer1.Outer2….Name", exactly per
// UE_UObject::GetFullName in original_source/Dumper/wrappers.cpp.
func (t *Table) FullName(obj addr.Address) string {
	var outers []string
	for outer := t.outerOf(obj); !outer.IsNil(); outer = t.outerOf(outer) {
		outers = append(outers, t.Name(outer))
	}
	var b strings.Builder
	b.WriteString(t.Name(t.classOf(obj)))
	b.WriteByte(' ')
	for i := len(outers) - 1; i >= 0; i-- {
		b.WriteString(outers[i])
		b.WriteByte('.')
	}
	b.WriteString(t.Name(obj))
	return b.String()
}

// Package returns obj's outermost non-null container, or addr.Nil if obj
// has no outer (obj is itself a top-level package).
func (t *Table) Package(obj addr.Address) addr.Address {
	var pkg addr.Address
	for outer := t.outerOf(obj); !outer.IsNil(); outer = t.outerOf(outer) {
		pkg = outer
	}
	return pkg
}

// Find returns the first live object whose full name equals fullName.
func (t *Table) Find(fullName string) (addr.Address, bool) {
	var found addr.Address
	var ok bool
	t.ForEach(func(obj addr.Address) bool {
		if t.FullName(obj) == fullName {
			found, ok = obj, true
			return false
		}
		return true
	})
	return found, ok
}
