// Package model is the reflection façade over remote addresses: every
// entity (object, struct, property, function, enum) is represented as the
// single addr.Address it lives at, interpreted through the active
// offsets.Config. Grounded on original_source/Dumper/wrappers.cpp's
// UE_UObject/UE_UStruct/UE_UField wrapper classes -- IsA, GetSuper,
// GetCppName, and the static-class cache below all mirror those methods.
package model

import (
	"sync"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/objecttable"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// Model resolves reflected objects against the target. It caches the
// well-known static classes (CoreUObject.Object, Engine.Actor, ...) on
// first use, the way ObjObjects.FindObject("Class ...") is memoized behind
// a function-local static in the original wrappers.
type Model struct {
	r     remote.Reader
	cfg   offsets.Config
	Table *objecttable.Table

	mu    sync.Mutex
	cache map[string]addr.Address
}

// New constructs a Model over an already-populated object table.
func New(r remote.Reader, cfg offsets.Config, table *objecttable.Table) *Model {
	return &Model{r: r, cfg: cfg, Table: table, cache: make(map[string]addr.Address)}
}

// Well-known class full names, resolved lazily through StaticClass.
const (
	ClassObject   = "Class CoreUObject.Object"
	ClassField    = "Class CoreUObject.Field"
	ClassStruct   = "Class CoreUObject.Struct"
	ClassClass    = "Class CoreUObject.Class"
	ClassFunction = "Class CoreUObject.Function"
	ClassScript   = "Class CoreUObject.ScriptStruct"
	ClassEnum     = "Class CoreUObject.Enum"
	ClassProperty = "Class CoreUObject.Property"
	ClassActor    = "Class Engine.Actor"
)

// StaticClass resolves and caches the class object named fullName.
func (m *Model) StaticClass(fullName string) addr.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.cache[fullName]; ok {
		return a
	}
	a, _ := m.Table.Find(fullName)
	m.cache[fullName] = a
	return a
}

// Class returns obj's Class pointer.
func (m *Model) Class(obj addr.Address) addr.Address {
	return m.Table.Class(obj)
}

// Outer returns obj's Outer pointer.
func (m *Model) Outer(obj addr.Address) addr.Address {
	return m.Table.Outer(obj)
}

// Package returns obj's outermost container.
func (m *Model) Package(obj addr.Address) addr.Address {
	return m.Table.Package(obj)
}

// Name returns obj's own resolved name.
func (m *Model) Name(obj addr.Address) string {
	return m.Table.Name(obj)
}

// FullName renders "<ClassName> Outer1.Outer2….Name".
func (m *Model) FullName(obj addr.Address) string {
	return m.Table.FullName(obj)
}

// Super returns a UStruct's parent struct (SuperStruct), or addr.Nil at
// the root of a hierarchy.
func (m *Model) Super(structAddr addr.Address) addr.Address {
	if structAddr.IsNil() {
		return addr.Nil
	}
	return remote.ReadPtr(m.r, structAddr.Add(m.cfg.Struct.SuperStruct))
}

// IsA reports whether obj's class is cmp or descends from it, walking the
// class-parent chain exactly as UE_UObject::IsA does.
func (m *Model) IsA(obj, cmp addr.Address) bool {
	if cmp.IsNil() {
		return false
	}
	for super := m.Class(obj); !super.IsNil(); super = m.Super(super) {
		if super == cmp {
			return true
		}
	}
	return false
}

// GetCppName prefixes A for Actor-descended classes, U for other UClass
// descendants, and F for structs -- per UE_UObject::GetCppName. obj is a
// type object (a UClass or UScriptStruct instance), not an instance of
// that type.
func (m *Model) GetCppName(obj addr.Address) string {
	prefix := "F"
	if m.IsA(obj, m.StaticClass(ClassClass)) {
		prefix = "U"
		actor := m.StaticClass(ClassActor)
		root := m.StaticClass(ClassObject)
		for c := obj; !c.IsNil(); c = m.Super(c) {
			if c == actor {
				prefix = "A"
				break
			}
			if c == root {
				prefix = "U"
				break
			}
		}
	}
	return prefix + m.Name(obj)
}

// Children walks the legacy UField singly linked list starting at
// listHead itself, following each field's Next pointer.
func (m *Model) Children(listHead addr.Address) []addr.Address {
	var out []addr.Address
	for cur := listHead; !cur.IsNil(); cur = remote.ReadPtr(m.r, cur.Add(m.cfg.Field.Next)) {
		out = append(out, cur)
	}
	return out
}

// ChildProperties walks the newer FField singly linked list.
func (m *Model) ChildProperties(listHead addr.Address) []addr.Address {
	var out []addr.Address
	for cur := listHead; !cur.IsNil(); cur = remote.ReadPtr(m.r, cur.Add(m.cfg.FField.Next)) {
		out = append(out, cur)
	}
	return out
}

// StructChildren returns structAddr's legacy UField children.
func (m *Model) StructChildren(structAddr addr.Address) []addr.Address {
	return m.Children(remote.ReadPtr(m.r, structAddr.Add(m.cfg.Struct.Children)))
}

// StructChildProperties returns structAddr's newer FField children.
func (m *Model) StructChildProperties(structAddr addr.Address) []addr.Address {
	return m.ChildProperties(remote.ReadPtr(m.r, structAddr.Add(m.cfg.Struct.ChildProperties)))
}

// PropertiesSize returns a UStruct's reported properties size, before any
// Class Size Fixer correction.
func (m *Model) PropertiesSize(structAddr addr.Address) int64 {
	return int64(remote.ReadUint32(m.r, structAddr.Add(m.cfg.Struct.PropertiesSize)))
}

// EnumNames returns a UEnum's Names TArray as a (data pointer, count)
// pair, reading the standard TArray<T> layout (Data pointer at offset 0,
// Count at offset PtrSize) at cfg.Enum.Names.
func (m *Model) EnumNames(enumAddr addr.Address) (addr.Address, uint32) {
	arr := enumAddr.Add(m.cfg.Enum.Names)
	data := remote.ReadPtr(m.r, arr)
	count := remote.ReadUint32(m.r, arr.Add(m.r.PtrSize()))
	return data, count
}

// FFieldName resolves an FField instance's own Name.
func (m *Model) FFieldName(ffield addr.Address) string {
	nameAddr := ffield.Add(m.cfg.FField.Name)
	return m.resolveFName(nameAddr)
}

// FFieldClassName resolves an FFieldClass descriptor's name. Unlike an
// FField instance, an FFieldClass IS an FName directly at its own address
// (UE_FFieldClass::GetName reads `UE_FName(object)`, no FField.Name
// offset), so this is distinct from FFieldName.
func (m *Model) FFieldClassName(class addr.Address) string {
	return m.resolveFName(class)
}

func (m *Model) resolveFName(nameAddr addr.Address) string {
	index := remote.ReadUint32(m.r, nameAddr.Add(m.cfg.FName.ComparisonIndex))
	number := remote.ReadUint32(m.r, nameAddr.Add(m.cfg.FName.Number))
	return m.Table.Names().Resolve(index, number)
}

// FFieldClass returns an FField's class pointer (an FFieldClass address,
// distinct from the legacy UClass hierarchy).
func (m *Model) FFieldClass(ffield addr.Address) addr.Address {
	return remote.ReadPtr(m.r, ffield.Add(m.cfg.FField.ClassPtr))
}

// FunctionFlags returns a UFunction's flag bitmask.
func (m *Model) FunctionFlags(fn addr.Address) uint64 {
	return remote.ReadUint64(m.r, fn.Add(m.cfg.Function.FunctionFlags))
}

// FunctionEntryPoint returns a UFunction's native entry-point pointer.
func (m *Model) FunctionEntryPoint(fn addr.Address) addr.Address {
	return remote.ReadPtr(m.r, fn.Add(m.cfg.Function.Func))
}
