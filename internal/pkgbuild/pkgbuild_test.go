package pkgbuild

import (
	"strings"
	"testing"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/model"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/namepool"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/objecttable"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/typeresolve"
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

// fixture mirrors internal/typeresolve's: a "Class" metaclass, a
// "CoreUObject" package, plus a "Property"/"Function" base class pair so
// BuildStruct's IsA-based dispatch between property/function children
// resolves the way it would against a real target.
type fixture struct {
	f           *remote.Fake
	cfg         offsets.Config
	pool        *namepool.Pool
	m           *model.Model
	classMeta   addr.Address
	pkg         addr.Address
	propertyCls addr.Address
	functionCls addr.Address
	nextName    int64
	nextObj     []addr.Address
	chunk       addr.Address
	numObj      int
}

func newFixture() *fixture {
	f := remote.NewFake()
	cfg := testCfg()
	pool := namepool.New(f, cfg.NameEntry, []addr.Address{0x1000}, nil)
	fx := &fixture{f: f, cfg: cfg, pool: pool, chunk: addr.Address(0x9000)}

	fx.classMeta = addr.Address(0xC000)
	fx.pkg = addr.Address(0xC100)
	fx.propertyCls = addr.Address(0xC200)
	fx.functionCls = addr.Address(0xC300)

	classIdx := fx.writeName("Class")
	coreIdx := fx.writeName("CoreUObject")
	propIdx := fx.writeName("Property")
	fnIdx := fx.writeName("Function")

	fx.writeObject(fx.classMeta, fx.classMeta, fx.pkg, classIdx)
	fx.writeObject(fx.pkg, addr.Nil, addr.Nil, coreIdx)
	fx.writeObject(fx.propertyCls, fx.classMeta, fx.pkg, propIdx)
	fx.writeObject(fx.functionCls, fx.classMeta, fx.pkg, fnIdx)

	fx.addToTable(fx.classMeta, fx.pkg, fx.propertyCls, fx.functionCls)
	return fx
}

func (fx *fixture) writeName(s string) uint32 {
	entry := addr.Address(0x1000).Add(fx.nextName)
	fx.f.WriteUint16(entry, uint16(len(s))<<6)
	fx.f.WriteAt(entry.Add(2), []byte(s))
	idx := uint32(fx.nextName / fx.cfg.NameEntry.Stride)
	fx.nextName += int64(len(s)+1) * fx.cfg.NameEntry.Stride
	return idx
}

func (fx *fixture) writeFName(at addr.Address, poolIndex uint32) {
	fx.f.WriteUint32(at.Add(fx.cfg.FName.ComparisonIndex), poolIndex)
	fx.f.WriteUint32(at.Add(fx.cfg.FName.Number), 0)
}

func (fx *fixture) writeObject(obj, class, outer addr.Address, poolIndex uint32) {
	fx.f.WritePtr(obj.Add(fx.cfg.Object.Class), class)
	fx.f.WritePtr(obj.Add(fx.cfg.Object.Outer), outer)
	fx.writeFName(obj.Add(fx.cfg.Object.Name), poolIndex)
}

func (fx *fixture) addToTable(objs ...addr.Address) {
	for _, o := range objs {
		fx.f.WritePtr(fx.chunk.Add(int64(fx.numObj)*fx.cfg.ObjectArray.ItemStride), o)
		fx.numObj++
	}
	tbl := objecttable.New(fx.f, fx.cfg, []addr.Address{fx.chunk}, fx.numObj, fx.pool)
	fx.m = model.New(fx.f, fx.cfg, tbl)
}

// newLeafClass registers a findable "Class CoreUObject.<name>" leaf class
// whose Super is fx.propertyCls, so IsA(prop, StaticClass(ClassProperty))
// resolves true for instances of it.
func (fx *fixture) newLeafClass(at addr.Address, name string) addr.Address {
	idx := fx.writeName(name)
	fx.writeObject(at, fx.classMeta, fx.pkg, idx)
	fx.f.WritePtr(at.Add(fx.cfg.Struct.SuperStruct), fx.propertyCls)
	fx.addToTable(at)
	return at
}

func (fx *fixture) writeProperty(at, class addr.Address, name string, offset, arrayDim, elemSize int64, flags uint64) {
	idx := fx.writeName(name)
	fx.writeObject(at, class, addr.Nil, idx)
	fx.f.WriteUint32(at.Add(fx.cfg.Property.Offset), uint32(offset))
	fx.f.WriteUint32(at.Add(fx.cfg.Property.ArrayDim), uint32(arrayDim))
	fx.f.WriteUint32(at.Add(fx.cfg.Property.ElementSize), uint32(elemSize))
	fx.f.WriteAt(at.Add(fx.cfg.Property.PropertyFlags), u64le(flags))
}

func u64le(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func TestBuildStructSimpleMemberAndTrailingPadding(t *testing.T) {
	fx := newFixture()
	intLeaf := fx.newLeafClass(addr.Address(0xD000), "IntProperty")

	structAddr := addr.Address(0xE000)
	structIdx := fx.writeName("MyStruct")
	fx.writeObject(structAddr, addr.Nil, addr.Nil, structIdx) // Class left Nil: not-a UClass
	fx.f.WriteUint32(structAddr.Add(fx.cfg.Struct.PropertiesSize), 8)
	fx.addToTable(structAddr)

	prop := addr.Address(0xE100)
	fx.writeProperty(prop, intLeaf, "Value", 0, 1, 4, 0)
	fx.f.WritePtr(structAddr.Add(fx.cfg.Struct.Children), prop)

	legacy := typeresolve.NewLegacy(fx.f, fx.cfg, fx.m)
	newRes := typeresolve.NewNew(fx.f, fx.cfg, fx.m)
	b := New(fx.f, fx.cfg, fx.m, legacy, newRes, nil, nil)

	s := b.BuildStruct(structAddr)
	if s.CppName != "struct FMyStruct" {
		t.Fatalf("CppName = %q, want %q", s.CppName, "struct FMyStruct")
	}
	if len(s.Members) != 2 {
		t.Fatalf("Members = %+v, want 2 (Value, trailing padding)", s.Members)
	}
	if s.Members[0].Name != "Value" || s.Members[0].Type != "int" || s.Members[0].Offset != 0 {
		t.Fatalf("Members[0] = %+v, want Value/int/0", s.Members[0])
	}
	if !strings.HasPrefix(s.Members[1].Name, "pad_4") {
		t.Fatalf("Members[1].Name = %q, want trailing pad_4 padding", s.Members[1].Name)
	}

	var hasStaticClass bool
	for _, fn := range s.Functions {
		if fn.FuncName == "StaticClass" {
			hasStaticClass = true
		}
	}
	if !hasStaticClass {
		t.Fatal("BuildStruct must inject a synthetic StaticClass() function")
	}
}

func TestBuildStructInjectsGWorldOnUWorld(t *testing.T) {
	fx := newFixture()
	structAddr := addr.Address(0xE200)
	structIdx := fx.writeName("World")
	fx.writeObject(structAddr, fx.classMeta, fx.pkg, structIdx)
	fx.f.WriteUint32(structAddr.Add(fx.cfg.Struct.PropertiesSize), 0)
	fx.addToTable(structAddr)

	legacy := typeresolve.NewLegacy(fx.f, fx.cfg, fx.m)
	newRes := typeresolve.NewNew(fx.f, fx.cfg, fx.m)
	b := New(fx.f, fx.cfg, fx.m, legacy, newRes, nil, nil)

	s := b.BuildStruct(structAddr)
	if len(s.Members) == 0 || s.Members[0].Name != "GWorld" {
		t.Fatalf("Members = %+v, want GWorld injected first", s.Members)
	}
	if s.Members[0].Type != "static class UWorld**" {
		t.Fatalf("GWorld member type = %q, want %q", s.Members[0].Type, "static class UWorld**")
	}
}

func TestBuildEnumAssignsPositionalValuesAndUnderlyingType(t *testing.T) {
	fx := newFixture()
	enumAddr := addr.Address(0xE300)
	enumIdx := fx.writeName("EColor")
	fx.writeObject(enumAddr, addr.Nil, addr.Nil, enumIdx)
	fx.addToTable(enumAddr)

	namesData := addr.Address(0xF000)
	fx.f.WritePtr(enumAddr.Add(fx.cfg.Enum.Names), namesData)
	fx.f.WriteUint32(enumAddr.Add(fx.cfg.Enum.Names).Add(fx.f.PtrSize()), 2)

	pairSize := ((fx.cfg.FName.Number + 4 + 7) &^ 7) + 8
	redIdx := fx.writeName("EColor::Red")
	blueIdx := fx.writeName("Blue")
	fx.writeFName(namesData, redIdx)
	fx.writeFName(namesData.Add(pairSize), blueIdx)

	legacy := typeresolve.NewLegacy(fx.f, fx.cfg, fx.m)
	newRes := typeresolve.NewNew(fx.f, fx.cfg, fx.m)
	b := New(fx.f, fx.cfg, fx.m, legacy, newRes, nil, nil)

	e, ok := b.BuildEnum(enumAddr)
	if !ok {
		t.Fatal("BuildEnum returned ok = false for a non-empty enum")
	}
	if len(e.Members) != 2 || e.Members[0] != "Red = 0" || e.Members[1] != "Blue = 1" {
		t.Fatalf("Members = %v, want [Red = 0, Blue = 1]", e.Members)
	}
	if e.CppName != "enum class EColor : uint8_t" {
		t.Fatalf("CppName = %q, want %q", e.CppName, "enum class EColor : uint8_t")
	}
}

func TestBuildEnumOmitsZeroMemberEnum(t *testing.T) {
	fx := newFixture()
	enumAddr := addr.Address(0xE400)
	enumIdx := fx.writeName("EEmpty")
	fx.writeObject(enumAddr, addr.Nil, addr.Nil, enumIdx)
	fx.addToTable(enumAddr)
	// Names left unset: EnumNames reports a count of 0 for this object.

	legacy := typeresolve.NewLegacy(fx.f, fx.cfg, fx.m)
	newRes := typeresolve.NewNew(fx.f, fx.cfg, fx.m)
	b := New(fx.f, fx.cfg, fx.m, legacy, newRes, nil, nil)

	e, ok := b.BuildEnum(enumAddr)
	if ok {
		t.Fatalf("BuildEnum(zero names) ok = true, want false (got %+v)", e)
	}
}

func TestBuildStructFlagsZeroSizeMemberAsSuspectAndRecordsAnomaly(t *testing.T) {
	fx := newFixture()
	// A leaf class whose ElementSize is never written, so reading it
	// back yields zero -- a property that resolves to zero total size.
	zeroLeaf := fx.newLeafClass(addr.Address(0xD100), "ByteProperty")

	structAddr := addr.Address(0xE500)
	structIdx := fx.writeName("MyZeroStruct")
	fx.writeObject(structAddr, addr.Nil, addr.Nil, structIdx)
	fx.f.WriteUint32(structAddr.Add(fx.cfg.Struct.PropertiesSize), 0)
	fx.addToTable(structAddr)

	prop := addr.Address(0xE600)
	fx.writeProperty(prop, zeroLeaf, "Empty", 0, 0, 0, 0)
	fx.f.WritePtr(structAddr.Add(fx.cfg.Struct.Children), prop)

	legacy := typeresolve.NewLegacy(fx.f, fx.cfg, fx.m)
	newRes := typeresolve.NewNew(fx.f, fx.cfg, fx.m)
	b := New(fx.f, fx.cfg, fx.m, legacy, newRes, nil, nil)

	s := b.BuildStruct(structAddr)
	if len(s.Members) == 0 || s.Members[0].Name != "Empty" {
		t.Fatalf("Members = %+v, want the zero-size member kept (not dropped)", s.Members)
	}
	if !s.Members[0].Suspect {
		t.Fatalf("Members[0].Suspect = false, want true for a zero-size member")
	}
	if len(b.Anomalies) != 1 || b.Anomalies[0].Detail != "zero-size member" {
		t.Fatalf("Anomalies = %+v, want one zero-size member anomaly", b.Anomalies)
	}
}
