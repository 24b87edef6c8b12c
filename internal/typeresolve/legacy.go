package typeresolve

import (
	"fmt"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/model"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// Legacy full names of the property leaf classes, in the exact cascade
// order UE_UProperty::GetType tests them.
const (
	legacyDouble      = "Class CoreUObject.DoubleProperty"
	legacyFloat       = "Class CoreUObject.FloatProperty"
	legacyInt         = "Class CoreUObject.IntProperty"
	legacyInt16       = "Class CoreUObject.Int16Property"
	legacyInt64       = "Class CoreUObject.Int64Property"
	legacyInt8        = "Class CoreUObject.Int8Property"
	legacyUInt16      = "Class CoreUObject.UInt16Property"
	legacyUInt32      = "Class CoreUObject.UInt32Property"
	legacyUInt64      = "Class CoreUObject.UInt64Property"
	legacyText        = "Class CoreUObject.TextProperty"
	legacyStr         = "Class CoreUObject.StrProperty"
	legacyClass       = "Class CoreUObject.ClassProperty"
	legacyStruct      = "Class CoreUObject.StructProperty"
	legacyName        = "Class CoreUObject.NameProperty"
	legacyBool        = "Class CoreUObject.BoolProperty"
	legacyByte        = "Class CoreUObject.ByteProperty"
	legacyArray       = "Class CoreUObject.ArrayProperty"
	legacyEnum        = "Class CoreUObject.EnumProperty"
	legacySet         = "Class CoreUObject.SetProperty"
	legacyMap         = "Class CoreUObject.MapProperty"
	legacyInterface   = "Class CoreUObject.InterfaceProperty"
	legacyMulticast   = "Class CoreUObject.MulticastDelegateProperty"
	legacyWeakObject  = "Class CoreUObject.WeakObjectProperty"
	legacyObjectBase  = "Class CoreUObject.ObjectPropertyBase"
)

// Legacy resolves a property reached through a UStruct's legacy UField
// children (Struct.Children), dispatching by a fixed is_a cascade exactly
// as UE_UProperty::GetType does.
type Legacy struct {
	r   remote.Reader
	cfg offsets.Config
	m   *model.Model
}

// NewLegacy constructs a Legacy resolver over m.
func NewLegacy(r remote.Reader, cfg offsets.Config, m *model.Model) *Legacy {
	return &Legacy{r: r, cfg: cfg, m: m}
}

func (l *Legacy) is(prop addr.Address, fullName string) bool {
	return l.m.IsA(prop, l.m.StaticClass(fullName))
}

func (l *Legacy) extra(prop addr.Address) addr.Address {
	return prop.Add(l.cfg.Property.Extra)
}

func (l *Legacy) extra2(prop addr.Address) addr.Address {
	return prop.Add(l.cfg.Property.Extra + l.r.PtrSize())
}

// Resolve dispatches prop to its (kind, type string), recursing into inner
// properties for container and struct-valued leaves.
func (l *Legacy) Resolve(prop addr.Address) Type {
	switch {
	case l.is(prop, legacyDouble):
		return Type{KindDoubleProperty, "double"}
	case l.is(prop, legacyFloat):
		return Type{KindFloatProperty, "float"}
	case l.is(prop, legacyInt):
		return Type{KindIntProperty, "int"}
	case l.is(prop, legacyInt16):
		return Type{KindInt16Property, "int16"}
	case l.is(prop, legacyInt64):
		return Type{KindInt64Property, "int64"}
	case l.is(prop, legacyInt8):
		return Type{KindInt8Property, "uint8"}
	case l.is(prop, legacyUInt16):
		return Type{KindUInt16Property, "uint16"}
	case l.is(prop, legacyUInt32):
		return Type{KindUInt32Property, "uint32"}
	case l.is(prop, legacyUInt64):
		return Type{KindUInt64Property, "uint64"}
	case l.is(prop, legacyText):
		return Type{KindTextProperty, "struct FText"}
	case l.is(prop, legacyStr):
		// original_source returns kind TextProperty here -- a documented
		// transcription bug; this resolver emits the corrected kind.
		return Type{KindStrProperty, "struct FString"}
	case l.is(prop, legacyClass):
		meta := remote.ReadPtr(l.r, l.extra2(prop))
		return Type{KindClassProperty, "struct " + l.m.GetCppName(meta) + "*"}
	case l.is(prop, legacyStruct):
		s := remote.ReadPtr(l.r, l.extra(prop))
		return Type{KindStructProperty, "struct " + l.m.GetCppName(s)}
	case l.is(prop, legacyName):
		return Type{KindNameProperty, "struct FName"}
	case l.is(prop, legacyBool):
		return Type{KindBoolProperty, l.boolTypeStr(prop)}
	case l.is(prop, legacyByte):
		e := remote.ReadPtr(l.r, l.extra(prop))
		if !e.IsNil() {
			return Type{KindByteProperty, "enum class " + l.m.Name(e)}
		}
		return Type{KindByteProperty, "char"}
	case l.is(prop, legacyArray):
		inner := remote.ReadPtr(l.r, l.extra(prop))
		return Type{KindArrayProperty, "struct TArray<" + l.Resolve(inner).Str + ">"}
	case l.is(prop, legacyEnum):
		e := remote.ReadPtr(l.r, l.extra2(prop))
		return Type{KindEnumProperty, "enum class " + l.m.Name(e)}
	case l.is(prop, legacySet):
		elem := remote.ReadPtr(l.r, l.extra(prop))
		return Type{KindSetProperty, "struct TSet<" + l.Resolve(elem).Str + ">"}
	case l.is(prop, legacyMap):
		key := remote.ReadPtr(l.r, l.extra(prop))
		val := remote.ReadPtr(l.r, l.extra2(prop))
		return Type{KindMapProperty, fmt.Sprintf("struct TMap<%s, %s>", l.Resolve(key).Str, l.Resolve(val).Str)}
	case l.is(prop, legacyInterface):
		iface := remote.ReadPtr(l.r, l.extra(prop))
		return Type{KindInterfaceProperty, "struct TScriptInterface<" + l.Resolve(iface).Str + ">"}
	case l.is(prop, legacyMulticast):
		return Type{KindMulticastDelegateProperty, "struct FScriptMulticastDelegate"}
	case l.is(prop, legacyWeakObject):
		s := remote.ReadPtr(l.r, l.extra(prop))
		return Type{KindWeakObjectProperty, "struct TWeakObjectPtr<struct " + l.m.GetCppName(s) + ">"}
	case l.is(prop, legacyObjectBase):
		cls := remote.ReadPtr(l.r, l.extra(prop))
		return Type{KindObjectProperty, "struct " + l.m.GetCppName(cls) + "*"}
	default:
		return Type{KindUnknown, l.m.Name(l.m.Class(prop))}
	}
}

// boolTypeStr reads the property-size+3 field mask byte: 0xFF means a
// full-width bool, anything else a bit-field sharing a byte (rendered as
// char; Package Builder owns the bit-field packing itself).
func (l *Legacy) boolTypeStr(prop addr.Address) string {
	if l.FieldMask(prop) == 0xFF {
		return "bool"
	}
	return "char"
}

// FieldMask exposes the Bool property's mask byte for Package Builder's
// bit-field packing.
func (l *Legacy) FieldMask(prop addr.Address) uint8 {
	return remote.ReadUint8(l.r, l.extra(prop).Add(3))
}
