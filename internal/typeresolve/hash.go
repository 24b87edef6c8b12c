package typeresolve

import (
	"fmt"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/model"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// fnv1a32 stands in for the compile-time hash UE_FProperty::GetType
// switches on (an FNV-style hash of the FFieldClass name); here it is an
// ordinary runtime function, applied once per name when newHash is built
// and once per property in Resolve. The exact hash function
// used by the original `hash/hash.h` header was not part of the retrieved
// source; FNV-1a is the standard choice for a string-keyed switch like
// this one and is documented as an assumption in DESIGN.md.
func fnv1a32(s string) uint32 {
	const (
		offsetBasis = 2166136261
		prime       = 16777619
	)
	h := uint32(offsetBasis)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// newHashNames lists every FFieldClass name the switch in
// UE_FProperty::GetType recognizes. newHash below maps each one's FNV hash
// back to the plain name, so Resolve can recover the exact case (not just
// a collapsed Kind) after hashing.
var newHashNames = []string{
	"StructProperty", "ObjectProperty", "SoftObjectProperty", "FloatProperty",
	"ByteProperty", "BoolProperty", "IntProperty", "Int8Property",
	"Int16Property", "Int64Property", "UInt16Property", "UInt32Property",
	"UInt64Property", "NameProperty", "DelegateProperty", "SetProperty",
	"ArrayProperty", "WeakObjectProperty", "StrProperty", "TextProperty",
	"MulticastSparseDelegateProperty", "EnumProperty", "DoubleProperty",
	"MulticastDelegateProperty", "ClassProperty", "MulticastInlineDelegateProperty",
	"MapProperty", "InterfaceProperty", "FieldPathProperty", "SoftClassProperty",
}

var newHash = func() map[uint32]string {
	m := make(map[uint32]string, len(newHashNames))
	for _, name := range newHashNames {
		m[fnv1a32(name)] = name
	}
	return m
}()

// New resolves a property reached through a UStruct's newer FField
// children (Struct.ChildProperties), dispatching by a hash of the
// FFieldClass name exactly as UE_FProperty::GetType does.
type New struct {
	r   remote.Reader
	cfg offsets.Config
	m   *model.Model
}

// NewNew constructs a New resolver over m.
func NewNew(r remote.Reader, cfg offsets.Config, m *model.Model) *New {
	return &New{r: r, cfg: cfg, m: m}
}

func (n *New) extra(prop addr.Address) addr.Address {
	return prop.Add(n.cfg.FProperty.Extra)
}

func (n *New) extra2(prop addr.Address) addr.Address {
	return prop.Add(n.cfg.FProperty.Extra + n.r.PtrSize())
}

// Resolve dispatches prop to its (kind, type string). className and hash
// are computed once and switched on directly: two classes
// (MulticastDelegateProperty / MulticastInlineDelegateProperty) share a
// Kind but render distinct strings, so the switch keys on the recovered
// name rather than the collapsed Kind.
func (n *New) Resolve(prop addr.Address) Type {
	className := n.m.FFieldClassName(n.m.FFieldClass(prop))
	name, known := newHash[fnv1a32(className)]
	if !known {
		return Type{KindUnknown, className}
	}

	switch name {
	case "StructProperty":
		s := remote.ReadPtr(n.r, n.extra(prop))
		return Type{KindStructProperty, "struct " + n.m.GetCppName(s)}
	case "ObjectProperty":
		cls := remote.ReadPtr(n.r, n.extra(prop))
		return Type{KindObjectProperty, "struct " + n.m.GetCppName(cls) + "*"}
	case "SoftObjectProperty":
		cls := remote.ReadPtr(n.r, n.extra(prop))
		return Type{KindSoftObjectProperty, "struct TSoftObjectPtr<" + n.m.GetCppName(cls) + ">"}
	case "FloatProperty":
		return Type{KindFloatProperty, "float"}
	case "ByteProperty":
		e := remote.ReadPtr(n.r, n.extra(prop))
		if !e.IsNil() {
			return Type{KindByteProperty, "enum class " + n.m.Name(e)}
		}
		return Type{KindByteProperty, "char"}
	case "BoolProperty":
		return Type{KindBoolProperty, n.boolTypeStr(prop)}
	case "IntProperty":
		return Type{KindIntProperty, "int32_t"}
	case "Int8Property":
		return Type{KindInt8Property, "int8_t"}
	case "Int16Property":
		return Type{KindInt16Property, "int16_t"}
	case "Int64Property":
		return Type{KindInt64Property, "int64_t"}
	case "UInt16Property":
		return Type{KindUInt16Property, "uint16_t"}
	case "UInt32Property":
		return Type{KindUInt32Property, "uint32_t"}
	case "UInt64Property":
		return Type{KindUInt64Property, "uint64_t"}
	case "NameProperty":
		return Type{KindNameProperty, "struct FName"}
	case "DelegateProperty":
		return Type{KindDelegateProperty, "struct FDelegate"}
	case "SetProperty":
		elem := remote.ReadPtr(n.r, n.extra(prop))
		return Type{KindSetProperty, "struct TSet<" + n.Resolve(elem).Str + ">"}
	case "ArrayProperty":
		inner := remote.ReadPtr(n.r, n.extra(prop))
		return Type{KindArrayProperty, "struct TArray<" + n.Resolve(inner).Str + ">"}
	case "WeakObjectProperty":
		s := remote.ReadPtr(n.r, n.extra(prop))
		return Type{KindWeakObjectProperty, "struct TWeakObjectPtr<struct " + n.m.GetCppName(s) + ">"}
	case "StrProperty":
		return Type{KindStrProperty, "struct FString"}
	case "TextProperty":
		return Type{KindTextProperty, "struct FText"}
	case "MulticastSparseDelegateProperty":
		return Type{KindMulticastSparseDelegateProperty, "struct FMulticastSparseDelegate"}
	case "EnumProperty":
		e := remote.ReadPtr(n.r, n.extra2(prop))
		return Type{KindEnumProperty, "enum class " + n.m.Name(e)}
	case "DoubleProperty":
		return Type{KindDoubleProperty, "double"}
	case "MulticastDelegateProperty":
		return Type{KindMulticastDelegateProperty, "FMulticastDelegate"}
	case "ClassProperty":
		meta := remote.ReadPtr(n.r, n.extra(prop))
		return Type{KindClassProperty, "struct " + n.m.GetCppName(meta) + "*"}
	case "MulticastInlineDelegateProperty":
		return Type{KindMulticastDelegateProperty, "struct FMulticastInlineDelegate"}
	case "MapProperty":
		key := remote.ReadPtr(n.r, n.extra(prop))
		val := remote.ReadPtr(n.r, n.extra2(prop))
		return Type{KindMapProperty, fmt.Sprintf("struct TMap<%s, %s>", n.Resolve(key).Str, n.Resolve(val).Str)}
	case "InterfaceProperty":
		cls := remote.ReadPtr(n.r, n.extra(prop))
		return Type{KindInterfaceProperty, "struct TScriptInterface<I" + n.m.Name(cls) + ">"}
	case "FieldPathProperty":
		nameAddr := n.extra(prop)
		index := remote.ReadUint32(n.r, nameAddr.Add(n.cfg.FName.ComparisonIndex))
		number := remote.ReadUint32(n.r, nameAddr.Add(n.cfg.FName.Number))
		return Type{KindFieldPathProperty, "struct TFieldPath<F" + n.m.Table.Names().Resolve(index, number) + ">"}
	case "SoftClassProperty":
		return Type{KindSoftClassProperty, "struct TSoftClassPtr<UObject>"}
	default:
		return Type{KindUnknown, className}
	}
}

// boolTypeStr mirrors Legacy.boolTypeStr for the FProperty-based Bool leaf.
func (n *New) boolTypeStr(prop addr.Address) string {
	if n.FieldMask(prop) == 0xFF {
		return "bool"
	}
	return "char"
}

// FieldMask exposes the Bool property's mask byte for Package Builder.
func (n *New) FieldMask(prop addr.Address) uint8 {
	return remote.ReadUint8(n.r, n.extra(prop).Add(3))
}
