// Package typeresolve maps a reflected property to a (semantic kind,
// rendered C++-style type string) pair, recursively for container and
// struct-valued properties. Grounded on UE_UProperty::GetType (legacy
// is_a cascade) and UE_FProperty::GetType (hashed dispatch) in
// original_source/Dumper/wrappers.cpp.
package typeresolve

// Kind is the semantic category a property resolves to. Package Builder
// uses it to decide bit-field packing (Bool) and little else; the
// rendered type string carries the rest.
type Kind string

const (
	KindUnknown                         Kind = "Unknown"
	KindDoubleProperty                  Kind = "DoubleProperty"
	KindFloatProperty                   Kind = "FloatProperty"
	KindIntProperty                     Kind = "IntProperty"
	KindInt8Property                    Kind = "Int8Property"
	KindInt16Property                   Kind = "Int16Property"
	KindInt64Property                   Kind = "Int64Property"
	KindUInt16Property                  Kind = "UInt16Property"
	KindUInt32Property                  Kind = "UInt32Property"
	KindUInt64Property                  Kind = "UInt64Property"
	KindNameProperty                    Kind = "NameProperty"
	KindDelegateProperty                Kind = "DelegateProperty"
	KindSetProperty                     Kind = "SetProperty"
	KindArrayProperty                   Kind = "ArrayProperty"
	KindWeakObjectProperty              Kind = "WeakObjectProperty"
	KindStrProperty                     Kind = "StrProperty"
	KindTextProperty                    Kind = "TextProperty"
	KindMulticastSparseDelegateProperty Kind = "MulticastSparseDelegateProperty"
	KindEnumProperty                    Kind = "EnumProperty"
	KindMulticastDelegateProperty       Kind = "MulticastDelegateProperty"
	KindClassProperty                   Kind = "ClassProperty"
	KindMapProperty                     Kind = "MapProperty"
	KindInterfaceProperty               Kind = "InterfaceProperty"
	KindFieldPathProperty               Kind = "FieldPathProperty"
	KindSoftClassProperty               Kind = "SoftClassProperty"
	KindStructProperty                  Kind = "StructProperty"
	KindObjectProperty                  Kind = "ObjectProperty"
	KindSoftObjectProperty              Kind = "SoftObjectProperty"
	KindByteProperty                    Kind = "ByteProperty"
	KindBoolProperty                    Kind = "BoolProperty"
)

// Type is a resolved property type: its semantic kind plus the rendered
// C++-style spelling.
type Type struct {
	Kind Kind
	Str  string
}
