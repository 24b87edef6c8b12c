// Package offsets holds the per-engine offset configuration: a plain data
// record describing where each reflected field sits inside each reflected
// object. spec.md §1 treats the concrete values as an external collaborator
// ("assumed pre-supplied as a configuration record"); this package owns
// only the record's shape and a small built-in registry, the same division
// golang-debug/arch draws between Architecture (shape) and AMD64/X86 (data).
package offsets

// NameEntry describes the layout of one entry in the name pool.
type NameEntry struct {
	HeaderSize  int64 // bytes of fixed header before the string payload
	WideBit     uint  // bit index of the wide-string flag in the header
	LenBitShift uint  // bit offset of the length field in the header
	LenBits     uint  // width of the length field, in bits
	Stride      int64 // alignment stride every entry is padded to
	BlockShift  uint  // index bits used to select a block
	BlockBits   uint  // index bits used to select an offset within a block
}

// FName describes the fixed layout of an FName (pool index + number).
type FName struct {
	ComparisonIndex int64
	Number          int64
}

// Object describes the fixed fields every UObject carries.
type Object struct {
	Index int64
	Class int64
	Outer int64
	Name  int64 // offset of the embedded FName
}

// Field describes the FField/UField singly linked list pointer.
type Field struct {
	Next int64
}

// Struct describes UStruct's layout: parent pointer, two parallel child
// lists (the legacy UField chain and the newer FField chain), and the
// properties-size field the Class Size Fixer repairs.
type Struct struct {
	SuperStruct     int64
	Children        int64
	ChildProperties int64
	PropertiesSize  int64
}

// Function describes UFunction's extra fields beyond UStruct.
type Function struct {
	FunctionFlags int64
	Func          int64 // native entry point
}

// Enum describes UEnum's Names array.
type Enum struct {
	Names int64
}

// Property describes the fields shared by every UProperty/FProperty leaf.
type Property struct {
	ArrayDim      int64
	ElementSize   int64
	PropertyFlags int64
	Offset        int64
	SizeOfSelf    int64 // used to size FFieldClass-based property structs

	// Extra is the offset, relative to the property object, of the
	// type-specific payload every container/struct/object leaf stores right
	// after the common header: the inner UProperty for Array/Set, the
	// UStruct for Struct, the UClass for Object/Class/Enum, the key/value
	// pair for Map (Extra, Extra+PtrSize).
	Extra int64
}

// FField describes the newer FField base (class pointer + name + next),
// parallel to Field/Object's older UField-based equivalents.
type FField struct {
	ClassPtr int64
	Name     int64
	Next     int64
}

// ObjectArray describes the engine's GUObjectArray: a two-level chunked
// array of FUObjectItem slots, each slot holding (among other fields) the
// UObject pointer at ItemObjectOffset.
type ObjectArray struct {
	ItemStride       int64 // sizeof(FUObjectItem)
	ItemObjectOffset int64 // offset of the UObject* within one FUObjectItem
}

// Config is the full per-engine-version offset record. The engine never
// reads reflection metadata without going through one of these.
type Config struct {
	EngineVersion string

	NameEntry NameEntry
	FName     FName
	Object    Object
	Field     Field
	Struct    Struct
	Function  Function
	Enum      Enum
	Property  Property
	FProperty Property
	FField    FField

	ObjectArray ObjectArray

	// ObjectTableChunkSize is the number of objects in a single GUObjectArray
	// chunk, used by internal/objecttable's two-level array.
	ObjectTableChunkSize int
}

// Registry maps an engine-version string to its Config, mirroring
// golang-debug/arch's map from GOARCH string to Architecture.
type Registry map[string]Config

// Lookup finds the Config for version, reporting ConfigError-worthy
// failure via the second return.
func (r Registry) Lookup(version string) (Config, bool) {
	c, ok := r[version]
	return c, ok
}

// Register adds or replaces cfg in r under cfg.EngineVersion.
func (r Registry) Register(cfg Config) {
	r[cfg.EngineVersion] = cfg
}

// Default is the built-in registry, pre-populated with the layouts this
// tool ships with.
var Default = Registry{}

func init() {
	Default.Register(ue425)
	Default.Register(ue425Obfuscated)
}
