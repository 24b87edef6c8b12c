package offsets

// ue425 is the offset layout for a stock, non-obfuscated Unreal Engine
// 4.25 build, matching the field order UE_FNameEntry/UE_UObject/UE_UStruct
// use in original_source/Dumper/wrappers.cpp.
var ue425 = Config{
	EngineVersion: "UE4.25",
	NameEntry: NameEntry{
		HeaderSize:  2,
		WideBit:     0,
		LenBitShift: 6,
		LenBits:     10,
		Stride:      2,
		BlockShift:  16,
		BlockBits:   16,
	},
	FName: FName{
		ComparisonIndex: 0,
		Number:          4,
	},
	Object: Object{
		Index: 0x0c,
		Class: 0x10,
		Outer: 0x18,
		Name:  0x20,
	},
	Field: Field{
		Next: 0x28,
	},
	Struct: Struct{
		SuperStruct:     0x30,
		Children:        0x38,
		ChildProperties: 0x40,
		PropertiesSize:  0x48,
	},
	Function: Function{
		FunctionFlags: 0xb8,
		Func:          0xc8,
	},
	Enum: Enum{
		Names: 0x40,
	},
	Property: Property{
		ArrayDim:      0x4c,
		ElementSize:   0x50,
		PropertyFlags: 0x58,
		Offset:        0x6c,
		SizeOfSelf:    0,
		Extra:         0x50,
	},
	FProperty: Property{
		ArrayDim:      0x38,
		ElementSize:   0x3c,
		PropertyFlags: 0x40,
		Offset:        0x4c,
		SizeOfSelf:    0x20,
		Extra:         0x3c,
	},
	FField: FField{
		ClassPtr: 0x08,
		Name:     0x20,
		Next:     0x10,
	},
	ObjectArray: ObjectArray{
		ItemStride:       0x18,
		ItemObjectOffset: 0,
	},
	ObjectTableChunkSize: 64 * 1024,
}

// ue425Obfuscated is a second, differently-shifted layout exercising the
// same Config struct with distinct numbers -- useful for tests that need
// to prove nothing in the reflection layer hardcodes UE4.25's stock
// offsets.
var ue425Obfuscated = Config{
	EngineVersion: "UE4.25-obfuscated",
	NameEntry: NameEntry{
		HeaderSize:  4,
		WideBit:     1,
		LenBitShift: 7,
		LenBits:     9,
		Stride:      4,
		BlockShift:  14,
		BlockBits:   18,
	},
	FName: FName{
		ComparisonIndex: 0,
		Number:          4,
	},
	Object: Object{
		Index: 0x10,
		Class: 0x18,
		Outer: 0x20,
		Name:  0x28,
	},
	Field: Field{
		Next: 0x30,
	},
	Struct: Struct{
		SuperStruct:     0x38,
		Children:        0x40,
		ChildProperties: 0x48,
		PropertiesSize:  0x50,
	},
	Function: Function{
		FunctionFlags: 0xc0,
		Func:          0xd0,
	},
	Enum: Enum{
		Names: 0x48,
	},
	Property: Property{
		ArrayDim:      0x54,
		ElementSize:   0x58,
		PropertyFlags: 0x60,
		Offset:        0x74,
		SizeOfSelf:    0,
		Extra:         0x58,
	},
	FProperty: Property{
		ArrayDim:      0x40,
		ElementSize:   0x44,
		PropertyFlags: 0x48,
		Offset:        0x54,
		SizeOfSelf:    0x28,
		Extra:         0x44,
	},
	FField: FField{
		ClassPtr: 0x10,
		Name:     0x28,
		Next:     0x18,
	},
	ObjectArray: ObjectArray{
		ItemStride:       0x20,
		ItemObjectOffset: 0,
	},
	ObjectTableChunkSize: 32 * 1024,
}
