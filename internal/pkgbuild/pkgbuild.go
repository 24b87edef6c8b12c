// Package pkgbuild turns resolved reflection entities (structs, classes,
// functions, enums) into the flat, render-ready records internal/render
// emits as text. Grounded on UE_UPackage::GenerateStruct,
// UE_UPackage::GenerateFunction and their padding/bit-field helpers in
// original_source/Dumper/wrappers.cpp.
package pkgbuild

import (
	"fmt"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/model"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/ptrprobe"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/typeresolve"
)

// Member is one rendered field of a struct, real or synthetic (padding,
// bit-field, or probe-discovered pointer).
type Member struct {
	Name    string
	Type    string
	Offset  int64
	Size    int64
	Suspect bool // offset fell below the struct's inherited region, or the member has zero size
}

// StructInfo is the fully-resolved record for one UStruct/UClass, ready
// for internal/render to print.
type StructInfo struct {
	Addr      addr.Address
	FullName  string
	ClassName string // bare, possibly "_defN"-suffixed type name
	CppName   string // "class X" / "struct X", with ": public Super" appended
	SuperName string
	Size      int64
	Inherited int64
	Members   []Member
	Functions []Function
}

// Anomaly is one ShapeAnomaly condition (spec.md §7) recorded while
// walking a struct's member list: an offset that fell below the
// struct's inherited region, or a property that resolved to zero
// size. internal/engine drains Builder.Anomalies once every package
// has been built and folds each one into its own Anomaly log.
type Anomaly struct {
	Subject string // "<struct full name>::<member name>"
	Detail  string
}

// Builder resolves StructInfo/Enum records for one dump run. It holds the
// module-wide generated-name dedup scope (UE_UPackage's global
// typeDefCnt), so construct exactly one Builder per run.
type Builder struct {
	r      remote.Reader
	cfg    offsets.Config
	m      *model.Model
	legacy *typeresolve.Legacy
	newRes *typeresolve.New
	sizes  map[addr.Address]int64 // corrected sizes from internal/sizefix
	probe  *ptrprobe.Probe        // nil disables pointer discovery in padding runs

	classNames *DedupClassName
	Anomalies  []Anomaly
}

// New constructs a Builder. probe may be nil, in which case padding runs
// are left as plain byte padding (no pointer discovery).
func New(r remote.Reader, cfg offsets.Config, m *model.Model, legacy *typeresolve.Legacy, newRes *typeresolve.New, sizes map[addr.Address]int64, probe *ptrprobe.Probe) *Builder {
	return &Builder{
		r: r, cfg: cfg, m: m, legacy: legacy, newRes: newRes, sizes: sizes, probe: probe,
		classNames: NewDedupClassName(),
	}
}

// EnableProbe turns on pointer discovery in padding runs from this call
// onward, the Go equivalent of the original's per-package
// `package.FindPointers = true` latch (dumper.cpp's `-f packagename`
// handling): once set, every struct built afterward samples its
// padding for live pointers; structs already built are unaffected.
func (b *Builder) EnableProbe(probe *ptrprobe.Probe) {
	b.probe = probe
}

func (b *Builder) sizeOf(structAddr addr.Address) int64 {
	if s, ok := b.sizes[structAddr]; ok {
		return s
	}
	return b.m.PropertiesSize(structAddr)
}

// BuildStruct resolves structAddr (a UClass or UScriptStruct/plain UStruct)
// into a StructInfo, following the four steps of spec.md §4.7: header
// (name, inheritance), member walk (both property lists, in offset order
// as encountered), function walk, trailing padding -- plus the three
// synthetic injections (UWorld.GWorld, a StaticClass() stub on every
// struct, and GetBoneWorldPos on USkeletalMeshComponent).
func (b *Builder) BuildStruct(structAddr addr.Address) StructInfo {
	var s StructInfo
	s.Size = b.sizeOf(structAddr)
	s.FullName = b.m.FullName(structAddr)
	s.ClassName = b.classNames.Resolve(b.m.GetCppName(structAddr))

	isClass := b.m.IsA(structAddr, b.m.StaticClass(model.ClassClass))
	if isClass {
		s.CppName = "class " + SanitizeIdentifier(s.ClassName)
	} else {
		s.CppName = "struct " + SanitizeIdentifier(s.ClassName)
	}

	if s.ClassName == "UWorld" {
		s.Members = append(s.Members, Member{
			Type: "static class UWorld**", Name: "GWorld", Offset: 0, Size: 8,
		})
	}

	super := b.m.Super(structAddr)
	if !super.IsNil() {
		s.SuperName = SanitizeIdentifier(b.m.GetCppName(super))
		s.CppName += " : public " + s.SuperName
		s.Inherited = b.sizeOf(super)
	}

	offset := s.Inherited
	var bitOffset uint8
	memberNames := NewDedup()

	addMember := func(prop addr.Address, legacy bool) {
		pc := b.cfg.FProperty
		if legacy {
			pc = b.cfg.Property
		}
		arrayDim := int64(remote.ReadUint32(b.r, prop.Add(pc.ArrayDim)))
		elemSize := int64(remote.ReadUint32(b.r, prop.Add(pc.ElementSize)))
		size := elemSize * arrayDim

		var typ typeresolve.Type
		var mask uint8
		if legacy {
			typ = b.legacy.Resolve(prop)
			mask = b.legacy.FieldMask(prop)
		} else {
			typ = b.newRes.Resolve(prop)
			mask = b.newRes.FieldMask(prop)
		}

		name := FixKeyword(SanitizeIdentifier(b.propertyName(prop, legacy)))
		if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
			name = "_" + name
		}
		name = memberNames.Resolve(name)

		propOffset := int64(remote.ReadUint32(b.r, prop.Add(pc.Offset)))
		m := Member{Type: typ.Str, Name: name, Offset: propOffset, Size: size}
		subject := s.FullName + "::" + name

		if size == 0 {
			m.Suspect = true
			s.Members = append(s.Members, m)
			b.Anomalies = append(b.Anomalies, Anomaly{Subject: subject, Detail: "zero-size member"})
			return
		}
		if propOffset < s.Inherited {
			m.Suspect = true
			s.Members = append(s.Members, m)
			b.Anomalies = append(b.Anomalies, Anomaly{Subject: subject, Detail: "offset below inherited region"})
			return
		}
		if propOffset > offset {
			b.fillPadding(structAddr, &s.Members, &offset, &bitOffset, propOffset)
		}

		if typ.Kind == typeresolve.KindBoolProperty && typ.Str != "bool" {
			zeros, ones := fieldMaskRuns(mask)
			if zeros > bitOffset {
				generateBitPadding(&s.Members, offset, bitOffset, zeros-bitOffset)
				bitOffset = zeros
			}
			m.Name = fmt.Sprintf("%s : %d", m.Name, ones)
			bitOffset += ones
			if bitOffset == 8 {
				offset++
				bitOffset = 0
			}
			s.Members = append(s.Members, m)
			return
		}

		if arrayDim > 1 {
			m.Name = fmt.Sprintf("%s[%#x]", m.Name, arrayDim)
		}
		offset += size
		s.Members = append(s.Members, m)
	}

	for _, prop := range b.m.StructChildProperties(structAddr) {
		addMember(prop, false)
	}
	for _, child := range b.m.StructChildren(structAddr) {
		if b.m.IsA(child, b.m.StaticClass(model.ClassProperty)) {
			addMember(child, true)
		}
	}

	functionNames := make(map[string]bool)
	for _, child := range b.m.StructChildren(structAddr) {
		if !b.m.IsA(child, b.m.StaticClass(model.ClassFunction)) {
			continue
		}
		fn := b.buildFunction(child, memberNames)
		if functionNames[fn.FullName] {
			continue
		}
		functionNames[fn.FullName] = true
		s.Functions = append(s.Functions, fn)
	}

	if s.ClassName == "USkeletalMeshComponent" {
		s.Functions = append(s.Functions, Function{
			CppName: "FVector GetBoneWorldPos", FuncName: "GetBoneWorldPos",
			Params: "const int32_t& boneId", RetType: "FVector",
			FullName: "Dumper_Generated_Function", DeclareConst: " const",
		})
	}
	s.Functions = append(s.Functions, Function{
		CppName: "static UClass* StaticClass", FuncName: "StaticClass",
		RetType: "UClass*", FullName: "Dumper_Generated_Function",
	})

	if s.Size > offset {
		b.fillPadding(structAddr, &s.Members, &offset, &bitOffset, s.Size)
	}

	s.Addr = structAddr
	return s
}

// propertyName resolves a property's own name, through the FField chain
// for a new property or through the UObject FName for a legacy one.
func (b *Builder) propertyName(prop addr.Address, legacy bool) string {
	if legacy {
		return b.m.Name(prop)
	}
	return b.m.FFieldName(prop)
}

// fieldMaskRuns returns the leading-zero-bit count and the contiguous
// one-bit run that follows it, exactly as GenerateStruct's inline bit-walk
// over a Bool property's field mask.
func fieldMaskRuns(mask uint8) (zeros, ones uint8) {
	for mask != 0 && mask&1 == 0 {
		mask >>= 1
		zeros++
	}
	for mask&1 != 0 {
		mask >>= 1
		ones++
	}
	return zeros, ones
}

func generateBitPadding(members *[]Member, offset int64, bitOffset, size uint8) {
	*members = append(*members, Member{
		Type: "char", Name: fmt.Sprintf("pad_%X_%d : %d", offset, bitOffset, size),
		Offset: offset, Size: 1,
	})
}

func generatePadding(members *[]Member, offset, size int64) {
	*members = append(*members, Member{
		Type: "char", Name: fmt.Sprintf("pad_%X[%#x]", offset, size),
		Offset: offset, Size: size,
	})
}

// fillPadding advances offset/bitOffset to end, emitting a trailing bit
// padding member if a bit-field run was left open, then sampling pointers
// (when b.probe is set) across any ≥8-byte-aligned padding run before
// filling whatever remains as plain byte padding. Grounded on
// UE_UPackage::FillPadding.
func (b *Builder) fillPadding(structAddr addr.Address, members *[]Member, offset *int64, bitOffset *uint8, end int64) {
	if *bitOffset != 0 && *bitOffset < 8 {
		generateBitPadding(members, *offset, *bitOffset, 8-*bitOffset)
		*bitOffset = 0
		*offset++
	}

	size := end - *offset
	if b.probe != nil && size >= 8 {
		aligned := (*offset + 7) &^ 7
		if aligned != *offset {
			diff := aligned - *offset
			generatePadding(members, *offset, diff)
			*offset += diff
		}
		normalizedSize := size - size%8
		if normalizedSize > 0 {
			for _, slot := range b.probe.Scan(structAddr, *offset, normalizedSize) {
				if slot.Offset > *offset {
					generatePadding(members, *offset, slot.Offset-*offset)
					*offset = slot.Offset
				}
				m := Member{Offset: *offset, Size: 8}
				if slot.IsObject {
					m.Type = "struct " + b.m.GetCppName(slot.ObjectClass) + "*"
					m.Name = b.m.Name(slot.Target)
				} else {
					m.Type = "void*"
					m.Name = fmt.Sprintf("ptr_%x", uint64(slot.Target))
				}
				*members = append(*members, m)
				*offset += 8
			}
		}
	}

	if *offset != end {
		generatePadding(members, *offset, end-*offset)
		*offset = end
	}
}
