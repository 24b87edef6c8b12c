package pkgbuild

import (
	"fmt"
	"strings"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/model"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// flagReturnParm and flagParm are UFunction property flag bits,
// flagReferenceParm flags an out/inout reference parameter, and
// funcStatic is a function flag bit. Named per
// UE_UPackage::GenerateFunction's inline 0x400/0x80/0x100 checks.
const (
	flagReturnParm  = 0x400
	flagParm        = 0x80
	flagReferenceParm = 0x100
	funcStatic      = 0x2000 // FUNC_Static
)

// Param is one rendered function parameter or the synthetic return value.
type Param struct {
	Name   string
	Type   string
	Offset int64
	Size   int64
	Flags  uint64
}

// Function is the fully-resolved record for one UFunction, or a synthetic
// stub (StaticClass, GetBoneWorldPos) injected by Builder.BuildStruct.
type Function struct {
	FullName     string
	FuncName     string
	CppName      string
	RetType      string
	Params       string
	ParamInfo    []Param
	Flags        uint64
	EntryPoint   addr.Address
	DeclareConst string
}

// funcProperty is the minimal view buildFunction needs of one parameter,
// abstracting over the legacy/new property split the same way Builder's
// addMember closure does for struct members.
type funcProperty struct {
	addr     addr.Address
	name     string
	offset   int64
	size     int64
	flags    uint64
	arrayDim int64
	typeStr  string
}

// buildFunction resolves fn into a Function record, walking both the
// legacy UProperty children and the new FProperty children exactly as
// UE_UPackage::GenerateFunction does, and dedups FuncName against scope
// (the struct's shared member/function name scope, per the original
// passing its memberNameCntMp into GenerateFunction).
func (b *Builder) buildFunction(fn addr.Address, scope *Dedup) Function {
	var f Function
	f.FullName = b.m.FullName(fn)
	f.Flags = b.m.FunctionFlags(fn)
	f.EntryPoint = b.m.FunctionEntryPoint(fn)
	f.FuncName = scope.Resolve(FixKeyword(SanitizeIdentifier(b.m.Name(fn))))
	if f.Flags&funcStatic != 0 {
		f.FuncName = "STATIC_" + f.FuncName
	}

	var props []funcProperty
	for _, prop := range b.m.StructChildProperties(fn) {
		props = append(props, b.funcPropertyView(prop, false))
	}
	for _, child := range b.m.StructChildren(fn) {
		if b.m.IsA(child, b.m.StaticClass(model.ClassProperty)) {
			props = append(props, b.funcPropertyView(child, true))
		}
	}

	paramNames := NewDedup()
	var params []string
	for _, p := range props {
		switch {
		case p.flags&flagReturnParm != 0:
			f.RetType = p.typeStr
			f.ParamInfo = append(f.ParamInfo, Param{
				Name: "ReturnValue", Offset: p.offset, Size: p.size, Type: f.RetType, Flags: p.flags,
			})
			f.CppName = f.RetType + " " + f.FuncName
		case p.flags&flagParm != 0:
			name := FixKeyword(SanitizeIdentifier(p.name))
			if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
				name = "_" + name
			}
			name = paramNames.Resolve(name)

			var paramType string
			switch {
			case p.arrayDim > 1:
				paramType = p.typeStr + "*"
			case p.flags&flagReferenceParm != 0:
				paramType = p.typeStr + "&"
			default:
				paramType = p.typeStr
			}
			params = append(params, fmt.Sprintf("%s %s", paramType, name))
			f.ParamInfo = append(f.ParamInfo, Param{
				Name: name, Offset: p.offset, Size: p.size, Type: paramType, Flags: p.flags,
			})
		}
	}
	f.Params = strings.Join(params, ", ")

	if f.CppName == "" {
		f.RetType = "void"
		f.CppName = "void " + f.FuncName
	}
	return f
}

func (b *Builder) funcPropertyView(prop addr.Address, legacy bool) funcProperty {
	pc := b.cfg.FProperty
	if legacy {
		pc = b.cfg.Property
	}
	arrayDim := int64(remote.ReadUint32(b.r, prop.Add(pc.ArrayDim)))
	elemSize := int64(remote.ReadUint32(b.r, prop.Add(pc.ElementSize)))
	offset := int64(remote.ReadUint32(b.r, prop.Add(pc.Offset)))

	var flagsOff int64
	var typeStr string
	if legacy {
		flagsOff = b.cfg.Property.PropertyFlags
		typeStr = b.legacy.Resolve(prop).Str
	} else {
		flagsOff = b.cfg.FProperty.PropertyFlags
		typeStr = b.newRes.Resolve(prop).Str
	}
	flags := remote.ReadUint64(b.r, prop.Add(flagsOff))

	return funcProperty{
		addr: prop, offset: offset, size: elemSize * arrayDim, flags: flags,
		arrayDim: arrayDim, typeStr: typeStr, name: b.propertyName(prop, legacy),
	}
}
