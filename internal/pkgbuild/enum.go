package pkgbuild

import (
	"fmt"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// Enum is the fully-resolved record for one UEnum.
type Enum struct {
	FullName string
	EnumName string
	CppName  string
	Members  []string // "Name = Value", already keyword-fixed
}

// nameEntryPairSize returns the byte stride of one (FName, int64) pair in
// a UEnum's Names TArray, matching the inline
// `((offsets.FName.Number + 4) + 7) & ~7` computation in
// UE_UPackage::GenerateEnum -- an FName padded to 8 bytes, followed by the
// 8-byte value slot.
func (b *Builder) nameEntryPairSize() int64 {
	nameSize := (b.cfg.FName.Number + 4 + 7) &^ 7
	return nameSize + 8
}

// BuildEnum resolves enumAddr's Names array into an Enum record. Per the
// Open Question resolved in DESIGN.md, enumerator values are assigned
// positionally (0, 1, 2, ...) rather than read from the array's value
// slot, matching the original's documented "force it to be ordered"
// workaround for an unreliable read. An enum with zero names resolves to
// ok == false: spec.md §8 requires it be omitted from output entirely
// rather than rendered as an empty enum body.
func (b *Builder) BuildEnum(enumAddr addr.Address) (e Enum, ok bool) {
	namesArrayData, count := b.m.EnumNames(enumAddr)
	if count == 0 {
		return Enum{}, false
	}

	e.FullName = b.m.FullName(enumAddr)
	e.EnumName = b.m.Name(enumAddr)

	pairSize := b.nameEntryPairSize()
	var max uint32
	for i := uint32(0); i < count; i++ {
		pair := namesArrayData.Add(int64(i) * pairSize)
		index := remote.ReadUint32(b.r, pair.Add(b.cfg.FName.ComparisonIndex))
		number := remote.ReadUint32(b.r, pair.Add(b.cfg.FName.Number))
		name := b.m.Table.Names().Resolve(index, number)
		name = lastSegmentAfterColon(name)
		name = FixKeyword(SanitizeIdentifier(name))

		if i > max {
			max = i
		}
		e.Members = append(e.Members, fmt.Sprintf("%s = %d", name, i))
	}

	underlying := "uint8_t"
	if max > 256 {
		underlying = "int32_t"
	}
	e.CppName = "enum class " + e.EnumName + " : " + underlying
	return e, true
}

// lastSegmentAfterColon trims a fully-qualified enumerator name
// ("ENamespace::Value") down to its final segment, matching the
// find_last_of(':') truncation in UE_UPackage::GenerateEnum.
func lastSegmentAfterColon(name string) string {
	last := -1
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			last = i
		}
	}
	if last == -1 {
		return name
	}
	return name[last+1:]
}
