package pkgbuild

import (
	"fmt"
	"strings"
)

// cppKeywords and includeKeywords are the identifiers FixKeyword appends an
// "_1" suffix to, taken verbatim from UE_UPackage::FixKeywordConflict in
// original_source/Dumper/wrappers.cpp (the include-file list guards against
// colliding with common Windows SDK macros, not C++ keywords proper).
var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "and_eq": true, "asm": true,
	"auto": true, "bitand": true, "bitor": true, "bool": true, "break": true,
	"case": true, "catch": true, "char": true, "char16_t": true, "char32_t": true,
	"class": true, "compl": true, "concept": true, "const": true, "constexpr": true,
	"const_cast": true, "continue": true, "decltype": true, "default": true,
	"delete": true, "do": true, "double": true, "dynamic_cast": true, "else": true,
	"enum": true, "explicit": true, "export": true, "extern": true, "false": true,
	"float": true, "for": true, "friend": true, "goto": true, "if": true,
	"inline": true, "int": true, "long": true, "mutable": true, "namespace": true,
	"new": true, "noexcept": true, "not": true, "not_eq": true, "nullptr": true,
	"operator": true, "or": true, "or_eq": true, "private": true, "protected": true,
	"public": true, "register": true, "reinterpret_cast": true, "requires": true,
	"return": true, "short": true, "signed": true, "sizeof": true, "static": true,
	"static_assert": true, "static_cast": true, "struct": true, "switch": true,
	"template": true, "this": true, "thread_local": true, "throw": true, "true": true,
	"try": true, "typedef": true, "typeid": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true, "volatile": true,
	"wchar_t": true, "while": true, "xor": true, "xor_eq": true,
}

var includeKeywords = map[string]bool{
	"IGNORE": true, "ABSOLUTE": true, "RELATIVE": true, "DEBUG": true, "RELEASE": true,
}

// FixKeyword appends "_1" to tocheck if it collides with a C++ keyword or a
// name commonly macro'd by platform headers.
func FixKeyword(tocheck string) string {
	if cppKeywords[tocheck] || includeKeywords[tocheck] {
		return tocheck + "_1"
	}
	return tocheck
}

// illegalChars are the bytes GetValidClassName replaces with '_' before
// UTF-8 re-escaping.
const illegalChars = " /\\:*?\"<>|+().&-=![]{}'"

// SanitizeIdentifier turns an arbitrary reflected name into a valid C++
// identifier fragment: a leading digit gets a "_" prefix, every illegal
// ASCII byte becomes '_', and any byte that isn't plausible UTF-8 is
// escaped as "_xHH" -- the same three passes as
// UE_UPackage::GetValidClassName + ProcessUTF8Char.
func SanitizeIdentifier(s string) string {
	if len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}

	replaced := make([]byte, len(s))
	copy(replaced, s)
	for i, c := range replaced {
		if c < 0x80 && strings.IndexByte(illegalChars, c) >= 0 {
			replaced[i] = '_'
		}
	}

	return processUTF8(replaced)
}

// processUTF8 drops embedded NULs and re-escapes anything that isn't a
// plausible 1/2/3-byte UTF-8 sequence as "_xHH", mirroring
// UE_UPackage::ProcessUTF8Char (which trusts the lead byte and does not
// validate continuation bytes).
func processUTF8(b []byte) string {
	var out strings.Builder
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == 0:
			continue
		case c&0x80 == 0x00:
			out.WriteByte(c)
		case c&0xE0 == 0xC0 && i+1 < len(b):
			out.WriteByte(c)
			i++
			out.WriteByte(b[i])
		case c&0xF0 == 0xE0 && i+2 < len(b):
			out.WriteByte(c)
			i++
			out.WriteByte(b[i])
			i++
			out.WriteByte(b[i])
		default:
			fmt.Fprintf(&out, "_x%02x", c)
		}
	}
	return out.String()
}

// Dedup resolves name collisions within one scope (a struct body, an enum
// body, a parameter list, or the global generated-struct name pool): the
// first use of a name passes through unchanged, every later use gets a
// "_N" suffix where N is its occurrence count. Grounded on the
// memberNameCntMp / paramCntMp / typeDefCnt maps in
// UE_UPackage::GenerateStruct and GenerateFunction.
type Dedup struct {
	counts map[string]int
}

// NewDedup constructs an empty, ready-to-use Dedup scope.
func NewDedup() *Dedup {
	return &Dedup{counts: make(map[string]int)}
}

// Resolve returns name's deduplicated form for this scope.
func (d *Dedup) Resolve(name string) string {
	if n, ok := d.counts[name]; ok {
		n++
		d.counts[name] = n
		return fmt.Sprintf("%s_%d", name, n)
	}
	d.counts[name] = 1
	return name
}

// DedupClassName resolves a generated struct's CppName against the
// module-wide name pool, suffixing "_defN" on collision -- the distinct
// suffix format UE_UPackage's global typeDefCnt map uses, separate from
// Dedup's "_N" member/parameter suffixing.
type DedupClassName struct {
	counts map[string]int
}

// NewDedupClassName constructs an empty, ready-to-use DedupClassName scope.
func NewDedupClassName() *DedupClassName {
	return &DedupClassName{counts: make(map[string]int)}
}

// Resolve returns className's deduplicated form.
func (d *DedupClassName) Resolve(className string) string {
	if n, ok := d.counts[className]; ok {
		n++
		d.counts[className] = n
		return fmt.Sprintf("%s_def%d", className, n)
	}
	d.counts[className] = 1
	return className
}
