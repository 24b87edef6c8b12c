// Package render is direct, template-driven file emission: every input
// is already a fully-resolved internal/pkgbuild record, so nothing
// here makes a decision about SDK shape. Grounded on
// UE_UPackage::Save / Dumper::GenerateSDKHeader in
// original_source/Dumper/wrappers.cpp and dumper.cpp, using Go's
// text/template the way the teacher's cmd/viewcore commands build
// their own report output with small, purpose-built templates rather
// than string concatenation.
package render

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/pkgbuild"
)

// illegalPathChars mirrors Dumper::GenerateSDKHeader's inline
// sanitization of a package name before it's used as a file name:
// `/\:*?"<>|+` all become `_`.
const illegalPathChars = `/\:*?"<>|+`

// SanitizePackageName replaces every filesystem-hostile byte in name
// with '_', applied once per package and reused for every file that
// package owns.
func SanitizePackageName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalPathChars, r) {
			return '_'
		}
		return r
	}, name)
}

var structTemplate = template.Must(template.New("struct").Parse(
	`{{.CppName}} {
{{range .Members}}	{{.Type}} {{.Name}}; // 0x{{printf "%X" .Offset}}({{printf "%#x" .Size}}){{if .Suspect}} MIN{{end}}
{{end}}{{range .Functions}}	{{.CppName}}({{.Params}}){{.DeclareConst}};
{{end}}}; // size: 0x{{printf "%X" .Size}}

`))

var enumTemplate = template.Must(template.New("enum").Parse(
	`{{.CppName}} {
{{range .Members}}	{{.}},
{{end}}};

`))

// WritePackage renders one package's structs and enums into
// SDK/<name>_structs.h and SDK/<name>_classes.h (classes and plain
// structs are split the same way GenerateStruct's own "class X"/
// "struct X" header line distinguishes them), plus SDK/<name>_package.h
// including both. spacing is accepted for parity with the CLI's
// --spacing flag but is not used: a single template serves both values,
// and members are not column-aligned either way.
func WritePackage(sdkDir, name string, structs []pkgbuild.StructInfo, enums []pkgbuild.Enum, spacing bool) error {
	safe := SanitizePackageName(name)

	var classBody, structBody strings.Builder
	for _, s := range structs {
		var out *strings.Builder
		if strings.HasPrefix(s.CppName, "class ") {
			out = &classBody
		} else {
			out = &structBody
		}
		if err := structTemplate.Execute(out, s); err != nil {
			return err
		}
	}

	var enumBody strings.Builder
	for _, e := range enums {
		if err := enumTemplate.Execute(&enumBody, e); err != nil {
			return err
		}
	}

	structsPath := filepath.Join(sdkDir, safe+"_structs.h")
	if err := os.WriteFile(structsPath, []byte("#pragma once\n\n"+enumBody.String()+structBody.String()), 0o644); err != nil {
		return err
	}

	classesPath := filepath.Join(sdkDir, safe+"_classes.h")
	if err := os.WriteFile(classesPath, []byte("#pragma once\n\n"+classBody.String()), 0o644); err != nil {
		return err
	}

	packagePath := filepath.Join(sdkDir, safe+"_package.h")
	content := "#pragma once\n\n#include \"" + safe + "_structs.h\"\n#include \"" + safe + "_classes.h\"\n"
	return os.WriteFile(packagePath, []byte(content), 0o644)
}

// WriteSDKHeader emits the top-level SDK.h that pulls in every
// package's *_package.h in dependency order, matching
// Dumper::GenerateSDKHeader's STL-include preamble plus its per-package
// include loop over RefGraphSolver::packageHeaderOrder.
func WriteSDKHeader(dir string, orderedPackageNames []string) error {
	var b strings.Builder
	stl := []string{"set", "string", "vector", "locale", "unordered_set", "unordered_map", "iostream", "sstream", "cstdint"}
	for _, h := range stl {
		b.WriteString("#include <" + h + ">\n")
	}
	b.WriteString("#pragma warning(disable: 4099)\n\n")
	b.WriteString("// Note: the content of GlobalOffset.h should be updated by yourself!!\n\n")
	b.WriteString("#include \"GlobalOffset.h\"\n\n// SDK headers\n\n")
	for _, name := range orderedPackageNames {
		if name == "CppTypes" {
			continue
		}
		safe := SanitizePackageName(name)
		b.WriteString("#include \"SDK/" + safe + "_package.h\"\n")
	}
	return os.WriteFile(filepath.Join(dir, "SDK.h"), []byte(b.String()), 0o644)
}
