package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/model"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/pkgbuild"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/ptrprobe"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/refgraph"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/render"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/sizefix"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/typeresolve"
)

// Options mirrors the CLI flags of spec.md §6.
type Options struct {
	Directory   string // output directory, equivalent to Dumper::Directory
	Full        bool   // false == "-p": names+objects only, no SDK
	Wait        bool   // "-w": block on a keypress before dumping
	PackageName string // "-f": enable Pointer Probe from this package onward
	Spacing     bool   // "--spacing": passed to render.WritePackage, which writes the same output either way

	Progress io.Writer // progress line destination; nil disables reporting
}

// Result summarizes one completed run, including the two supplemented
// counters the original additionally tracks and prints (dumper.cpp's
// fixedClassCnt and the unsaved-package accumulator).
type Result struct {
	NameCount       int
	ObjectCount     int
	PackageCount    int
	FixedClassCount int
	SavedPackages   int
	UnsavedPackages []string
	Anomalies       []Anomaly
}

// AwaitStart blocks on a single line from stdin, the Go realization of
// the original's `system("pause")` -w branch: a person attaching a
// debugger or injecting mods gets a window before the dump proceeds.
func AwaitStart(prompt string) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()
	_, err = rl.Readline()
	if err != nil && err != readline.ErrInterrupt && err != io.EOF {
		return err
	}
	return nil
}

func (o Options) progressf(format string, args ...any) {
	if o.Progress == nil {
		return
	}
	fmt.Fprintf(o.Progress, format, args...)
}

// Run implements Dumper::Dump's control flow: dump names, dump objects
// while grouping them into packages, fix class sizes, build every
// package (enabling the Pointer Probe from opts.PackageName onward),
// solve the reference graph, render. Unlike the original, object
// grouping and the object dump happen in the same single pass --
// dumper.cpp's own comment above its packages map explains it only
// iterates twice to keep the dump callback simple, which Go's closures
// make unnecessary here.
func Run(ctx *Context, opts Options) (Result, error) {
	var res Result

	if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
		return res, wrapIo("create output directory", err)
	}

	blockCapacity := int64(1)<<ctx.Config.NameEntry.BlockBits * ctx.Config.NameEntry.Stride
	namesPath := filepath.Join(opts.Directory, "NamesDump.txt")
	namesFile, err := os.Create(namesPath)
	if err != nil {
		return res, wrapIo(namesPath, err)
	}
	ctx.Names.Dump(blockCapacity, func(id uint32, name string) bool {
		fmt.Fprintf(namesFile, "[%06d] %s\n", id, name)
		res.NameCount++
		return true
	})
	namesFile.Close()
	opts.progressf("Names: %d\n", res.NameCount)

	objectsPath := filepath.Join(opts.Directory, "ObjectsDump.txt")
	objectsFile, err := os.Create(objectsPath)
	if err != nil {
		return res, wrapIo(objectsPath, err)
	}
	packages := make(map[addr.Address][]addr.Address)
	var packageOrder []addr.Address // first-seen order, so -f's "from here on" matches a stable pass
	classCls := ctx.Model.StaticClass(model.ClassClass)
	structCls := ctx.Model.StaticClass(model.ClassStruct)
	enumCls := ctx.Model.StaticClass(model.ClassEnum)
	functionCls := ctx.Model.StaticClass(model.ClassFunction)
	ctx.Objects.Dump(func(index int, obj addr.Address) bool {
		vtable := remote.ReadPtr(ctx.Reader, obj)
		isFunction := ctx.Model.IsA(obj, functionCls)
		if isFunction {
			entry := ctx.Model.FunctionEntryPoint(obj)
			fmt.Fprintf(objectsFile, "[%06d] %s %s %s %s\n", index, obj, vtable, ctx.Model.FullName(obj), entryLabel(ctx, entry))
		} else {
			fmt.Fprintf(objectsFile, "[%06d] %s %s %s\n", index, obj, vtable, ctx.Model.FullName(obj))
		}
		res.ObjectCount++
		if !opts.Full {
			return true
		}
		if isFunction || ctx.Model.IsA(obj, structCls) || ctx.Model.IsA(obj, classCls) || ctx.Model.IsA(obj, enumCls) {
			pkg := ctx.Model.Package(obj)
			if _, seen := packages[pkg]; !seen {
				packageOrder = append(packageOrder, pkg)
			}
			packages[pkg] = append(packages[pkg], obj)
		}
		return true
	})
	objectsFile.Close()
	opts.progressf("Objects: %d\n", res.ObjectCount)

	if !opts.Full {
		return res, nil
	}
	if len(packages) == 0 {
		return res, ErrZeroPackages
	}
	res.PackageCount = len(packages)
	opts.progressf("Packages: %d\n", res.PackageCount)

	legacy := typeresolve.NewLegacy(ctx.Reader, ctx.Config, ctx.Model)
	newRes := typeresolve.NewNew(ctx.Reader, ctx.Config, ctx.Model)

	shapes := collectShapes(ctx, packages, structCls, classCls)
	sizes := sizefix.Run(shapes)
	res.FixedClassCount = countFixed(shapes, sizes)

	probe := ptrprobe.New(ctx.Reader, ctx.Objects, ctx.Model)
	lockProbe := false
	builder := pkgbuild.New(ctx.Reader, ctx.Config, ctx.Model, legacy, newRes, sizes, nil)
	graph := refgraph.New()

	type built struct {
		pkg     addr.Address
		structs []pkgbuild.StructInfo
		enums   []pkgbuild.Enum
	}
	var processed []built

	for i, pkg := range packageOrder {
		opts.progressf("\rProcessing: %d/%d", i+1, res.PackageCount)
		if !lockProbe && opts.PackageName != "" && ctx.Model.Name(pkg) == opts.PackageName {
			lockProbe = true
			builder.EnableProbe(probe)
		}

		var b built
		b.pkg = pkg
		graph.AddEdge(pkg, pkg) // registers pkg for SDK.h's include order; the self-edge itself is dropped
		for _, obj := range packages[pkg] {
			switch {
			case ctx.Model.IsA(obj, enumCls):
				if e, ok := builder.BuildEnum(obj); ok {
					b.enums = append(b.enums, e)
				}
			case ctx.Model.IsA(obj, functionCls):
				// Functions are emitted as members of their owning struct,
				// not as standalone package entries.
			default:
				b.structs = append(b.structs, builder.BuildStruct(obj))
				if super := ctx.Model.Super(obj); !super.IsNil() {
					if superPkg := ctx.Model.Package(super); !superPkg.IsNil() && superPkg != pkg {
						graph.AddEdge(pkg, superPkg)
					}
				}
			}
		}
		processed = append(processed, b)
	}
	opts.progressf("\n")

	for _, a := range builder.Anomalies {
		res.Anomalies = append(res.Anomalies, Anomaly{Kind: ShapeAnomaly, Subject: a.Subject, Detail: a.Detail})
	}

	order, cycles := graph.TopoOrder()
	for _, c := range cycles {
		names := make([]string, 0, len(c))
		for _, p := range c {
			names = append(names, ctx.Model.Name(p))
		}
		res.Anomalies = append(res.Anomalies, Anomaly{Kind: ShapeAnomaly, Subject: "reference graph", Detail: fmt.Sprintf("cycle: %v", names)})
	}

	sdkDir := filepath.Join(opts.Directory, "SDK")
	if err := os.MkdirAll(sdkDir, 0o755); err != nil {
		return res, wrapIo(sdkDir, err)
	}

	var orderedNames []string
	for _, pkg := range order {
		orderedNames = append(orderedNames, ctx.Model.Name(pkg))
	}
	for _, b := range processed {
		name := ctx.Model.Name(b.pkg)
		if len(b.structs) == 0 && len(b.enums) == 0 {
			res.UnsavedPackages = append(res.UnsavedPackages, name)
			continue
		}
		if err := render.WritePackage(sdkDir, name, b.structs, b.enums, opts.Spacing); err != nil {
			res.UnsavedPackages = append(res.UnsavedPackages, name)
			continue
		}
		res.SavedPackages++
	}

	if err := render.WriteSDKHeader(opts.Directory, orderedNames); err != nil {
		return res, wrapIo("SDK.h", err)
	}

	opts.progressf("Saved packages: %d\n", res.SavedPackages)
	if len(res.UnsavedPackages) > 0 {
		opts.progressf("Unsaved empty packages: %v\n", res.UnsavedPackages)
	}
	return res, nil
}

// entryLabel prints a function's native entry point as a stable RVA
// into ctx.Snapshot when available, or the live absolute address
// otherwise -- spec.md §6's ObjectsDump.txt line format calls for the
// function's RVA precisely so it survives the module being reloaded at
// a different base on a later run.
func entryLabel(ctx *Context, entry addr.Address) string {
	if ctx.Snapshot != nil && ctx.Snapshot.Contains(entry) {
		return fmt.Sprintf("+%#x", ctx.Snapshot.RVA(entry))
	}
	return entry.String()
}

func wrapIo(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, IoError, err)
}

// countFixed reports how many structs' corrected size differs from
// their originally reported size, the Go equivalent of
// ClassSizeFixer::FixAllPackage's returned fixedClassCnt.
func countFixed(shapes []sizefix.StructShape, sizes map[addr.Address]int64) int {
	var n int
	for _, s := range shapes {
		if corrected, ok := sizes[s.Addr]; ok && corrected != s.ReportedSize {
			n++
		}
	}
	return n
}

// collectShapes builds the sizefix.StructShape view of every
// struct/class object across every package, ahead of any pkgbuild
// call, per the sizefix/pkgbuild ordering decision in DESIGN.md.
func collectShapes(ctx *Context, packages map[addr.Address][]addr.Address, structCls, classCls addr.Address) []sizefix.StructShape {
	var shapes []sizefix.StructShape
	propertyCls := ctx.Model.StaticClass(model.ClassProperty)
	for _, objs := range packages {
		for _, obj := range objs {
			if !ctx.Model.IsA(obj, structCls) && !ctx.Model.IsA(obj, classCls) {
				continue
			}
			var ms []sizefix.Member
			for _, prop := range ctx.Model.StructChildProperties(obj) {
				ms = append(ms, propertyMember(ctx, prop, false))
			}
			for _, child := range ctx.Model.StructChildren(obj) {
				if ctx.Model.IsA(child, propertyCls) {
					ms = append(ms, propertyMember(ctx, child, true))
				}
			}
			shapes = append(shapes, sizefix.StructShape{
				Addr:         obj,
				Parent:       ctx.Model.Super(obj),
				ReportedSize: ctx.Model.PropertiesSize(obj),
				Members:      ms,
			})
		}
	}
	return shapes
}

func propertyMember(ctx *Context, prop addr.Address, legacy bool) sizefix.Member {
	pc := ctx.Config.FProperty
	if legacy {
		pc = ctx.Config.Property
	}
	arrayDim := int64(remote.ReadUint32(ctx.Reader, prop.Add(pc.ArrayDim)))
	elemSize := int64(remote.ReadUint32(ctx.Reader, prop.Add(pc.ElementSize)))
	offset := int64(remote.ReadUint32(ctx.Reader, prop.Add(pc.Offset)))
	return sizefix.Member{Offset: offset, Size: arrayDim * elemSize}
}
