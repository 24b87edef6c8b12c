package engine

import (
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/model"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/namepool"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/objecttable"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// Globals holds the handful of addresses that cannot be derived from
// reflection metadata itself -- the live location of the name pool's
// blocks and the object array's chunks for this one process. The
// original dumper discovers these through its own Windows-specific
// pattern scan over the loaded module (memory.cpp, not present in the
// retrieved source); spec.md §1 scopes that discovery step out as an
// external collaborator the same way it scopes out offsets.Config's
// concrete values, so Globals is supplied here exactly like a Config:
// an injected record, not something engine derives on its own. This is
// the Go-side equivalent of the original's "GlobalOffset.h should be
// updated by yourself" note in dumper.cpp.
type Globals struct {
	NameBlocks   []addr.Address
	ObjectChunks []addr.Address
	NumObjects   int
}

// Context is the read-only-after-construction aggregate every later
// stage of a run reads from: the Reader, the offset configuration, and
// the built name pool / object table / reflection model over them.
// Modeled directly on gocore.Process aggregating *core.Process,
// *heapTable, rtTypeByName, etc. into one struct built once by
// gocore.Core and never mutated after.
type Context struct {
	Reader remote.Reader
	Config offsets.Config

	// Snapshot is the frozen copy of the target's main module image, if
	// one was taken. When set, function entry points that fall inside
	// it are printed in ObjectsDump.txt as a stable RVA rather than a
	// live absolute address; nil disables that (the dump then falls
	// back to printing the absolute pointer).
	Snapshot *remote.Snapshot

	Names   *namepool.Pool
	Objects *objecttable.Table
	Model   *model.Model
}

// New builds a Context over an already-attached Reader, a resolved
// offsets.Config, and this run's Globals. It performs no remote reads
// itself beyond what namepool.New/objecttable.New need to construct
// their indices. snapshot may be nil.
func New(r remote.Reader, cfg offsets.Config, g Globals, decrypt namepool.Decryptor, snapshot *remote.Snapshot) *Context {
	names := namepool.New(r, cfg.NameEntry, g.NameBlocks, decrypt)
	objects := objecttable.New(r, cfg, g.ObjectChunks, g.NumObjects, names)
	return &Context{
		Reader:   r,
		Config:   cfg,
		Snapshot: snapshot,
		Names:    names,
		Objects:  objects,
		Model:    model.New(r, cfg, objects),
	}
}
