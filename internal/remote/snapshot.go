package remote

import "github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"

// Snapshot is a local copy of the target's primary module image, taken once
// at startup. Reflected function entry points are offsets into this frozen
// copy rather than the live, possibly-paged-out process, so code-address
// translations stay stable across the run (spec.md §4.1).
type Snapshot struct {
	Base addr.Address
	data []byte
}

// NewSnapshot copies size bytes starting at base out of r into a local
// buffer. It returns false if the copy could not be completed, mirroring
// the original dumper.cpp behavior of aborting with MODULE_NOT_READABLE
// when the initial VirtualAlloc+Read of the module image fails.
func NewSnapshot(r Reader, base addr.Address, size int64) (*Snapshot, bool) {
	buf := make([]byte, size)
	if !r.ReadAt(base, buf) {
		return nil, false
	}
	return &Snapshot{Base: base, data: buf}, true
}

// ReadAt serves bytes from the frozen copy when they fall within it, and
// returns false otherwise (Snapshot has ReadAt only, so it is not itself
// a Reader) -- callers needing live data
// outside the module image should read from the original process Reader
// instead.
func (s *Snapshot) ReadAt(a addr.Address, buf []byte) bool {
	off := a.Sub(s.Base)
	if off < 0 || off+int64(len(buf)) > int64(len(s.data)) {
		return false
	}
	copy(buf, s.data[off:off+int64(len(buf))])
	return true
}

// Contains reports whether a falls within the snapshotted module image.
func (s *Snapshot) Contains(a addr.Address) bool {
	off := a.Sub(s.Base)
	return off >= 0 && off < int64(len(s.data))
}

// RVA returns a's offset from the module base, the value ObjectsDump.txt
// prints next to every UFunction entry.
func (s *Snapshot) RVA(a addr.Address) int64 {
	return a.Sub(s.Base)
}
