// Package ptrprobe samples live instances of a class to decide whether an
// otherwise-unaccounted-for run of bytes in its layout is actually a
// pointer member, rather than guessing from static metadata alone.
// Grounded directly on UE_UPackage::FillPadding's findPointers branch in
// original_source/Dumper/wrappers.cpp: every live object of the owning
// class is read at the candidate offset until each 8-byte slot is decided
// or instances run out.
package ptrprobe

import (
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/model"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/objecttable"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// deadEnd marks a slot decided to hold a non-null value that does not
// itself dereference -- garbage data, not a pointer.
const deadEnd = addr.Address(1<<64 - 1)

// Slot is one decided 8-byte word within a probed range.
type Slot struct {
	Offset      int64
	Target      addr.Address
	IsObject    bool
	ObjectClass addr.Address
}

// Probe samples a target process's live object graph.
type Probe struct {
	r     remote.Reader
	table *objecttable.Table
	m     *model.Model
}

// New constructs a Probe.
func New(r remote.Reader, table *objecttable.Table, m *model.Model) *Probe {
	return &Probe{r: r, table: table, m: m}
}

// Scan decides, for every 8-byte-aligned word in [start, start+size) of
// instances of class, whether that word is a pointer member or plain
// padding. Each word is decided by the first instance that holds a
// non-null value there: a value that dereferences makes the word a
// pointer member, any other value makes it padding, and later instances
// are not consulted for it. A null value never decides a slot, since the
// original field may simply be unset on that particular instance; a word
// that is null on every instance stays padding.
func (p *Probe) Scan(class addr.Address, start, size int64) []Slot {
	num := size / 8
	if num <= 0 {
		return nil
	}
	decided := make([]bool, num)
	values := make([]addr.Address, num)
	remaining := int(num)

	p.table.ForEachOfClass(class, func(obj addr.Address) bool {
		for i := int64(0); i < num; i++ {
			if decided[i] {
				continue
			}
			ptr := remote.ReadPtr(p.r, obj.Add(start+i*8))
			if ptr.IsNil() {
				continue
			}
			var probe [8]byte
			if p.r.ReadAt(ptr, probe[:]) {
				values[i] = ptr
			} else {
				values[i] = deadEnd
			}
			decided[i] = true
			remaining--
		}
		return remaining > 0
	})

	slots := make([]Slot, 0, num)
	for i := int64(0); i < num; i++ {
		if !decided[i] || values[i].IsNil() || values[i] == deadEnd {
			continue
		}
		s := Slot{Offset: start + i*8, Target: values[i]}
		if p.m.IsA(values[i], p.m.StaticClass(model.ClassObject)) {
			s.IsObject = true
			s.ObjectClass = p.m.Class(values[i])
		}
		slots = append(slots, s)
	}
	return slots
}
