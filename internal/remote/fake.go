package remote

import (
	"encoding/binary"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
)

// Fake is an in-memory Reader used by tests across every layer of the
// engine, standing in for a live process the way the testdata buffers in
// golang-debug/internal/gocore's tests stand in for core files.
type Fake struct {
	Mem      map[addr.Address]byte
	Ptr      int64
	Order    binary.ByteOrder
	Unmapped map[addr.Address]bool // explicitly unreadable addresses, for torn-read tests
}

// NewFake returns an empty little-endian, 8-byte-pointer Fake.
func NewFake() *Fake {
	return &Fake{
		Mem:      make(map[addr.Address]byte),
		Ptr:      8,
		Order:    binary.LittleEndian,
		Unmapped: make(map[addr.Address]bool),
	}
}

// WriteAt stores bytes into the fake memory, overwriting sparsely.
func (f *Fake) WriteAt(a addr.Address, b []byte) {
	for i, c := range b {
		f.Mem[a.Add(int64(i))] = c
	}
}

// WritePtr stores a pointer-sized value at a.
func (f *Fake) WritePtr(a addr.Address, v addr.Address) {
	b := make([]byte, f.Ptr)
	if f.Ptr == 4 {
		f.Order.PutUint32(b, uint32(v))
	} else {
		f.Order.PutUint64(b, uint64(v))
	}
	f.WriteAt(a, b)
}

// WriteUint32 stores a uint32 at a.
func (f *Fake) WriteUint32(a addr.Address, v uint32) {
	b := make([]byte, 4)
	f.Order.PutUint32(b, v)
	f.WriteAt(a, b)
}

// WriteUint16 stores a uint16 at a.
func (f *Fake) WriteUint16(a addr.Address, v uint16) {
	b := make([]byte, 2)
	f.Order.PutUint16(b, v)
	f.WriteAt(a, b)
}

func (f *Fake) ReadAt(a addr.Address, buf []byte) bool {
	for i := range buf {
		x := a.Add(int64(i))
		if f.Unmapped[x] {
			return false
		}
		v, ok := f.Mem[x]
		if !ok {
			return false
		}
		buf[i] = v
	}
	return true
}

func (f *Fake) PtrSize() int64 {
	return f.Ptr
}

func (f *Fake) ByteOrder() binary.ByteOrder {
	return f.Order
}
