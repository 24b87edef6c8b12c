// Package remote provides the cross-process memory primitive the rest of
// the dumper is built on: typed reads from a live target process's virtual
// address space. It plays the role golang-debug/internal/core plays for
// core dump analysis, but reads a running process instead of a file.
//
// Process discovery and the raw syscall used to copy bytes out of another
// process's address space are treated as external collaborators (spec.md
// §1): Reader is the only thing the rest of the engine depends on.
package remote

import (
	"encoding/binary"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
)

// Reader is a typed, panic-free view of a target process's memory.
//
// ReadAt never panics, even when a is unmapped or the target has exited
// mid-read (a torn read): it reports false and leaves buf untouched beyond
// whatever partial bytes, if any, happened to be copied.
type Reader interface {
	ReadAt(a addr.Address, buf []byte) bool
	PtrSize() int64
	ByteOrder() binary.ByteOrder
}

// ReadPtr reads a pointer-sized value and returns it as an Address.
func ReadPtr(r Reader, a addr.Address) addr.Address {
	buf := make([]byte, r.PtrSize())
	if !r.ReadAt(a, buf) {
		return addr.Nil
	}
	if r.PtrSize() == 4 {
		return addr.Address(r.ByteOrder().Uint32(buf))
	}
	return addr.Address(r.ByteOrder().Uint64(buf))
}

// ReadUint8, ReadUint16, ReadUint32, ReadUint64 are the fixed-width
// convenience readers spec.md §4.1 calls "typed convenience read_as<T>".

func ReadUint8(r Reader, a addr.Address) uint8 {
	var b [1]byte
	if !r.ReadAt(a, b[:]) {
		return 0
	}
	return b[0]
}

func ReadUint16(r Reader, a addr.Address) uint16 {
	var b [2]byte
	if !r.ReadAt(a, b[:]) {
		return 0
	}
	return r.ByteOrder().Uint16(b[:])
}

func ReadUint32(r Reader, a addr.Address) uint32 {
	var b [4]byte
	if !r.ReadAt(a, b[:]) {
		return 0
	}
	return r.ByteOrder().Uint32(b[:])
}

func ReadUint64(r Reader, a addr.Address) uint64 {
	var b [8]byte
	if !r.ReadAt(a, b[:]) {
		return 0
	}
	return r.ByteOrder().Uint64(b[:])
}

// ReadString reads a NUL-terminated byte string, capped at max bytes.
func ReadString(r Reader, a addr.Address, max int) string {
	buf := make([]byte, 0, 64)
	var b [64]byte
	for len(buf) < max {
		n := len(b)
		if max-len(buf) < n {
			n = max - len(buf)
		}
		if !r.ReadAt(a.Add(int64(len(buf))), b[:n]) {
			// The chunk runs into unreadable memory: go on one byte at a
			// time so a terminator just before that memory is still found.
			if n == 1 || !r.ReadAt(a.Add(int64(len(buf))), b[:1]) {
				break
			}
			n = 1
		}
		if i := indexZero(b[:n]); i >= 0 {
			buf = append(buf, b[:i]...)
			break
		}
		buf = append(buf, b[:n]...)
	}
	return string(buf)
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}
