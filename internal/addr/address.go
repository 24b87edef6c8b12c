// Package addr defines the remote-address type shared by every layer of the
// dumper: a thin value carrying a single pointer into the target process's
// virtual address space. See golang-debug/internal/core for the model this
// is lifted from (that package's Address plays the identical role for core
// dump analysis).
package addr

import "fmt"

// Address is a virtual address inside the target process. It carries no
// memory of its own; dereferencing it requires a Reader.
type Address uint64

// Nil is the zero address. Every property, object, and outer pointer in the
// target is compared against Nil to detect the end of a chain.
const Nil Address = 0

// Add returns a+off, allowing negative offsets.
func (a Address) Add(off int64) Address {
	return Address(int64(a) + off)
}

// Sub returns a-b as a byte count.
func (a Address) Sub(b Address) int64 {
	return int64(a) - int64(b)
}

// AlignUp rounds a up to the next multiple of n. n must be a power of two.
func (a Address) AlignUp(n int64) Address {
	m := Address(n - 1)
	return (a + m) &^ m
}

// IsNil reports whether a is the zero address.
func (a Address) IsNil() bool {
	return a == Nil
}

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}
