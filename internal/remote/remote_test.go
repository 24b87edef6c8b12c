package remote

import (
	"testing"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
)

func TestReadPtrRoundTrip(t *testing.T) {
	f := NewFake()
	want := addr.Address(0xdeadbeef)
	f.WritePtr(0x1000, want)

	got := ReadPtr(f, 0x1000)
	if got != want {
		t.Fatalf("ReadPtr = %s, want %s", got, want)
	}
}

func TestReadUint32(t *testing.T) {
	f := NewFake()
	f.WriteUint32(0x40, 0x12345678)
	if got := ReadUint32(f, 0x40); got != 0x12345678 {
		t.Fatalf("ReadUint32 = %#x, want %#x", got, 0x12345678)
	}
}

func TestTornReadReturnsZero(t *testing.T) {
	f := NewFake()
	f.Unmapped[0x100] = true
	if got := ReadUint8(f, 0x100); got != 0 {
		t.Fatalf("ReadUint8 of unmapped address = %d, want 0", got)
	}
	if got := ReadPtr(f, 0x100); got != addr.Nil {
		t.Fatalf("ReadPtr of unmapped address = %s, want Nil", got)
	}
}

func TestReadStringNulTerminated(t *testing.T) {
	f := NewFake()
	f.WriteAt(0x200, []byte("Hello\x00garbage"))
	if got := ReadString(f, 0x200, 64); got != "Hello" {
		t.Fatalf("ReadString = %q, want %q", got, "Hello")
	}
}

func TestSnapshotServesWithinRange(t *testing.T) {
	f := NewFake()
	f.WriteAt(0x1000, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	snap, ok := NewSnapshot(f, 0x1000, 8)
	if !ok {
		t.Fatal("NewSnapshot failed")
	}
	var buf [4]byte
	if !snap.ReadAt(0x1002, buf[:]) {
		t.Fatal("snapshot ReadAt failed within range")
	}
	if buf != [4]byte{3, 4, 5, 6} {
		t.Fatalf("snapshot data = %v", buf)
	}
	if snap.ReadAt(0x1010, buf[:]) {
		t.Fatal("snapshot ReadAt should fail outside range")
	}
	if snap.RVA(0x1004) != 4 {
		t.Fatalf("RVA = %d, want 4", snap.RVA(0x1004))
	}
}

func TestSnapshotFailsOnUnreadableBase(t *testing.T) {
	f := NewFake()
	if _, ok := NewSnapshot(f, 0x9999, 16); ok {
		t.Fatal("expected snapshot of unmapped region to fail")
	}
}
