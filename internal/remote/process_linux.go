//go:build linux

package remote

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
)

// Process is the concrete Reader for a live Linux target, backed by
// process_vm_readv(2). It is the Linux analogue of the ptrace-based
// reader in golang-debug/program/server/ptrace.go: that file runs
// PtracePeekText calls on a dedicated, locked OS thread because ptrace
// requires the calling thread to be the tracer; process_vm_readv carries
// no such restriction, so Process needs no dedicated goroutine.
type Process struct {
	pid       int
	ptrSize   int64
	byteOrder binary.ByteOrder
}

// Attach opens a Reader for the already-running process pid. It does not
// ptrace-attach (no PTRACE_ATTACH is issued): process_vm_readv only
// requires that the caller have ptrace-equivalent permission (CAP_SYS_PTRACE
// or a matching uid and a permissive yama/ptrace_scope), never that the
// target be stopped, which keeps the dump non-intrusive (spec.md's
// NON-GOALS: no injection, no hooking, no mutation of the target).
func Attach(pid int) (*Process, error) {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		return nil, fmt.Errorf("remote: process %d not found: %w", pid, err)
	}
	return &Process{pid: pid, ptrSize: 8, byteOrder: binary.LittleEndian}, nil
}

// FindProcessByName scans /proc for a process whose comm matches name,
// the Linux stand-in for the original dumper's
// FindWindowA("UnrealWindow", nullptr) + GetWindowThreadProcessId lookup.
func FindProcessByName(name string) (int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, fmt.Errorf("remote: cannot enumerate /proc: %w", err)
	}
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(comm)) == name {
			return pid, nil
		}
	}
	return 0, fmt.Errorf("remote: no process named %q found", name)
}

// MainModule returns the base address and size of pid's main executable
// mapping, read from /proc/<pid>/maps. This replaces the Windows
// GetImageSize()/Base pair the original dumper reads via the PE headers of
// its own module view.
func MainModule(pid int) (base addr.Address, size int64, path string, err error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return 0, 0, "", fmt.Errorf("remote: cannot read maps for %d: %w", pid, err)
	}
	defer f.Close()

	exe, _ := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))

	var min, max addr.Address
	seen := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}
		if filepath.Clean(fields[5]) != exe {
			continue
		}
		lo, hi, ok := parseRange(fields[0])
		if !ok {
			continue
		}
		if !seen {
			min, max, seen = lo, hi, true
			continue
		}
		if hi > max {
			max = hi
		}
	}
	if !seen {
		return 0, 0, "", fmt.Errorf("remote: main module not found for pid %d", pid)
	}
	return min, max.Sub(min), exe, nil
}

func parseRange(s string) (lo, hi addr.Address, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	l, err1 := strconv.ParseUint(parts[0], 16, 64)
	h, err2 := strconv.ParseUint(parts[1], 16, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return addr.Address(l), addr.Address(h), true
}

// ReadAt implements Reader. It never panics: unmapped or now-gone pages
// simply fail the syscall and ReadAt reports false, per spec.md §4.1's
// "survive torn reads" requirement.
func (p *Process) ReadAt(a addr.Address, buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	local := []unix.Iovec{{Base: &buf[0], Len: uint64(len(buf))}}
	remoteAddr := uint64(a)
	remote := []unix.RemoteIovec{{Base: uintptr(remoteAddr), Len: len(buf)}}
	n, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	return err == nil && n == len(buf)
}

func (p *Process) PtrSize() int64 {
	return p.ptrSize
}

func (p *Process) ByteOrder() binary.ByteOrder {
	return p.byteOrder
}
