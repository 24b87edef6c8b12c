// Package namepool decodes the engine's interned-name table: an index into
// (block, offset-in-block), a stride-aligned entry header carrying a
// wide/narrow flag and a length, and the string payload that follows.
// Grounded directly on UE_FNameEntry/UE_FName in
// original_source/Dumper/wrappers.cpp; the UTF-16 transcoding and stride
// bookkeeping borrow the index-to-block-table idea from
// golang-debug/core/mapping.go's two-level page table.
package namepool

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/addr"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/offsets"
	"github.com/luciouskami/UnrealSDKDumper-4.25/internal/remote"
)

// Decryptor rewrites a narrow name's bytes in place, e.g. to undo a
// per-byte XOR cipher some obfuscated builds apply to ANSI name payloads.
type Decryptor func(buf []byte)

// Pool decodes entries out of the target's interned-name table.
type Pool struct {
	r       remote.Reader
	cfg     offsets.NameEntry
	blocks  []addr.Address // base address of each allocated block
	decrypt Decryptor
	wide    *encoding.Decoder
}

// New constructs a Pool over blocks (the engine's array of name-pool block
// base pointers), using cfg to interpret each entry's header.
func New(r remote.Reader, cfg offsets.NameEntry, blocks []addr.Address, decrypt Decryptor) *Pool {
	wideCodec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	return &Pool{r: r, cfg: cfg, blocks: blocks, decrypt: decrypt, wide: wideCodec.NewDecoder()}
}

// Decode splits a 32-bit pool index into its block id and byte offset
// within that block, per spec.md §4.2: block = i >> BlockShift, offset =
// (i & BlockMask) * Stride, where BlockMask spans the low BlockBits bits.
func (p *Pool) Decode(index uint32) (block int, offset int64) {
	blockMask := uint32(1)<<p.cfg.BlockBits - 1
	block = int(index >> p.cfg.BlockShift)
	offset = int64(index&blockMask) * p.cfg.Stride
	return block, offset
}

// entryAddr resolves a pool index to the address of its entry header.
func (p *Pool) entryAddr(index uint32) (addr.Address, bool) {
	block, offset := p.Decode(index)
	if block < 0 || block >= len(p.blocks) {
		return addr.Nil, false
	}
	return p.blocks[block].Add(offset), true
}

// Info reads an entry's (wide, length) pair out of its header, per
// spec.md §4.2: length in the upper bits, wide-flag a designated bit.
func (p *Pool) Info(entry addr.Address) (wide bool, length uint16) {
	header := remote.ReadUint16(p.r, entry)
	length = header >> p.cfg.LenBitShift
	length &= uint16(1)<<p.cfg.LenBits - 1
	wide = (header>>p.cfg.WideBit)&1 != 0
	return wide, length
}

// String reads and decodes the string payload of an entry, applying the
// configured decryptor to narrow payloads and UTF-16LE->UTF-8 transcoding
// to wide ones.
func (p *Pool) String(entry addr.Address) string {
	wide, length := p.Info(entry)
	if length == 0 {
		return ""
	}
	payload := entry.Add(p.cfg.HeaderSize)
	if wide {
		buf := make([]byte, int(length)*2)
		if !p.r.ReadAt(payload, buf) {
			return ""
		}
		s, err := p.wide.Bytes(buf)
		if err != nil {
			return ""
		}
		return string(s)
	}
	buf := make([]byte, int(length))
	if !p.r.ReadAt(payload, buf) {
		return ""
	}
	if p.decrypt != nil {
		p.decrypt(buf)
	}
	return nulTerminate(buf)
}

func nulTerminate(b []byte) string {
	if i := indexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

// Size returns the stride-aligned byte size of an entry with the given
// wide-flag and length, per spec.md §4.2's size(wide,len) helper.
func (p *Pool) Size(wide bool, length uint16) int64 {
	bytes := p.cfg.HeaderSize + int64(length)*boolToBytesPerChar(wide)
	return alignUp(bytes, p.cfg.Stride)
}

func boolToBytesPerChar(wide bool) int64 {
	if wide {
		return 2
	}
	return 1
}

func alignUp(n, stride int64) int64 {
	if stride <= 0 {
		return n
	}
	return (n + stride - 1) / stride * stride
}

// Resolve decodes index into its final rendered name: wide/narrow decode,
// trailing-path trimming (only the text after the last '/' survives), and
// FName numbering (name_N for N>0), exactly per spec.md §3's "Name" model.
func (p *Pool) Resolve(index uint32, number uint32) string {
	entry, ok := p.entryAddr(index)
	if !ok {
		return ""
	}
	name := p.String(entry)
	if number > 0 {
		name = fmt.Sprintf("%s_%d", name, number)
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Dump walks every entry in every block, assigning monotonically
// increasing ids, per spec.md §4.2. The final, not-fully-filled block is
// walked by summing entry sizes until a zero-length entry (or the reader
// failing) signals its end -- we don't know its live high-water mark, only
// the allocation's overall address range.
func (p *Pool) Dump(blockCapacity int64, yield func(id uint32, name string) bool) {
	var id uint32
	for _, base := range p.blocks {
		var off int64
		for off < blockCapacity {
			entry := base.Add(off)
			wide, length := p.Info(entry)
			if length == 0 && off > 0 {
				// Reached the unused tail of the final block.
				break
			}
			name := p.String(entry)
			if !yield(id, name) {
				return
			}
			id++
			off += p.Size(wide, length)
		}
	}
}
