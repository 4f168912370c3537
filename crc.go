package minizip

import (
	"hash"
	"hash/crc32"
	"io"
)

// crcTap wraps a source reader and, as bytes are pumped through it
// towards a sink, accumulates the IEEE 802.3 CRC-32 used by the ZIP
// format (reflected input/output, initial and final XOR of
// 0xFFFFFFFF, polynomial 0xEDB88320 — exactly crc32.IEEETable).
//
// It favors a small decorator around a single-method interface over a
// vtable-based stream trait.
type crcTap struct {
	r    io.Reader
	hash hash.Hash32
	n    int64
}

func newCRCTap(r io.Reader) *crcTap {
	return &crcTap{r: r, hash: crc32.NewIEEE()}
}

// pumpInto reads the whole of the wrapped reader into sink, updating
// the running CRC-32 and byte count as it goes. It returns the number
// of bytes copied.
func (t *crcTap) pumpInto(sink io.Writer) (int64, error) {
	n, err := io.Copy(io.MultiWriter(sink, t.hash), t.r)
	t.n += n
	if err != nil {
		return n, err
	}
	return n, nil
}

// finalCRC freezes and returns the CRC-32 of everything pumped so far.
func (t *crcTap) finalCRC() uint32 {
	return t.hash.Sum32()
}

// bytesRead returns the total number of bytes pumped through the tap.
func (t *crcTap) bytesRead() int64 {
	return t.n
}
