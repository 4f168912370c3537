// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minizip

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Compression methods understood by the wire format. This writer only
// ever emits Deflate, but Store is defined for completeness of the
// codec.
const (
	Store   uint16 = 0
	Deflate uint16 = 8
)

const (
	localFileHeaderSignature  = 0x04034b50
	centralDirectorySignature = 0x02014b50
	endOfCentralDirSignature  = 0x06054b50
	localFileHeaderLen        = 30 // + name
	centralDirectoryHeaderLen = 46 // + name
	endOfCentralDirLen        = 22

	readerVersionNeeded uint16 = 10
)

// uint32max is the largest value a 32 bit size or offset field in this
// format can hold. Anything at or beyond this needs ZIP64, which this
// writer deliberately does not emit.
const uint32max = 1<<32 - 1

// errFieldOverflow is returned when a size or offset would not fit in
// the 32 bit wire field without truncation.
type errFieldOverflow struct {
	field string
	value uint64
}

func (e *errFieldOverflow) Error() string {
	return fmt.Sprintf("minizip: %s value %d exceeds 32-bit field width (ZIP64 is not supported)", e.field, e.value)
}

func checkFits32(field string, v uint64) error {
	if v >= uint32max {
		return &errFieldOverflow{field: field, value: v}
	}
	return nil
}

// writeBuf is a cursor over a fixed byte buffer, used to pack the
// little-endian wire structs without any padding.
type writeBuf []byte

func (b *writeBuf) uint16(v uint16) {
	binary.LittleEndian.PutUint16((*b)[:2], v)
	*b = (*b)[2:]
}

func (b *writeBuf) uint32(v uint32) {
	binary.LittleEndian.PutUint32((*b)[:4], v)
	*b = (*b)[4:]
}

// localFileHeader is the fixed-size portion of a ZIP local file
// header, as emitted both as a placeholder (all zero CRC/sizes) and,
// once the payload is known, as the back-patched final header.
type localFileHeader struct {
	method           uint16
	crc32            uint32
	compressedSize   uint32
	uncompressedSize uint32
	nameLength       uint16
}

func (h localFileHeader) encode() [localFileHeaderLen]byte {
	var buf [localFileHeaderLen]byte
	b := writeBuf(buf[:])
	b.uint32(localFileHeaderSignature)
	b.uint16(readerVersionNeeded)
	b.uint16(0) // flags
	b.uint16(h.method)
	b.uint16(0) // mod time
	b.uint16(0) // mod date
	b.uint32(h.crc32)
	b.uint32(h.compressedSize)
	b.uint32(h.uncompressedSize)
	b.uint16(h.nameLength)
	b.uint16(0) // extra length
	return buf
}

// writeLocalFileHeader writes the fixed header followed by the name.
func writeLocalFileHeader(w io.Writer, name string, h localFileHeader) error {
	if len(name) > 0xffff {
		return fmt.Errorf("minizip: name length %d exceeds the 16-bit name length field", len(name))
	}
	h.nameLength = uint16(len(name))
	buf := h.encode()
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("minizip: write local file header: %w", err)
	}
	if _, err := io.WriteString(w, name); err != nil {
		return fmt.Errorf("minizip: write local file header name: %w", err)
	}
	return nil
}

// centralDirectoryHeader is the fixed-size portion of a ZIP central
// directory file header.
type centralDirectoryHeader struct {
	method            uint16
	crc32             uint32
	compressedSize    uint32
	uncompressedSize  uint32
	nameLength        uint16
	localHeaderOffset uint32
}

func (h centralDirectoryHeader) encode() [centralDirectoryHeaderLen]byte {
	var buf [centralDirectoryHeaderLen]byte
	b := writeBuf(buf[:])
	b.uint32(centralDirectorySignature)
	b.uint16(0) // version made by
	b.uint16(readerVersionNeeded)
	b.uint16(0) // flags
	b.uint16(h.method)
	b.uint16(0) // mod time
	b.uint16(0) // mod date
	b.uint32(h.crc32)
	b.uint32(h.compressedSize)
	b.uint32(h.uncompressedSize)
	b.uint16(h.nameLength)
	b.uint16(0) // extra length
	b.uint16(0) // comment length
	b.uint16(0) // disk number start
	b.uint16(0) // internal attrs
	b.uint32(0) // external attrs
	b.uint32(h.localHeaderOffset)
	return buf
}

func writeCentralDirectoryHeader(w io.Writer, name string, h centralDirectoryHeader) error {
	if len(name) > 0xffff {
		return fmt.Errorf("minizip: name length %d exceeds the 16-bit name length field", len(name))
	}
	h.nameLength = uint16(len(name))
	buf := h.encode()
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("minizip: write central directory header: %w", err)
	}
	if _, err := io.WriteString(w, name); err != nil {
		return fmt.Errorf("minizip: write central directory header name: %w", err)
	}
	return nil
}

// endOfCentralDir is the end-of-central-directory record.
type endOfCentralDir struct {
	recordCount            uint16
	centralDirectorySize   uint32
	centralDirectoryOffset uint32
}

func (e endOfCentralDir) encode() [endOfCentralDirLen]byte {
	var buf [endOfCentralDirLen]byte
	b := writeBuf(buf[:])
	b.uint32(endOfCentralDirSignature)
	b.uint16(0) // disk number
	b.uint16(0) // cd start disk
	b.uint16(e.recordCount)
	b.uint16(e.recordCount)
	b.uint32(e.centralDirectorySize)
	b.uint32(e.centralDirectoryOffset)
	b.uint16(0) // comment length
	return buf
}

func writeEndOfCentralDir(w io.Writer, e endOfCentralDir) error {
	buf := e.encode()
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("minizip: write end of central directory record: %w", err)
	}
	return nil
}
