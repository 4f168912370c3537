// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minizip

import (
	"fmt"
	"io"
	"os"
)

// countingWriter is an io.Writer decorator that tracks the absolute
// byte offset written so far, threaded explicitly through the writer
// pipeline rather than hidden behind a vtable.
type countingWriter struct {
	w      io.Writer
	offset int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.offset += int64(n)
	return n, err
}

// pendingEntry records what Close needs to know about an already-
// written entry: where its placeholder local header lives (for
// back-patching) and the finalized sizes/CRC to emit into both the
// back-patched local header and the central directory.
type pendingEntry struct {
	archivePath      string
	headerOffset     int64
	crc32            uint32
	compressedSize   uint32
	uncompressedSize uint32
}

// Writer creates a ZIP archive on disk, one entry at a time. A
// placeholder local header is written before the compressed payload,
// then every local header is rewritten once its true CRC and sizes
// are known.
type Writer struct {
	path    string
	f       *os.File
	cw      *countingWriter
	entries []pendingEntry
	closed  bool
}

// Create opens (creating or truncating) archivePath and returns a
// Writer ready to accept entries via AddFile.
func Create(archivePath string) (*Writer, error) {
	f, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("minizip: create archive %s: %w", archivePath, err)
	}
	return &Writer{
		path: archivePath,
		f:    f,
		cw:   &countingWriter{w: f},
	}, nil
}

// AddFile streams entry's source file through CRC-32 and DEFLATE into
// the archive, preceded by a placeholder local header that Close will
// later back-patch.
func (zw *Writer) AddFile(entry FileEntry) error {
	if err := validateArchivePath(entry.ArchivePath); err != nil {
		return err
	}
	if err := checkFits32("uncompressed size", uint64(entry.UncompressedSize)); err != nil {
		return err
	}

	src, err := os.Open(entry.SourcePath)
	if err != nil {
		return fmt.Errorf("minizip: open %s: %w", entry.SourcePath, err)
	}
	defer src.Close()

	headerOffset := zw.cw.offset
	if err := checkFits32("local header offset", uint64(headerOffset)); err != nil {
		return err
	}
	if err := writeLocalFileHeader(zw.cw, entry.ArchivePath, localFileHeader{method: Deflate}); err != nil {
		return err
	}
	payloadStart := zw.cw.offset

	dw, err := newDeflateWriter(zw.cw)
	if err != nil {
		return err
	}
	tap := newCRCTap(src)
	if _, err := tap.pumpInto(dw); err != nil {
		return fmt.Errorf("minizip: compress %s: %w", entry.SourcePath, err)
	}
	if err := dw.Finish(); err != nil {
		return err
	}

	compressedSize := zw.cw.offset - payloadStart
	uncompressedSize := tap.bytesRead()
	if err := checkFits32("compressed size", uint64(compressedSize)); err != nil {
		return err
	}
	if err := checkFits32("uncompressed size", uint64(uncompressedSize)); err != nil {
		return err
	}

	zw.entries = append(zw.entries, pendingEntry{
		archivePath:      entry.ArchivePath,
		headerOffset:     headerOffset,
		crc32:            tap.finalCRC(),
		compressedSize:   uint32(compressedSize),
		uncompressedSize: uint32(uncompressedSize),
	})
	return nil
}

// Close emits the central directory and end-of-central-directory
// record, closes the archive, then reopens it to back-patch every
// local header with its finalized CRC and sizes.
func (zw *Writer) Close() error {
	if zw.closed {
		return nil
	}
	zw.closed = true

	centralDirectoryOffset := zw.cw.offset
	for _, e := range zw.entries {
		if err := writeCentralDirectoryHeader(zw.cw, e.archivePath, centralDirectoryHeader{
			method:            Deflate,
			crc32:             e.crc32,
			compressedSize:    e.compressedSize,
			uncompressedSize:  e.uncompressedSize,
			localHeaderOffset: uint32(e.headerOffset),
		}); err != nil {
			zw.f.Close()
			return err
		}
	}
	centralDirectorySize := zw.cw.offset - centralDirectoryOffset

	if err := checkFits32("central directory offset", uint64(centralDirectoryOffset)); err != nil {
		zw.f.Close()
		return err
	}
	if err := checkFits32("central directory size", uint64(centralDirectorySize)); err != nil {
		zw.f.Close()
		return err
	}
	if len(zw.entries) >= 1<<16 {
		zw.f.Close()
		return fmt.Errorf("minizip: %d entries exceeds the 16-bit record count field (ZIP64 is not supported)", len(zw.entries))
	}

	if err := writeEndOfCentralDir(zw.cw, endOfCentralDir{
		recordCount:            uint16(len(zw.entries)),
		centralDirectorySize:   uint32(centralDirectorySize),
		centralDirectoryOffset: uint32(centralDirectoryOffset),
	}); err != nil {
		zw.f.Close()
		return err
	}

	if err := zw.f.Close(); err != nil {
		return fmt.Errorf("minizip: close %s: %w", zw.path, err)
	}

	return zw.backPatchLocalHeaders()
}

// backPatchLocalHeaders reopens the archive for read-write and
// rewrites each entry's local file header now that its CRC and sizes
// are known. The placeholder written by AddFile is identical in size
// to the final header, so this only ever seeks; it never shifts
// bytes.
func (zw *Writer) backPatchLocalHeaders() error {
	f, err := os.OpenFile(zw.path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("minizip: reopen %s for back-patching: %w", zw.path, err)
	}
	defer f.Close()

	for _, e := range zw.entries {
		if _, err := f.Seek(e.headerOffset, io.SeekStart); err != nil {
			return fmt.Errorf("minizip: seek to local header for %s: %w", e.archivePath, err)
		}
		buf := localFileHeader{
			method:           Deflate,
			crc32:            e.crc32,
			compressedSize:   e.compressedSize,
			uncompressedSize: e.uncompressedSize,
			nameLength:       uint16(len(e.archivePath)),
		}.encode()
		if _, err := f.Write(buf[:]); err != nil {
			return fmt.Errorf("minizip: back-patch local header for %s: %w", e.archivePath, err)
		}
	}
	return nil
}

// WriteArchive is the convenience entry point used by cmd/zip: it
// drives Create/AddFile/Close over an already-scanned entry list.
func WriteArchive(archivePath string, entries []FileEntry) (err error) {
	zw, err := Create(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(archivePath)
		}
	}()

	for _, entry := range entries {
		if err = zw.AddFile(entry); err != nil {
			zw.f.Close()
			return err
		}
	}
	if err = zw.Close(); err != nil {
		return err
	}
	return nil
}
