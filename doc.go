// Package minizip writes ZIP archives to a seekable file: it walks a
// filesystem tree, DEFLATE-compresses each regular file while
// computing its CRC-32, and emits a standards-compliant local
// header/central directory/end record layout, back-patching each
// local header once its compressed size and CRC are known.
//
// It does not read existing archives, and it does not emit ZIP64,
// encryption, multi-disk, data descriptor, or extra-field records.
//
// See: https://www.pkware.com/appnote
package minizip
