package minizip

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// deflateWriter is a streaming raw-DEFLATE encoder honoring the 32
// KiB sliding window, fixed to the best-compression preset. It is a
// thin seam around github.com/klauspost/compress/flate, which already
// implements the hash-chained LZ77 matcher with lazy matching and the
// dynamic/fixed/stored block selection; the seam exists so the archive
// writer depends on a narrow Finish()-shaped contract rather than a
// specific compressor package.
type deflateWriter struct {
	fw *flate.Writer
}

// newDeflateWriter creates a deflateWriter that streams compressed
// output to sink.
func newDeflateWriter(sink io.Writer) (*deflateWriter, error) {
	fw, err := flate.NewWriter(sink, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("minizip: create deflate writer: %w", err)
	}
	return &deflateWriter{fw: fw}, nil
}

// Write feeds literal input bytes into the compressor.
func (d *deflateWriter) Write(p []byte) (int, error) {
	return d.fw.Write(p)
}

// Finish flushes the remaining literal buffer, emits the final block
// with BFINAL=1, and byte-aligns the output. It must be called
// exactly once before the caller relies on the total compressed
// length written to sink.
func (d *deflateWriter) Finish() error {
	if err := d.fw.Close(); err != nil {
		return fmt.Errorf("minizip: finish deflate stream: %w", err)
	}
	return nil
}
