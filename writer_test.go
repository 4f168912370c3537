package minizip

import (
	"archive/zip"
	"bytes"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// TODO: a fuzz-driven differential test lives in cmd/zipfuzz; these
// are the unit-level round-trip checks.

func writeTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", p, err)
	}
	return p
}

type writeCase struct {
	name string
	data []byte
}

func TestWriterRoundTrip(t *testing.T) {
	large := make([]byte, 1<<17)
	if _, err := rand.Read(large); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	cases := []writeCase{
		{name: "test.txt", data: []byte("Hello, this is a test file!\nWith multiple lines.\n")},
		{name: "empty", data: nil},
		{name: "large.bin", data: large},
	}

	dir := t.TempDir()
	var entries []FileEntry
	for _, c := range cases {
		p := writeTempFile(t, dir, c.name, c.data)
		entries = append(entries, FileEntry{
			SourcePath:       p,
			ArchivePath:      c.name,
			UncompressedSize: int64(len(c.data)),
		})
	}

	archivePath := filepath.Join(dir, "out.zip")
	if err := WriteArchive(archivePath, entries); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	assertArchiveMatches(t, archivePath, cases)
}

func TestWriterEmptyFileHasZeroCRC(t *testing.T) {
	dir := t.TempDir()
	p := writeTempFile(t, dir, "empty", nil)
	archivePath := filepath.Join(dir, "out.zip")

	if err := WriteArchive(archivePath, []FileEntry{{SourcePath: p, ArchivePath: "empty"}}); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("zip.OpenReader: %v", err)
	}
	defer r.Close()

	if len(r.File) != 1 {
		t.Fatalf("got %d entries, want 1", len(r.File))
	}
	f := r.File[0]
	if f.CRC32 != 0 {
		t.Errorf("CRC32 = %#x, want 0", f.CRC32)
	}
	if f.UncompressedSize64 != 0 {
		t.Errorf("UncompressedSize64 = %d, want 0", f.UncompressedSize64)
	}
}

func TestWriterDirectoryStructure(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root")
	for _, rel := range []string{"root.txt", "dir1/file1.txt", "dir1/subdir/deep.txt", "dir2/file2.txt"} {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(p, []byte(rel), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	entries, err := Scan([]string{root})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	archivePath := filepath.Join(dir, "out.zip")
	if err := WriteArchive(archivePath, entries); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("zip.OpenReader: %v", err)
	}
	defer r.Close()

	want := map[string]string{
		"root.txt":             "root.txt",
		"dir1/file1.txt":       "dir1/file1.txt",
		"dir1/subdir/deep.txt": "dir1/subdir/deep.txt",
		"dir2/file2.txt":       "dir2/file2.txt",
	}
	if len(r.File) != len(want) {
		t.Fatalf("got %d entries, want %d", len(r.File), len(want))
	}
	for _, f := range r.File {
		wantContent, ok := want[f.Name]
		if !ok {
			t.Errorf("unexpected entry %q", f.Name)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open(%s): %v", f.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("ReadAll(%s): %v", f.Name, err)
		}
		if string(got) != wantContent {
			t.Errorf("entry %s = %q, want %q", f.Name, got, wantContent)
		}
	}
}

func TestWriterRejectsUnsafeStandaloneName(t *testing.T) {
	dir := t.TempDir()
	p := writeTempFile(t, dir, "payload", []byte("x"))
	archivePath := filepath.Join(dir, "out.zip")

	err := WriteArchive(archivePath, []FileEntry{{SourcePath: p, ArchivePath: "../escape"}})
	if err == nil {
		t.Fatal("expected error for unsafe archive path, got nil")
	}
	if _, statErr := os.Stat(archivePath); statErr == nil {
		t.Errorf("archive file %s should not exist after a rejected entry", archivePath)
	}
}

func TestWriterRejectsOversizedEntry(t *testing.T) {
	dir := t.TempDir()
	p := writeTempFile(t, dir, "tiny", []byte("x"))
	archivePath := filepath.Join(dir, "out.zip")

	// Claim a size that cannot fit in the 32 bit field; AddFile must
	// refuse before touching the payload.
	err := WriteArchive(archivePath, []FileEntry{{
		SourcePath:       p,
		ArchivePath:      "tiny",
		UncompressedSize: uint32max,
	}})
	if err == nil {
		t.Fatal("expected overflow error, got nil")
	}
}

func TestWriterCompressesRepetitiveData(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 5<<20)
	for i := range data {
		data[i] = byte(i % 256)
	}
	p := writeTempFile(t, dir, "large.bin", data)
	archivePath := filepath.Join(dir, "out.zip")

	if err := WriteArchive(archivePath, []FileEntry{{
		SourcePath:       p,
		ArchivePath:      "large.bin",
		UncompressedSize: int64(len(data)),
	}}); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("zip.OpenReader: %v", err)
	}
	defer r.Close()

	f := r.File[0]
	if f.CompressedSize64 >= f.UncompressedSize64 {
		t.Errorf("CompressedSize64 = %d, want substantially less than UncompressedSize64 = %d", f.CompressedSize64, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round-tripped bytes do not match")
	}
}

// assertArchiveMatches decodes archivePath with the standard library's
// archive/zip reader, used purely as an independent oracle, and checks
// every case round-trips.
func assertArchiveMatches(t *testing.T, archivePath string, cases []writeCase) {
	t.Helper()
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("zip.OpenReader: %v", err)
	}
	defer r.Close()

	if len(r.File) != len(cases) {
		t.Fatalf("got %d entries, want %d", len(r.File), len(cases))
	}

	byName := map[string]*zip.File{}
	for _, f := range r.File {
		byName[f.Name] = f
	}

	for _, c := range cases {
		f, ok := byName[c.name]
		if !ok {
			t.Errorf("missing entry %q", c.name)
			continue
		}
		if f.UncompressedSize64 != uint64(len(c.data)) {
			t.Errorf("%s: UncompressedSize64 = %d, want %d", c.name, f.UncompressedSize64, len(c.data))
		}

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open(%s): %v", c.name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("ReadAll(%s): %v", c.name, err)
		}
		if !bytes.Equal(got, c.data) {
			t.Errorf("%s: round-tripped bytes do not match", c.name)
		}
	}
}
