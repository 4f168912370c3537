package minizip

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileEntry describes one file to be added to the archive: where to
// read it from on disk, and what name it should carry inside the
// archive.
type FileEntry struct {
	// SourcePath is the path to open for reading file contents.
	SourcePath string

	// ArchivePath is the "/"-separated name stored inside the
	// archive. It is always archive-safe (see validateArchivePath).
	ArchivePath string

	// UncompressedSize is the file size observed at scan time. The
	// writer checks it against the 32-bit field limit before reading
	// the file; the size stored in the archive is the number of bytes
	// actually read, which differs from this value if the file changed
	// between scan and write.
	UncompressedSize int64
}

// errUnsupportedFileKind is returned by Scan when a path is neither a
// regular file nor a directory.
type errUnsupportedFileKind struct {
	path string
	mode os.FileMode
}

func (e *errUnsupportedFileKind) Error() string {
	return fmt.Sprintf("minizip: %s is not a regular file or directory (mode %v)", e.path, e.mode)
}

// Scan expands a list of command-line paths into a flat, ordered list
// of FileEntry values. A regular file argument becomes a single entry
// named by its verbatim argument text; a directory argument is walked
// recursively, with archive paths built from path components relative
// to that directory's root.
//
// Filesystem iteration order is not guaranteed by the OS, so entries
// discovered under the same root are sorted by archive path before
// being returned, which keeps archives produced from the same inputs
// byte-identical across runs.
func Scan(paths []string) ([]FileEntry, error) {
	var entries []FileEntry
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			return nil, fmt.Errorf("minizip: stat %s: %w", p, err)
		}

		switch {
		case info.Mode().IsRegular():
			if err := validateArchivePath(p); err != nil {
				return nil, err
			}
			entries = append(entries, FileEntry{
				SourcePath:       p,
				ArchivePath:      p,
				UncompressedSize: info.Size(),
			})

		case info.IsDir():
			dirEntries, err := scanDir(p)
			if err != nil {
				return nil, err
			}
			entries = append(entries, dirEntries...)

		default:
			return nil, &errUnsupportedFileKind{path: p, mode: info.Mode()}
		}
	}
	return entries, nil
}

// scanDir recursively enumerates root, producing one FileEntry per
// regular file found beneath it. Directory entries themselves are not
// emitted: empty directories are not preserved by this writer.
func scanDir(root string) ([]FileEntry, error) {
	var entries []FileEntry
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("minizip: walk %s: %w", path, err)
		}
		if path == root {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			return &errUnsupportedFileKind{path: path, mode: info.Mode()}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("minizip: relativize %s: %w", path, err)
		}
		archivePath := filepath.ToSlash(rel)
		if err := validateArchivePath(archivePath); err != nil {
			return err
		}

		entries = append(entries, FileEntry{
			SourcePath:       path,
			ArchivePath:      archivePath,
			UncompressedSize: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ArchivePath < entries[j].ArchivePath
	})
	return entries, nil
}
