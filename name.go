package minizip

import (
	"fmt"
	"strings"
)

// errUnsafeName is returned by validateArchivePath when a caller-
// supplied archive path fails the safety checks below.
type errUnsafeName struct {
	name   string
	reason string
}

func (e *errUnsafeName) Error() string {
	return fmt.Sprintf("minizip: unsafe archive path %q: %s", e.name, e.reason)
}

// validateArchivePath rejects names that could escape the extraction
// directory or otherwise confuse an extractor: empty names, names
// rooted with a slash or backslash, names containing a backslash at
// all, and names with a ".." path component.
//
// The tree scanner builds names with filepath.Rel and
// filepath.ToSlash and runs each of them through this check too, so a
// file under a scanned directory whose name contains a backslash is
// rejected. Standalone file arguments, which are stored verbatim, are
// the names this check rejects most often.
func validateArchivePath(name string) error {
	if name == "" {
		return &errUnsafeName{name: name, reason: "empty name"}
	}
	if name[0] == '/' || name[0] == '\\' {
		return &errUnsafeName{name: name, reason: "absolute path"}
	}
	if strings.ContainsRune(name, '\\') {
		return &errUnsafeName{name: name, reason: "contains backslash"}
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return &errUnsafeName{name: name, reason: "contains .. path component"}
		}
	}
	return nil
}
