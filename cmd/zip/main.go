// Command zip writes a ZIP archive containing the given files and
// directories.
//
// Usage:
//
//	zip ARCHIVE PATH...
//
// ARCHIVE is created or truncated. Each PATH that names a regular file
// is added verbatim under its own argument text; each PATH that names
// a directory is walked recursively. No option flags are defined: any
// argument beginning with "-" is rejected.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gophertoolbox/minizip"
)

const usage = "usage: zip ARCHIVE PATH...\n"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			fmt.Fprintf(os.Stderr, "zip: unknown cmdline option %q\n", a)
			return 0xff
		}
	}
	if len(args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return 0xff
	}

	archivePath := args[0]
	paths := args[1:]

	entries, err := minizip.Scan(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zip: %v\n", err)
		return 0xff
	}

	if err := minizip.WriteArchive(archivePath, entries); err != nil {
		fmt.Fprintf(os.Stderr, "zip: %v\n", err)
		return 0xff
	}

	return 0
}
