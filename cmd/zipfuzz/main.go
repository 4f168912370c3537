// Command zipfuzz differentially fuzzes an archive writer against an
// extractor: it generates a random directory tree from a persisted
// seed, archives it, extracts the archive with an external tool, and
// checks the two trees are identical. On success the seed is
// incremented and persisted so the next run covers new ground.
//
// Usage:
//
//	zipfuzz [-seed-file PATH] [-scratch-dir PATH] [-zip PATH] [-unzip PATH] [-n COUNT]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gophertoolbox/minizip/internal/fuzz"
)

func main() {
	var (
		seedFile   = flag.String("seed-file", "seed.txt", "path to the persisted seed")
		scratchDir = flag.String("scratch-dir", filepath.Join(os.TempDir(), "zipfuzz-scratch"), "scratch directory recreated each round")
		zipPath    = flag.String("zip", "", "path to the archive writer executable (default: resolved from $PATH)")
		unzipPath  = flag.String("unzip", "", "path to the extractor executable (default: resolved from $PATH)")
		count      = flag.Int("n", 1, "number of rounds to run")
	)
	flag.Parse()

	if err := run(*seedFile, *scratchDir, *zipPath, *unzipPath, *count); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(seedFile, scratchDir, zipOverride, unzipOverride string, count int) error {
	zipTool, err := fuzz.ResolveTool(zipOverride, "zip")
	if err != nil {
		return err
	}
	unzipTool, err := fuzz.ResolveTool(unzipOverride, "unzip")
	if err != nil {
		return err
	}
	tools := fuzz.Tools{ZipPath: zipTool, UnzipPath: unzipTool}

	for i := 0; i < count; i++ {
		seed, err := fuzz.ReadSeed(seedFile)
		if err != nil {
			return err
		}

		if err := fuzz.Round(scratchDir, seed, tools); err != nil {
			return fmt.Errorf("seed %d: %w", seed, err)
		}

		if err := fuzz.WriteSeed(seedFile, seed+1); err != nil {
			return err
		}
	}
	return nil
}
