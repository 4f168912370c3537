package fuzz

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Tools names the external writer and extractor executables a Round
// invokes as black-box child processes.
type Tools struct {
	ZipPath   string
	UnzipPath string
}

// Round runs exactly one differential-fuzz iteration rooted at
// scratchDir: it lays out a fresh seed-derived tree, archives it with
// the writer, extracts the archive with the extractor, and compares
// the two trees. scratchDir is recreated empty on every call.
func Round(scratchDir string, seed uint64, tools Tools) error {
	if err := os.RemoveAll(scratchDir); err != nil {
		return fmt.Errorf("fuzz: clear scratch dir %s: %w", scratchDir, err)
	}

	stageDir := filepath.Join(scratchDir, "stage")
	extractDir := filepath.Join(scratchDir, "unzipped")
	archivePath := filepath.Join(scratchDir, "archive.zip")

	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return fmt.Errorf("fuzz: create %s: %w", stageDir, err)
	}
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return fmt.Errorf("fuzz: create %s: %w", extractDir, err)
	}

	if err := GenerateTree(stageDir, seed); err != nil {
		return err
	}

	if err := runChild(tools.ZipPath, archivePath, stageDir); err != nil {
		return fmt.Errorf("fuzz: archiver failed: %w", err)
	}
	if err := runChild(tools.UnzipPath, "-d", extractDir, archivePath); err != nil {
		return fmt.Errorf("fuzz: extractor failed: %w", err)
	}

	return CompareTrees(stageDir, extractDir)
}

// runChild invokes name with args, treating both a non-zero exit code
// and termination by signal as a fatal, reproducible seed failure.
func runChild(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

// ResolveTool finds an executable by flag override or by searching
// $PATH, the conventional way a Go CLI tool locates a cooperating
// external program.
func ResolveTool(override, name string) (string, error) {
	if override != "" {
		return override, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("fuzz: locate %s on PATH: %w", name, err)
	}
	return path, nil
}
