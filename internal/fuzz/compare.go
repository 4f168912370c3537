package fuzz

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const compareBufSize = 4096

// CompareTrees walks staged and extracted in lockstep and returns an
// error describing the first structural or content mismatch found.
// Comparison proceeds directory by directory: every entry in staged
// must have a same-named, same-kind counterpart in extracted with
// identical contents (pass one), and every entry in extracted must
// have a counterpart in staged (pass two, which catches anything the
// extractor added that was never in the original tree).
func CompareTrees(staged, extracted string) error {
	return compareDir(staged, extracted)
}

func compareDir(stageDir, extractDir string) error {
	stageEntries, err := os.ReadDir(stageDir)
	if err != nil {
		return fmt.Errorf("fuzz: read %s: %w", stageDir, err)
	}
	extractEntries, err := os.ReadDir(extractDir)
	if err != nil {
		return fmt.Errorf("fuzz: read %s: %w", extractDir, err)
	}

	byName := make(map[string]os.DirEntry, len(extractEntries))
	for _, e := range extractEntries {
		byName[e.Name()] = e
	}

	seen := make(map[string]bool, len(stageEntries))
	for _, se := range stageEntries {
		seen[se.Name()] = true
		ee, ok := byName[se.Name()]
		if !ok {
			return fmt.Errorf("fuzz: %s is missing from %s", filepath.Join(stageDir, se.Name()), extractDir)
		}

		stagePath := filepath.Join(stageDir, se.Name())
		extractPath := filepath.Join(extractDir, se.Name())

		switch {
		case se.IsDir():
			if !ee.IsDir() {
				return fmt.Errorf("fuzz: %s is a directory but %s is not", stagePath, extractPath)
			}
			if err := compareDir(stagePath, extractPath); err != nil {
				return err
			}

		case se.Type().IsRegular():
			if !ee.Type().IsRegular() {
				return fmt.Errorf("fuzz: %s is a regular file but %s is not", stagePath, extractPath)
			}
			if err := compareFileContents(stagePath, extractPath); err != nil {
				return err
			}

		default:
			return fmt.Errorf("fuzz: %s has an unsupported file kind in the staged tree", stagePath)
		}
	}

	for _, ee := range extractEntries {
		if !seen[ee.Name()] {
			return fmt.Errorf("fuzz: %s is present in %s but not in %s", ee.Name(), extractDir, stageDir)
		}
	}

	return nil
}

// compareFileContents reads both files in fixed-size chunks so
// comparisons of large generated files never hold more than a couple
// of buffers in memory at once.
func compareFileContents(stagePath, extractPath string) error {
	sf, err := os.Open(stagePath)
	if err != nil {
		return fmt.Errorf("fuzz: open %s: %w", stagePath, err)
	}
	defer sf.Close()

	ef, err := os.Open(extractPath)
	if err != nil {
		return fmt.Errorf("fuzz: open %s: %w", extractPath, err)
	}
	defer ef.Close()

	bufA := make([]byte, compareBufSize)
	bufB := make([]byte, compareBufSize)
	for {
		na, erra := io.ReadFull(sf, bufA)
		nb, errb := io.ReadFull(ef, bufB)

		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return fmt.Errorf("fuzz: %s and %s differ in content", stagePath, extractPath)
		}

		doneA := erra == io.EOF || erra == io.ErrUnexpectedEOF
		doneB := errb == io.EOF || errb == io.ErrUnexpectedEOF
		if doneA != doneB {
			return fmt.Errorf("fuzz: %s and %s differ in length", stagePath, extractPath)
		}
		if doneA {
			return nil
		}
		if erra != nil {
			return fmt.Errorf("fuzz: read %s: %w", stagePath, erra)
		}
		if errb != nil {
			return fmt.Errorf("fuzz: read %s: %w", extractPath, errb)
		}
	}
}
