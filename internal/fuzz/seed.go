package fuzz

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// maxSeedFileBytes bounds how much of a seed file is trusted before it
// is treated as malformed; a legitimate seed is at most 20 decimal
// digits plus a line ending.
const maxSeedFileBytes = 100

// ReadSeed loads the persisted seed from path, returning 0 if the file
// does not exist yet (a fresh run starts at seed 0).
func ReadSeed(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fuzz: read seed file %s: %w", path, err)
	}
	if len(data) > maxSeedFileBytes {
		return 0, fmt.Errorf("fuzz: seed file %s is larger than %d bytes", path, maxSeedFileBytes)
	}

	text := strings.TrimRight(string(data), "\r\n")
	seed, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("fuzz: parse seed file %s: %w", path, err)
	}
	return seed, nil
}

// WriteSeed persists seed to path as a decimal integer, then reads it
// back to confirm the write is durable before returning.
func WriteSeed(path string, seed uint64) error {
	text := strconv.FormatUint(seed, 10) + "\n"
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("fuzz: write seed file %s: %w", path, err)
	}

	got, err := ReadSeed(path)
	if err != nil {
		return err
	}
	if got != seed {
		return fmt.Errorf("fuzz: seed file %s round-trip mismatch: wrote %d, read back %d", path, seed, got)
	}
	return nil
}
