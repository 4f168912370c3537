package fuzz

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lazybeaver/xorshift"
)

const (
	maxDepth          = 5
	maxEntriesPerDir  = 1000
	maxTotalTreeSize  = 1 << 20  // 1 MiB
	maxSingleFileSize = 10 << 20 // 10 MiB, also bounded by remaining budget
)

type action int

const (
	actionFile action = iota
	actionSubdir
	actionReturn
)

// generator produces a deterministic sequence of names and byte
// contents from a single 64-bit seed, via xorshift.XorShift64Star.
type generator struct {
	rng       *xorshift.XorShift64Star
	nameIndex uint64
}

func newGenerator(seed uint64) *generator {
	if seed == 0 {
		// XorShift64Star's state must never be zero.
		seed = 1
	}
	return &generator{rng: xorshift.NewXorShift64Star(seed)}
}

func (g *generator) nextName() string {
	n := nameForIndex(g.nameIndex)
	g.nameIndex++
	return n
}

// uint64n returns a value uniformly distributed over [0, n).
func (g *generator) uint64n(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return g.rng.Next() % n
}

// GenerateTree populates root with a deterministic pseudo-random
// directory tree derived from seed: the same seed always produces a
// byte-identical tree. Total tree size is drawn uniformly from
// [0, 1 MiB]; directories nest to at most 5 levels deep and hold at
// most 1000 entries each.
func GenerateTree(root string, seed uint64) error {
	g := newGenerator(seed)
	budget := int64(g.uint64n(maxTotalTreeSize + 1))
	return g.fillDir(root, 0, &budget)
}

func (g *generator) fillDir(dir string, depth int, budget *int64) error {
	entries := 0
	for {
		if depth == 0 && *budget <= 0 {
			return nil
		}
		if entries >= maxEntriesPerDir {
			return nil
		}

		switch g.chooseAction(depth, *budget) {
		case actionReturn:
			return nil

		case actionFile:
			if err := g.createFile(dir, budget); err != nil {
				return err
			}
			entries++

		case actionSubdir:
			sub := filepath.Join(dir, g.nextName())
			if err := os.Mkdir(sub, 0755); err != nil {
				return fmt.Errorf("fuzz: mkdir %s: %w", sub, err)
			}
			if err := g.fillDir(sub, depth+1, budget); err != nil {
				return err
			}
			entries++
		}
	}
}

func (g *generator) chooseAction(depth int, budget int64) action {
	switch {
	case depth == 0:
		if budget <= 0 {
			return actionReturn
		}
		if g.uint64n(2) == 0 {
			return actionFile
		}
		return actionSubdir

	case depth >= maxDepth:
		if budget <= 0 || g.uint64n(2) == 0 {
			return actionReturn
		}
		return actionFile

	default:
		if budget <= 0 {
			return actionReturn
		}
		switch g.uint64n(3) {
		case 0:
			return actionFile
		case 1:
			return actionSubdir
		default:
			return actionReturn
		}
	}
}

func (g *generator) createFile(dir string, budget *int64) error {
	limit := *budget
	if limit > maxSingleFileSize {
		limit = maxSingleFileSize
	}
	size := int64(g.uint64n(uint64(limit) + 1))

	data := make([]byte, size)
	for i := 0; i < len(data); {
		v := g.rng.Next()
		for shift := 0; shift < 8 && i < len(data); shift++ {
			data[i] = byte(v)
			v >>= 8
			i++
		}
	}

	name := filepath.Join(dir, g.nextName())
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("fuzz: write %s: %w", name, err)
	}
	*budget -= size
	return nil
}
