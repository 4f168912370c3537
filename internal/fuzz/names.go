// Package fuzz generates random filesystem trees and compares extracted
// output against the staged original, driving a differential test of
// an archive writer against an external extractor.
package fuzz

// nameAlphabet holds 84 characters safe to use in a filename on every
// platform the extractor might run on: digits, both letter cases, and
// a curated set of punctuation excluding path separators and the
// characters Windows reserves in file names (/ \ : * ? " < > |).
const nameAlphabet = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"!#$%&'()+,-.;=@[]^_{}~"

const (
	sentinelDot    = "_dot_"
	sentinelDotDot = "_dotdot_"
)

// nameForIndex maps a monotonically increasing index to a name using a
// bijective base-84 encoding: the first 84 indices produce single
// characters, the next 84^2 produce two characters, and so on. This
// guarantees a distinct, deterministic name for every index a single
// generator run can reach, with no separate bookkeeping of names
// already used.
func nameForIndex(index uint64) string {
	const base = uint64(len(nameAlphabet))

	length := 1
	span := base
	for index >= span {
		index -= span
		length++
		span *= base
	}

	buf := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		buf[i] = nameAlphabet[index%base]
		index /= base
	}

	name := string(buf)
	switch name {
	case ".":
		return sentinelDot
	case "..":
		return sentinelDotDot
	default:
		return name
	}
}
