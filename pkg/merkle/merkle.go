// Package merkle commits an ordered transaction batch to a single root
// digest by repeated pairwise hashing of hex digests.
package merkle

import (
	"github.com/pkg/errors"
	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/tx"
)

var (
	ErrNoLeaves = errors.New("no leaves to build merkle root from")
)

// Level is one depth of a tree, leaves first.
type Level struct {
	Level  int      `json:"level" msgpack:"l"`
	Count  int      `json:"count" msgpack:"c"`
	Hashes []string `json:"hashes" msgpack:"h"`
}

// LeafHash is the digest of a record's canonical string.
func LeafHash(r *tx.Record) string {
	return digest.Sum(r.Canonical())
}

// Leaves hashes every record in order.
func Leaves(txs []tx.Record) ([]string, error) {
	if len(txs) == 0 {
		return nil, ErrNoLeaves
	}

	leaves := make([]string, len(txs))
	for i := range txs {
		leaves[i] = LeafHash(&txs[i])
	}

	return leaves, nil
}

// Root returns the merkle root of txs.
func Root(txs []tx.Record) (string, error) {
	leaves, err := Leaves(txs)
	if err != nil {
		return "", err
	}

	level := leaves
	for len(level) > 1 {
		level = parents(level)
	}

	return level[0], nil
}

// RootWithLevels returns the root and every level of the tree. levels[0]
// holds the leaf digests and the last level holds only the root.
func RootWithLevels(txs []tx.Record) (string, [][]string, error) {
	leaves, err := Leaves(txs)
	if err != nil {
		return "", nil, err
	}

	levels := [][]string{leaves}
	current := leaves
	for len(current) > 1 {
		current = parents(current)
		levels = append(levels, current)
	}

	return current[0], levels, nil
}

// Describe converts raw levels to their record form.
func Describe(levels [][]string) []Level {
	out := make([]Level, len(levels))
	for i, l := range levels {
		hashes := make([]string, len(l))
		copy(hashes, l)
		out[i] = Level{Level: i, Count: len(l), Hashes: hashes}
	}

	return out
}

// parents pairs a level left to right, duplicating an odd last node.
func parents(level []string) []string {
	next := make([]string, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		left := level[i]
		right := left
		if i+1 < len(level) {
			right = level[i+1]
		}
		next = append(next, digest.Sum(left+right))
	}

	return next
}
