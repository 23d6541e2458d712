package runtime

import (
	"fmt"

	"github.com/keyloom/keyloom/pkg/domain"
)

// SnapshotAt rebuilds the partial derivation tree after applying the first k
// steps of a captured log. Positions at or beyond k remain unresolved
// Terminal nonterminals.
//
// It is a pure function of (steps, length, k): no engine state, no random
// source, side-effect free. Any k in [0, min(length, len(steps))] is valid,
// so "jump to step", "reset", and "play from here" are all the same call.
// SnapshotAt(steps, length, len(steps)) reproduces the tree returned by
// Generate for the same log.
func SnapshotAt(steps []domain.Step, length, k int) (*domain.Tree, error) {
	if length <= 0 {
		return nil, domain.ErrInvalidLength
	}
	if k < 0 || k > length || k > len(steps) {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", domain.ErrStepOutOfRange, k, min(length, len(steps)))
	}

	tree := skeleton(length)
	for _, step := range steps[:k] {
		if step.Position < 0 || step.Position >= length {
			return nil, fmt.Errorf("%w: step %d rewrites position %d of %d", domain.ErrStepOutOfRange, step.Index, step.Position, length)
		}
		termIdx := tree.Positions()[step.Position]
		leafIdx := len(tree.Nodes)
		tree.Nodes = append(tree.Nodes, domain.Node{Kind: domain.NodeChar, Value: step.Char, Depth: 2})
		tree.Nodes[termIdx].Children = []int{leafIdx}
	}
	return tree, nil
}
