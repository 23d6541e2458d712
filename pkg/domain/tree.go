package domain

import "strings"

// NodeKind identifies the grammatical role of a tree node.
const (
	// NodeStart is the root nonterminal of every derivation.
	NodeStart = "start"
	// NodeTerminal is the per-position nonterminal. Until it is rewritten it
	// has no children; after its rewrite it holds exactly one char child.
	NodeTerminal = "terminal"
	// NodeChar is a terminal leaf carrying the drawn character.
	NodeChar = "char"
)

// Node is a single node in the derivation tree.
// Children are arena indices, not pointers, so a Tree can be copied,
// serialized, and rebuilt from a step log without ownership cycles.
type Node struct {
	Kind     string `json:"kind"`
	Value    string `json:"value,omitempty"` // single character, NodeChar only
	Children []int  `json:"children,omitempty"`
	Depth    int    `json:"depth"`
}

// Nonterminal reports whether the node must still be rewritten for the
// derivation to complete. Char leaves are final.
func (n Node) Nonterminal() bool {
	return n.Kind != NodeChar
}

// Tree is the derivation tree as a node arena. Nodes[Root] is always the
// Start nonterminal. The tree is immutable once returned by the engine.
type Tree struct {
	Nodes []Node `json:"nodes"`
	Root  int    `json:"root"`
}

// Positions returns the arena indices of the Terminal nonterminals in
// left-to-right order (the direct children of the root).
func (t *Tree) Positions() []int {
	return t.Nodes[t.Root].Children
}

// Yield concatenates the terminal leaves left to right. For a completed
// derivation this is exactly the generated key; for a partial snapshot it is
// the prefix resolved so far.
func (t *Tree) Yield() string {
	var sb strings.Builder
	for _, pos := range t.Positions() {
		term := t.Nodes[pos]
		for _, child := range term.Children {
			sb.WriteString(t.Nodes[child].Value)
		}
	}
	return sb.String()
}

// Resolved counts how many positions have been rewritten into a character.
func (t *Tree) Resolved() int {
	n := 0
	for _, pos := range t.Positions() {
		if len(t.Nodes[pos].Children) > 0 {
			n++
		}
	}
	return n
}

// Equal reports structural equality: same shape, kinds, and terminal values.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Root != other.Root || len(t.Nodes) != len(other.Nodes) {
		return false
	}
	for i, n := range t.Nodes {
		o := other.Nodes[i]
		if n.Kind != o.Kind || n.Value != o.Value || n.Depth != o.Depth {
			return false
		}
		if len(n.Children) != len(o.Children) {
			return false
		}
		for j, c := range n.Children {
			if c != o.Children[j] {
				return false
			}
		}
	}
	return true
}
