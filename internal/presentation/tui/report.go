// Package tui renders generation reports for terminal output.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/keyloom/keyloom/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// It auto-detects the terminal background for light/dark styling.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Report builds a markdown summary of a generation: the key, the derivation
// tree, and the entropy score.
func Report(result *domain.GenerationResult, score *domain.EntropyResult) string {
	var sb strings.Builder

	sb.WriteString("# Key Generation Report\n\n")
	fmt.Fprintf(&sb, "**Key:** `%s`\n\n", result.Key)
	fmt.Fprintf(&sb, "**Alphabet size:** %d, **Steps:** %d\n\n", result.AlphabetSize, len(result.Steps))

	sb.WriteString("## Derivation Tree\n\n```\n")
	sb.WriteString(TreeASCII(result.Tree))
	sb.WriteString("```\n\n")

	sb.WriteString("## Entropy\n\n")
	fmt.Fprintf(&sb, "| Entropy | Ceiling | Ratio | Tier |\n|---|---|---|---|\n| %.4f bits | %.4f bits | %.2f | %s |\n",
		score.Bits, score.MaxBits, score.Ratio, score.Tier)

	return sb.String()
}

// TreeASCII draws the derivation tree with box-drawing connectors, one
// Terminal per line.
func TreeASCII(tree *domain.Tree) string {
	var sb strings.Builder
	sb.WriteString("Start\n")

	positions := tree.Positions()
	for i, idx := range positions {
		connector := "├─"
		if i == len(positions)-1 {
			connector = "└─"
		}

		node := tree.Nodes[idx]
		if len(node.Children) == 0 {
			fmt.Fprintf(&sb, "%s Terminal[%d] (unresolved)\n", connector, i)
			continue
		}
		leaf := tree.Nodes[node.Children[0]]
		fmt.Fprintf(&sb, "%s Terminal[%d] ── %q\n", connector, i, leaf.Value)
	}
	return sb.String()
}
