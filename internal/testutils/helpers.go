package testutils

import (
	"fmt"
	"testing"

	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/stretchr/testify/require"
)

// ScriptedSource replays a fixed sequence of draws. It lets engine tests run
// deterministically without touching the OS random source.
type ScriptedSource struct {
	Values []int
	next   int
}

// Intn returns the next scripted value, failing if the script is exhausted
// or the value is out of bounds for the requested range.
func (s *ScriptedSource) Intn(n int) (int, error) {
	if s.next >= len(s.Values) {
		return 0, fmt.Errorf("scripted source exhausted after %d draws", s.next)
	}
	v := s.Values[s.next]
	s.next++
	if v < 0 || v >= n {
		return 0, fmt.Errorf("scripted value %d out of range [0,%d)", v, n)
	}
	return v, nil
}

// Drawn reports how many values have been consumed.
func (s *ScriptedSource) Drawn() int {
	return s.next
}

// FailingSource errors on the first draw. Used to verify atomic failure.
type FailingSource struct{}

func (FailingSource) Intn(int) (int, error) {
	return 0, fmt.Errorf("source unavailable")
}

// RequireValidSteps asserts the structural invariants of a step log: indices
// 0..n-1 with no gaps, positions matching indices, and a constant alphabet
// size.
func RequireValidSteps(t *testing.T, steps []domain.Step, length, alphabetSize int) {
	t.Helper()

	require.Len(t, steps, length)
	for i, s := range steps {
		require.Equal(t, i, s.Index, "step %d index", i)
		require.Equal(t, i, s.Position, "step %d position", i)
		require.Equal(t, alphabetSize, s.AlphabetSize, "step %d alphabet size", i)
		require.Len(t, []rune(s.Char), 1, "step %d char must be a single rune", i)
	}
}
