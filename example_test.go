package keyloom_test

import (
	"context"
	"fmt"
	"log"

	"github.com/keyloom/keyloom"
	"github.com/keyloom/keyloom/internal/testutils"
	"github.com/keyloom/keyloom/pkg/domain"
)

// ExampleNew demonstrates a complete generation with a scripted source.
// Production code omits WithSource and draws from crypto/rand instead.
func ExampleNew() {
	// 1. Script the draws so the output is reproducible.
	src := &testutils.ScriptedSource{Values: []int{7, 0, 9, 3}}

	gen := keyloom.New(keyloom.WithSource(src))

	// 2. Derive a four digit key.
	result, err := gen.Generate(context.Background(), domain.GenerationRequest{
		Modes:  []string{"numeric"},
		Length: 4,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("key:", result.Key)
	fmt.Println("steps:", len(result.Steps))

	// 3. Score it.
	score, err := gen.Score(result.Key, result.AlphabetSize)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("tier:", score.Tier)

	// Output:
	// key: 7093
	// steps: 4
	// tier: moderate
}

// ExampleGenerator_SnapshotAt shows how a recorded step log replays into a
// partial tree without touching the random source again.
func ExampleGenerator_SnapshotAt() {
	src := &testutils.ScriptedSource{Values: []int{3, 1, 4}}
	gen := keyloom.New(keyloom.WithSource(src))

	result, err := gen.Generate(context.Background(), domain.GenerationRequest{
		Modes:  []string{"numeric"},
		Length: 3,
	})
	if err != nil {
		log.Fatal(err)
	}

	// Replay only the first two draws.
	tree, err := gen.SnapshotAt(result.Steps, 3, 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("yield:", tree.Yield())
	fmt.Println("resolved:", tree.Resolved())

	// Output:
	// yield: 31
	// resolved: 2
}
