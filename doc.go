/*
Package keyloom generates short random key strings through a grammar
derivation process and exposes every derivation step so callers can replay
and visualize how a key was built.

The grammar shape is fixed: a Start symbol expands into a fixed number of
Terminal symbols, and each Terminal rewrites into one character drawn
uniformly at random from a combined alphabet. Keyloom is deliberately not a
general-purpose grammar engine; the value is in the recorded, replayable
derivation and the entropy scoring around it.

# Concept

Every generation produces three coupled artifacts: the key string, a parse
tree whose terminal leaves spell the key, and an append-only step log. The
log is the sole consumer of randomness, which makes replay purely
deterministic: any prefix of the log reconstructs the exact partial tree at
that point, with no access to the random source.

# Key Features

  - Cryptographically secure draws: the default source reads the OS CSPRNG;
    randomness is an injected capability, so tests substitute a scripted one.
  - Pure replay: SnapshotAt(steps, length, k) supports jump-to-step, reset,
    and play-from-here as the same side-effect-free call.
  - Entropy scoring: frequency-based Shannon entropy against the combined
    alphabet's theoretical ceiling, bucketed into quality tiers.
  - Hexagonal architecture: the engine core is decoupled from adapters
    (HTTP, MCP, Redis step store, CLI).

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/keyloom/keyloom"
		"github.com/keyloom/keyloom/pkg/alphabet"
		"github.com/keyloom/keyloom/pkg/domain"
	)

	func main() {
		gen := keyloom.New()

		result, err := gen.Generate(context.Background(), domain.GenerationRequest{
			Modes:  []string{alphabet.ModeAlphanumeric, alphabet.ModeSymbolic},
			Length: domain.DefaultLength,
		})
		if err != nil {
			log.Fatal(err)
		}

		score, _ := gen.Score(result.Key, result.AlphabetSize)
		fmt.Println(result.Key, score.Tier)
	}
*/
package keyloom
