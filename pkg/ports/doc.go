/*
Package ports defines the driven ports (interfaces) for the Keyloom engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to draw randomness from any provider and the replay
surface to persist step logs in any backend.

# Key Interfaces

  - Source: the randomness capability. Production uses the OS CSPRNG;
    deterministic tests inject a scripted source.
  - StepStore: persists captured derivations (step logs) per session so the
    visualization layer can request snapshots after generation completes.
*/
package ports
