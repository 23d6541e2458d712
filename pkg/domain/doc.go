/*
Package domain contains the core domain models for the Keyloom engine.

It defines the fundamental entities of the grammar-derivation process: the
parse tree (an index-addressed node arena), the append-only step log, and the
request/result envelopes. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Node / Tree: the derivation tree, rooted at a Start symbol, addressed by
    index to avoid pointer cycles and to make replay a pure function over the
    step log.
  - Step: an immutable record of one rewrite (one random draw). Steps are the
    sole source of randomness consumption; replay never re-draws.
  - GenerationRequest / GenerationResult: the per-request envelopes. All
    entities are created fresh per request and immutable once produced.
  - EntropyResult: the Shannon-entropy score for a generated key.
*/
package domain
