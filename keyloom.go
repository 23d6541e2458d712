package keyloom

import (
	"context"
	"log/slog"

	"github.com/keyloom/keyloom/internal/logging"
	"github.com/keyloom/keyloom/internal/random"
	"github.com/keyloom/keyloom/internal/runtime"
	"github.com/keyloom/keyloom/pkg/alphabet"
	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/keyloom/keyloom/pkg/entropy"
	"github.com/keyloom/keyloom/pkg/ports"
)

// Version is the library version, reported by the CLI and the /info endpoint.
var Version = "0.3.0"

// Generator is the high-level entry point for the Keyloom library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Generator struct {
	runtime  *runtime.Engine
	registry *alphabet.Registry
	source   ports.Source
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithSource injects a custom random source, bypassing the default
// crypto/rand-backed one. Intended for deterministic tests; production code
// should keep the secure default.
func WithSource(src ports.Source) Option {
	return func(g *Generator) {
		g.source = src
	}
}

// WithRegistry sets a custom alphabet registry.
func WithRegistry(reg *alphabet.Registry) Option {
	return func(g *Generator) {
		g.registry = reg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Generator) {
		g.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New initializes a new Generator. Without options it uses the standard
// alphabet registry and the OS cryptographically secure random source.
func New(opts ...Option) *Generator {
	g := &Generator{}

	for _, opt := range opts {
		opt(g)
	}

	if g.registry == nil {
		g.registry = alphabet.Default()
	}
	if g.source == nil {
		g.source = random.NewCryptoSource()
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}

	g.runtime = runtime.NewEngine(
		g.registry,
		g.source,
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithLogger(g.logger),
	)

	return g
}

// Generate performs one complete derivation for the given request.
// Length must be positive; use domain.DefaultLength when the caller did not
// specify one.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	return g.runtime.Generate(ctx, req)
}

// SnapshotAt replays the first k steps of a captured log and returns the
// partial tree. Pure and side-effect free; see runtime.SnapshotAt.
func (g *Generator) SnapshotAt(steps []domain.Step, length, k int) (*domain.Tree, error) {
	return runtime.SnapshotAt(steps, length, k)
}

// Score computes the Shannon entropy of a key against an alphabet size.
func (g *Generator) Score(key string, alphabetSize int) (*domain.EntropyResult, error) {
	return entropy.Score(key, alphabetSize)
}

// Registry returns the alphabet registry in use.
func (g *Generator) Registry() *alphabet.Registry {
	return g.registry
}
