package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/keyloom/keyloom/pkg/alphabet"
	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/keyloom/keyloom/pkg/ports"
)

// Engine is the core derivation runner. It performs the randomized grammar
// rewrite Start -> Terminal{length}, Terminal -> c, recording every draw as
// a replayable step.
type Engine struct {
	registry *alphabet.Registry
	source   ports.Source
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine with dependencies. The registry and source
// are required collaborators: the registry resolves mode names into the
// combined alphabet, the source supplies every random draw.
func NewEngine(registry *alphabet.Registry, source ports.Source, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		source:   source,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate performs one complete derivation.
//
// Validation happens before any draw, so construction is atomic: on invalid
// length or mode set no partial tree or step log is ever returned. Given the
// produced step log, the result is fully reproducible through SnapshotAt
// without re-invoking the source.
func (e *Engine) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req.Length <= 0 {
		return nil, domain.ErrInvalidLength
	}

	combined, err := e.registry.Resolve(req.Modes)
	if err != nil {
		return nil, err
	}
	size := len(combined)

	tree := skeleton(req.Length)
	steps := make([]domain.Step, 0, req.Length)
	var key strings.Builder

	for pos := 0; pos < req.Length; pos++ {
		idx, err := e.source.Intn(size)
		if err != nil {
			return nil, fmt.Errorf("draw position %d: %w", pos, err)
		}
		char := string(combined[idx])

		termIdx := tree.Positions()[pos]
		leafIdx := len(tree.Nodes)
		tree.Nodes = append(tree.Nodes, domain.Node{Kind: domain.NodeChar, Value: char, Depth: 2})
		tree.Nodes[termIdx].Children = []int{leafIdx}

		step := domain.Step{Index: pos, Position: pos, AlphabetSize: size, Char: char}
		steps = append(steps, step)
		key.WriteString(char)

		if e.hooks.OnDraw != nil {
			e.hooks.OnDraw(ctx, &domain.DrawEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDraw},
				Step:      step,
				Remaining: req.Length - pos - 1,
			})
		}
	}

	e.logger.Debug("derivation complete", "length", req.Length, "alphabet_size", size)

	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(ctx, &domain.CompleteEvent{
			EventBase:    domain.EventBase{Timestamp: time.Now(), Type: domain.EventComplete},
			Length:       req.Length,
			AlphabetSize: size,
		})
	}

	return &domain.GenerationResult{
		Key:          key.String(),
		Tree:         tree,
		Steps:        steps,
		AlphabetSize: size,
	}, nil
}

// skeleton builds the fixed grammar shape: a Start root with length ordered
// Terminal children, none rewritten yet.
func skeleton(length int) *domain.Tree {
	tree := &domain.Tree{Root: 0, Nodes: make([]domain.Node, 0, 1+2*length)}
	root := domain.Node{Kind: domain.NodeStart, Depth: 0, Children: make([]int, 0, length)}
	tree.Nodes = append(tree.Nodes, root)

	for i := 0; i < length; i++ {
		tree.Nodes = append(tree.Nodes, domain.Node{Kind: domain.NodeTerminal, Depth: 1})
		tree.Nodes[0].Children = append(tree.Nodes[0].Children, i+1)
	}
	return tree
}
