// Package mcp exposes the Keyloom engine as a Model Context Protocol server,
// so agent tooling can generate keys, score entropy, and inspect derivation
// trees as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/keyloom/keyloom"
	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// GenerateResponse aligns with the HTTP adapter's schema so both transports
// present the same structure.
type GenerateResponse struct {
	Key          string        `json:"key" jsonschema_description:"The generated key string"`
	Tree         *domain.Tree  `json:"tree" jsonschema_description:"The derivation parse tree"`
	Steps        []domain.Step `json:"steps" jsonschema_description:"The ordered rewrite step log"`
	AlphabetSize int           `json:"alphabet_size" jsonschema_description:"Size of the combined alphabet"`
}

// SnapshotResponse is the partial tree after k replayed steps.
type SnapshotResponse struct {
	Tree     *domain.Tree `json:"tree" jsonschema_description:"The partial derivation tree"`
	Resolved int          `json:"resolved" jsonschema_description:"How many positions are rewritten"`
	Yield    string       `json:"yield" jsonschema_description:"The key prefix resolved so far"`
}

// Server wraps the Keyloom Generator and exposes it as an MCP Server.
type Server struct {
	gen       *keyloom.Generator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(gen *keyloom.Generator) *Server {
	s := &Server{
		gen:       gen,
		mcpServer: server.NewMCPServer("keyloom-mcp", strings.TrimSpace(keyloom.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: generate_key
	generateTool := mcp.NewTool("generate_key",
		mcp.WithDescription("Generate a random key string via grammar derivation. Returns the key, its parse tree, and the replayable step log."),
		mcp.WithString("modes", mcp.Required(), mcp.Description("Comma-separated alphabet modes: numeric, alphabetic, alphanumeric, symbolic")),
		mcp.WithNumber("length", mcp.Description("Key length (default 16)")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: score_entropy
	entropyTool := mcp.NewTool("score_entropy",
		mcp.WithDescription("Compute the Shannon entropy of a key string against an alphabet size."),
		mcp.WithString("key", mcp.Required(), mcp.Description("The key string to score")),
		mcp.WithNumber("alphabet_size", mcp.Required(), mcp.Description("Size of the alphabet the key was drawn from")),
		mcp.WithOutputSchema[domain.EntropyResult](),
	)
	s.mcpServer.AddTool(entropyTool, mcp.NewStructuredToolHandler(s.handleScore))

	// TOOL: snapshot_tree
	snapshotTool := mcp.NewTool("snapshot_tree",
		mcp.WithDescription("Replay the first k steps of a captured derivation log and return the partial tree."),
		mcp.WithString("steps", mcp.Required(), mcp.Description("JSON array of derivation steps")),
		mcp.WithNumber("length", mcp.Required(), mcp.Description("Total key length of the derivation")),
		mcp.WithNumber("k", mcp.Required(), mcp.Description("How many steps to apply")),
		mcp.WithOutputSchema[SnapshotResponse](),
	)
	s.mcpServer.AddTool(snapshotTool, mcp.NewStructuredToolHandler(s.handleSnapshot))

	// TOOL: list_modes
	s.mcpServer.AddTool(mcp.NewTool("list_modes",
		mcp.WithDescription("List the recognized alphabet mode names."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.gen.Registry().Modes())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// decodeArgs maps the raw argument map onto a typed struct, tolerating the
// loose number/string typing MCP clients produce.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

// Handler methods for structured tools

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (GenerateResponse, error) {
	var in struct {
		Modes  string `mapstructure:"modes"`
		Length int    `mapstructure:"length"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return GenerateResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var modes []string
	for _, m := range strings.Split(in.Modes, ",") {
		if m = strings.TrimSpace(m); m != "" {
			modes = append(modes, m)
		}
	}

	length := in.Length
	if _, supplied := args["length"]; !supplied {
		length = domain.DefaultLength
	}

	result, err := s.gen.Generate(ctx, domain.GenerationRequest{Modes: modes, Length: length})
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("generate failed: %w", err)
	}

	return GenerateResponse{
		Key:          result.Key,
		Tree:         result.Tree,
		Steps:        result.Steps,
		AlphabetSize: result.AlphabetSize,
	}, nil
}

func (s *Server) handleScore(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.EntropyResult, error) {
	var in struct {
		Key          string `mapstructure:"key"`
		AlphabetSize int    `mapstructure:"alphabet_size"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return domain.EntropyResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	result, err := s.gen.Score(in.Key, in.AlphabetSize)
	if err != nil {
		return domain.EntropyResult{}, fmt.Errorf("score failed: %w", err)
	}
	return *result, nil
}

func (s *Server) handleSnapshot(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SnapshotResponse, error) {
	var in struct {
		Steps  string `mapstructure:"steps"`
		Length int    `mapstructure:"length"`
		K      int    `mapstructure:"k"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return SnapshotResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var steps []domain.Step
	if err := json.Unmarshal([]byte(in.Steps), &steps); err != nil {
		return SnapshotResponse{}, fmt.Errorf("invalid steps payload: %w", err)
	}

	tree, err := s.gen.SnapshotAt(steps, in.Length, in.K)
	if err != nil {
		return SnapshotResponse{}, fmt.Errorf("snapshot failed: %w", err)
	}

	return SnapshotResponse{
		Tree:     tree,
		Resolved: tree.Resolved(),
		Yield:    tree.Yield(),
	}, nil
}
