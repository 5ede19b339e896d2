// Command mcp-server exposes the Sleeper lookup functions as MCP tools
// over streamable HTTP, so MCP-capable hosts can call the same
// operations the gateway routes to.
//
// Configuration via environment variables:
//
//	COUCHGM_MCP_PORT         - listen port (default: 8001)
//	COUCHGM_SLEEPER_BASE_URL - Sleeper API base URL (default: public API)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/debug"
	"github.com/couchgm/couchgm/pkg/registry"
	"github.com/couchgm/couchgm/pkg/sleeper"
)

func main() {
	if err := run(); err != nil {
		slog.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	debug.Init()
	logger := slog.Default()

	port := os.Getenv("COUCHGM_MCP_PORT")
	if port == "" {
		port = "8001"
	}

	client := sleeper.New(sleeper.Config{
		BaseURL: os.Getenv("COUCHGM_SLEEPER_BASE_URL"),
	}, logger)

	server := mcp.NewServer(
		&mcp.Implementation{Name: "couchgm-sleeper", Version: "v1.0.0"},
		nil,
	)
	reg := registry.Default()
	registerTools(server, client, reg)

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, nil)

	httpMux := http.NewServeMux()
	httpMux.Handle("/mcp", handler)
	httpMux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	logger.Info("mcp server starting", "port", port, "tools", reg.Len())
	return http.ListenAndServe(":"+port, httpMux)
}

// registerTools adds one MCP tool per registered function. Tool inputs
// arrive as loosely typed maps; values are stringified before invocation
// because Sleeper parameters are all path segments.
func registerTools(server *mcp.Server, client *sleeper.Client, reg *registry.Registry) {
	for _, spec := range reg.Specs() {
		mcp.AddTool(server, &mcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
		}, func(ctx context.Context, _ *mcp.CallToolRequest, input map[string]any) (*mcp.CallToolResult, struct{}, error) {
			params := make(map[string]string, len(input))
			for k, v := range input {
				params[k] = fmt.Sprint(v)
			}

			result := client.Invoke(ctx, api.FunctionCall{Name: spec.Name, Parameters: params})
			if !result.OK() {
				return &mcp.CallToolResult{
					IsError: true,
					Content: []mcp.Content{&mcp.TextContent{Text: result.Error}},
				}, struct{}{}, nil
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: string(result.Data)}},
			}, struct{}{}, nil
		})
	}
}
