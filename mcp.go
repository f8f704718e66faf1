// CLAUDE:SUMMARY MCP tool registration: ingest, get, list summaries, delete, recent, search, logs, stats.
package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers all digest tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerIngest(srv)
	s.registerGetURL(srv)
	s.registerListSummaries(srv)
	s.registerDeleteURL(srv)
	s.registerRecent(srv)
	s.registerSearch(srv)
	s.registerFetchHistory(srv)
	s.registerSearchHistory(srv)
	s.registerStats(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// registerTool adapts a decode/endpoint pair to the MCP handler shape.
// Tool errors go into the result payload, not the protocol error.
func registerTool[Req any](srv *mcp.Server, tool *mcp.Tool, endpoint func(context.Context, *Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var p Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}
		resp, err := endpoint(ctx, &p)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func (s *Service) registerIngest(srv *mcp.Server) {
	type req struct {
		URL    string `json:"url"`
		Format string `json:"format"`
		Model  string `json:"model"`
	}
	tool := &mcp.Tool{
		Name:        "digest_ingest",
		Description: "Submit a URL: extract metadata, generate an LLM summary, and store both",
		InputSchema: inputSchema(map[string]any{
			"url":    map[string]any{"type": "string", "description": "URL to ingest"},
			"format": map[string]any{"type": "string", "description": "Summary format: bullet, paragraph, or detailed"},
			"model":  map[string]any{"type": "string", "description": "Model override; defaults to the configured model"},
		}, []string{"url"}),
	}
	registerTool(srv, tool, func(ctx context.Context, p *req) (any, error) {
		return s.Ingest(ctx, IngestRequest{URL: p.URL, Format: p.Format, Model: p.Model})
	})
}

func (s *Service) registerGetURL(srv *mcp.Server) {
	type req struct {
		ID int64 `json:"id"`
	}
	tool := &mcp.Tool{
		Name:        "digest_get_url",
		Description: "Get one ingested URL with its metadata",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "integer", "description": "URL id"},
		}, []string{"id"}),
	}
	registerTool(srv, tool, func(ctx context.Context, p *req) (any, error) {
		return s.GetURL(ctx, p.ID)
	})
}

func (s *Service) registerListSummaries(srv *mcp.Server) {
	type req struct {
		ID    int64 `json:"id"`
		Limit int   `json:"limit"`
	}
	tool := &mcp.Tool{
		Name:        "digest_list_summaries",
		Description: "List a URL's summaries, newest first",
		InputSchema: inputSchema(map[string]any{
			"id":    map[string]any{"type": "integer", "description": "URL id"},
			"limit": map[string]any{"type": "integer", "description": "Max summaries to return"},
		}, []string{"id"}),
	}
	registerTool(srv, tool, func(ctx context.Context, p *req) (any, error) {
		return s.ListSummaries(ctx, p.ID, p.Limit)
	})
}

func (s *Service) registerDeleteURL(srv *mcp.Server) {
	type req struct {
		ID int64 `json:"id"`
	}
	tool := &mcp.Tool{
		Name:        "digest_delete_url",
		Description: "Delete a URL and all its summaries",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "integer", "description": "URL id"},
		}, []string{"id"}),
	}
	registerTool(srv, tool, func(ctx context.Context, p *req) (any, error) {
		if err := s.DeleteURL(ctx, p.ID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": p.ID}, nil
	})
}

func (s *Service) registerRecent(srv *mcp.Server) {
	type req struct {
		Limit int `json:"limit"`
	}
	tool := &mcp.Tool{
		Name:        "digest_recent",
		Description: "List recently ingested URLs with summary counts",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max URLs to return"},
		}, nil),
	}
	registerTool(srv, tool, func(ctx context.Context, p *req) (any, error) {
		return s.RecentURLs(ctx, p.Limit)
	})
}

func (s *Service) registerSearch(srv *mcp.Server) {
	type req struct {
		Query string `json:"query"`
		Scope string `json:"scope"`
		Limit int    `json:"limit"`
	}
	tool := &mcp.Tool{
		Name:        "digest_search",
		Description: "Full-text search over stored URLs and summaries",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search query; double quotes for exact phrases"},
			"scope": map[string]any{"type": "string", "description": "urls, summaries, or all (default all)"},
			"limit": map[string]any{"type": "integer", "description": "Max results per scope"},
		}, []string{"query"}),
	}
	registerTool(srv, tool, func(ctx context.Context, p *req) (any, error) {
		return s.Search(ctx, p.Query, SearchScope(p.Scope), p.Limit)
	})
}

func (s *Service) registerFetchHistory(srv *mcp.Server) {
	type req struct {
		URL   string `json:"url"`
		Limit int    `json:"limit"`
	}
	tool := &mcp.Tool{
		Name:        "digest_fetch_history",
		Description: "List metadata fetch attempts for a URL, newest first",
		InputSchema: inputSchema(map[string]any{
			"url":   map[string]any{"type": "string", "description": "URL whose fetch log to list"},
			"limit": map[string]any{"type": "integer", "description": "Max entries to return"},
		}, []string{"url"}),
	}
	registerTool(srv, tool, func(ctx context.Context, p *req) (any, error) {
		return s.FetchHistory(ctx, p.URL, p.Limit)
	})
}

func (s *Service) registerSearchHistory(srv *mcp.Server) {
	type req struct {
		Limit int `json:"limit"`
	}
	tool := &mcp.Tool{
		Name:        "digest_search_history",
		Description: "List executed searches with their result counts, newest first",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max entries to return"},
		}, nil),
	}
	registerTool(srv, tool, func(ctx context.Context, p *req) (any, error) {
		return s.SearchHistory(ctx, p.Limit)
	})
}

func (s *Service) registerStats(srv *mcp.Server) {
	type req struct{}
	tool := &mcp.Tool{
		Name:        "digest_stats",
		Description: "Aggregate counters: urls, summaries, fetch log, searches",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	registerTool(srv, tool, func(ctx context.Context, _ *req) (any, error) {
		return s.GetStats(ctx)
	})
}
