// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes catalog tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/satservice"
	"github.com/starford/satcat/internal/storage"
	"github.com/starford/satcat/internal/timecodec"
)

const feedFormatURI = "satcat://feed-format"

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *satservice.Service
	inbox  storage.Provider
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new MCP server with all catalog tools registered. inbox
// receives a copy of every imported payload; it may be nil.
func New(svc *satservice.Service, inbox storage.Provider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, inbox: inbox, logger: logger, now: time.Now}

	s.mcp = server.NewMCPServer(
		"SatCat",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_position",
		mcp.WithDescription("Compute the sub-satellite point, elevation and orbital velocity of a catalogued object at a date."),
		mcp.WithString("norad", mcp.Required(), mcp.Description("NORAD catalog number (e.g. 25544)")),
		mcp.WithString("time", mcp.Description("UTC date as YYYYMMDDHHMMSS (default now)")),
	), s.getPosition)

	s.mcp.AddTool(mcp.NewTool("get_tle",
		mcp.WithDescription("Return the element set valid for an object at a date: the latest one ingested at or before it."),
		mcp.WithString("norad", mcp.Required(), mcp.Description("NORAD catalog number")),
		mcp.WithString("time", mcp.Description("UTC date as YYYYMMDDHHMMSS (default now)")),
	), s.getTle)

	s.mcp.AddTool(mcp.NewTool("get_catalog_entry",
		mcp.WithDescription("Return the SATCAT entry of an object."),
		mcp.WithString("norad", mcp.Required(), mcp.Description("NORAD catalog number")),
	), s.getCatalogEntry)

	s.mcp.AddTool(mcp.NewTool("search_catalog",
		mcp.WithDescription("Search catalog entries by prefix of designator, catalog number or name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Prefix to match")),
		mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default 20)")),
	), s.searchCatalog)

	s.mcp.AddTool(mcp.NewTool("list_reference_codes",
		mcp.WithDescription("List the codes of a reference table."),
		mcp.WithString("table", mcp.Required(),
			mcp.Enum(models.ReferenceTables...),
			mcp.Description("Reference table name")),
	), s.listReferenceCodes)

	s.mcp.AddTool(mcp.NewTool("get_feed_format",
		mcp.WithDescription("Returns the SATCAT and TLE feed formats. "+
			"Call this before preparing a payload for import_feed."),
	), s.getFeedFormat)

	s.mcp.AddTool(mcp.NewTool("import_feed",
		mcp.WithDescription("Ingest a SATCAT or TLE feed downloaded from an http(s) URL, "+
			"passed as a base64 data URI, or passed inline as content. Returns the ingestion counts."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(models.FeedSatcat, models.FeedTLE), mcp.Description("Feed kind")),
		mcp.WithString("url", mcp.Description("http(s) URL or data:text/plain;base64,... URI")),
		mcp.WithString("content", mcp.Description("Inline feed text, used when url is empty")),
	), s.importFeed)

	// Resource: feed format contract.
	s.mcp.AddResource(
		mcp.NewResource(feedFormatURI, "Feed Format Contract",
			mcp.WithResourceDescription("Column layout of SATCAT lines and structure of TLE groups."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFeedFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) requestTime(req mcp.CallToolRequest) (time.Time, error) {
	raw := req.GetString("time", "")
	if raw == "" {
		return s.now().UTC(), nil
	}
	return timecodec.ParseCompact(raw)
}

func (s *Server) getPosition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	norad, err := req.RequireString("norad")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	at, err := s.requestTime(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.GetPositionAt(ctx, norad, at)
	if err != nil {
		return s.toolError("get_position", err), nil
	}
	return jsonResult(d)
}

func (s *Server) getTle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	norad, err := req.RequireString("norad")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	at, err := s.requestTime(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tle, err := s.svc.TleAt(ctx, norad, at)
	if err != nil {
		return s.toolError("get_tle", err), nil
	}
	return jsonResult(tle)
}

func (s *Server) getCatalogEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	norad, err := req.RequireString("norad")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry, err := s.svc.GetCatalogEntry(ctx, norad)
	if err != nil {
		return s.toolError("get_catalog_entry", err), nil
	}
	return jsonResult(entry)
}

func (s *Server) searchCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 20)
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	items, _, err := s.svc.ListCatalog(ctx, models.CatalogFilter{Query: query, Limit: limit})
	if err != nil {
		return s.toolError("search_catalog", err), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no catalog entries found"), nil
	}
	return jsonResult(items)
}

func (s *Server) listReferenceCodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := req.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	codes, err := s.svc.ListReferenceCodes(ctx, table)
	if err != nil {
		return s.toolError("list_reference_codes", err), nil
	}
	return jsonResult(codes)
}

func (s *Server) getFeedFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FeedFormatContract), nil
}

func (s *Server) readFeedFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      feedFormatURI,
			MIMEType: "text/markdown",
			Text:     FeedFormatContract,
		},
	}, nil
}

// toolError turns a service error into tool error text. Unexpected errors are
// logged and hidden behind a generic message.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrFormat),
		errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrPropagation):
		return mcp.NewToolResultError(err.Error())
	}
	s.logger.Error("mcp tool failed", slog.String("tool", tool), slog.String("error", err.Error()))
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: internal error", tool))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
