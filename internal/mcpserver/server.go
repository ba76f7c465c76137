// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the support directory via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/directory"
	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/paging"
	"github.com/starford/supportdir/internal/parser"
	"github.com/starford/supportdir/internal/session"
)

const (
	formatURI    = "supportdir://dataset-format"
	excerptLimit = 200
)

// Server wraps the MCP server with directory tools.
type Server struct {
	mcp *server.MCPServer
	svc *directory.Service
}

// New creates a new MCP server with all directory tools registered.
func New(svc *directory.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Support Directory",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_filter_options",
		mcp.WithDescription("List every filter dimension with the values that can be selected for it."),
	), s.listFilterOptions)

	filterOpts := []mcp.ToolOption{
		mcp.WithDescription("Filter bereavement support services. Values within a dimension are OR-ed, " +
			"dimensions are AND-ed. Use list_filter_options to discover valid values."),
	}
	for _, d := range models.Dimensions {
		filterOpts = append(filterOpts, mcp.WithArray(string(d),
			mcp.Description(d.Label()),
			mcp.WithStringItems(),
		))
	}
	filterOpts = append(filterOpts,
		mcp.WithNumber("page", mcp.Description("Page number in paged mode (default 1)")),
		mcp.WithNumber("shown", mcp.Description("Number of records to reveal in incremental mode")),
	)
	s.mcp.AddTool(mcp.NewTool("filter_services", filterOpts...), s.filterServices)

	s.mcp.AddTool(mcp.NewTool("get_service",
		mcp.WithDescription("Read one service record with its full description as plain text."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Record id as returned by filter_services")),
	), s.getService)

	s.mcp.AddTool(mcp.NewTool("dataset_status",
		mcp.WithDescription("Report whether the directory dataset is loaded, with record count and checksum."),
	), s.datasetStatus)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Dataset Format",
			mcp.WithResourceDescription("Accepted dataset shapes and tag prefixes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDatasetFormat,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

type serviceSummary struct {
	ID         int                           `json:"id"`
	Title      string                        `json:"title"`
	Excerpt    string                        `json:"excerpt"`
	Featured   bool                          `json:"featured,omitempty"`
	Dimensions map[models.Dimension][]string `json:"dimensions,omitempty"`
}

type filterResult struct {
	Total    int              `json:"total"`
	State    session.State    `json:"state"`
	Pages    *paging.Pages    `json:"pages,omitempty"`
	Progress *paging.Progress `json:"progress,omitempty"`
	Services []serviceSummary `json:"services"`
	Message  string           `json:"message,omitempty"`
}

func (s *Server) listFilterOptions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := s.svc.Options(ctx)
	if err != nil {
		return toolError(err), nil
	}
	out := make(map[string][]string, len(opts))
	for _, d := range models.Dimensions {
		out[string(d)] = opts[d]
	}
	return jsonResult(out)
}

func (s *Server) filterServices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel := filter.Selection{}
	for _, d := range models.Dimensions {
		if vs := req.GetStringSlice(string(d), nil); len(vs) > 0 {
			sel[d] = vs
		}
	}
	st := session.State{
		Selection: sel,
		Page:      req.GetInt("page", 0),
		Shown:     req.GetInt("shown", 0),
	}
	st, view, err := s.svc.Query(ctx, st)
	if err != nil {
		return toolError(err), nil
	}

	res := filterResult{
		Total:    view.Total,
		State:    st,
		Pages:    view.Pages,
		Progress: view.Progress,
		Services: make([]serviceSummary, 0, len(view.Items)),
	}
	if view.Empty {
		res.Message = "No results found"
	}
	for _, r := range view.Items {
		res.Services = append(res.Services, summarize(r))
	}
	return jsonResult(res)
}

func (s *Server) getService(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Record(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	text := parser.NoDescription
	if rec.HasContent() {
		text = parser.PlainText(rec.Content)
	}
	return jsonResult(map[string]any{
		"id":         rec.ID,
		"title":      rec.Title,
		"featured":   rec.Featured,
		"dimensions": rec.Dimensions,
		"content":    text,
	})
}

func (s *Server) datasetStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Status(ctx))
}

func (s *Server) readDatasetFormat(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     DatasetFormat,
		},
	}, nil
}

func summarize(r models.ServiceRecord) serviceSummary {
	excerpt := parser.NoDescription
	if r.HasContent() {
		excerpt = parser.Excerpt(r.Content, excerptLimit)
	}
	return serviceSummary{
		ID:         r.ID,
		Title:      r.Title,
		Excerpt:    excerpt,
		Featured:   r.Featured,
		Dimensions: r.Dimensions,
	}
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrUnavailable) {
		return mcp.NewToolResultError(apperr.UnavailableMessage)
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
