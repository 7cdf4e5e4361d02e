package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dhamidi/hsdoc/format"
	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

func listModulesTool() mcp.Tool {
	return mcp.NewTool("list_modules",
		mcp.WithDescription("List the documented modules of the workspace"),
	)
}

func describeModuleTool() mcp.Tool {
	return mcp.NewTool("describe_module",
		mcp.WithDescription("Render a module and all of its items as Markdown"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Dotted module name, e.g. hs.timer")),
	)
}

func lookupItemTool() mcp.Tool {
	return mcp.NewTool("lookup_item",
		mcp.WithDescription("Render the documentation of a single item as Markdown"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Qualified item name, e.g. hs.timer.new or hs.timer:start")),
	)
}

func listProblemsTool() mcp.Tool {
	return mcp.NewTool("list_problems",
		mcp.WithDescription("List documentation problems, optionally for one file"),
		mcp.WithString("file", mcp.Description("Only report problems in this file")),
	)
}

func checkSourceTool() mcp.Tool {
	return mcp.NewTool("check_source",
		mcp.WithDescription("Parse source text and report its documentation blocks"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source file contents")),
		mcp.WithString("file", mcp.Description("Name reported for the source")),
		mcp.WithBoolean("strict", mcp.Description("Report unrecognised blocks as parse errors")),
	)
}

type moduleSummary struct {
	Name     string `json:"name"`
	Declared bool   `json:"declared"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Items    int    `json:"items"`
}

type problemSummary struct {
	Kind    string `json:"kind"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	EndLine int    `json:"endLine"`
	Message string `json:"message"`
}

func (s *Server) handleListModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modules := s.workspace.Registry().Modules()
	out := make([]moduleSummary, 0, len(modules))
	for _, m := range modules {
		out = append(out, moduleSummary{
			Name:     m.Name,
			Declared: m.Declared(),
			File:     m.File,
			Line:     m.Line,
			Items:    len(m.Items),
		})
	}
	return jsonResult(out)
}

func (s *Server) handleDescribeModule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, ok := s.workspace.Registry().Lookup(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("module %s not found", name)), nil
	}
	return mcp.NewToolResultText(format.ModuleMarkdown(m)), nil
}

func (s *Server) handleLookupItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, ok := s.workspace.Registry().Item(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("item %s not found", name)), nil
	}
	text := format.Markdown(e.Item) + fmt.Sprintf("\nDefined at %s:%d\n", e.File, e.Line)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleListProblems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("file", "")
	var problems []registry.Problem
	if file != "" {
		problems = s.workspace.Diagnostics(file)
	} else {
		problems = s.workspace.Registry().Problems()
	}
	out := make([]problemSummary, 0, len(problems))
	for _, p := range problems {
		out = append(out, problemSummary{
			Kind:    p.Kind.String(),
			File:    p.File,
			Line:    p.Line,
			EndLine: p.EndLine,
			Message: p.Message,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleCheckSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	file := request.GetString("file", "<source>")

	var opts []hsdoc.Option
	if request.GetBool("strict", s.workspace.Config().Strict) {
		opts = append(opts, hsdoc.WithStrict())
	}

	var buf bytes.Buffer
	if err := format.NewBlocksJSONEncoder(&buf).Encode(file, hsdoc.Parse(source, opts...)); err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
