// Package mcpserver exposes a workspace's documentation to MCP clients.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/hsdoc/workspace"
)

const ServerName = "hsdoc"

var log = commonlog.GetLogger("hsdoc.mcp")

// Server wraps the MCP server with the workspace it answers from.
type Server struct {
	mcp       *server.MCPServer
	workspace *workspace.Workspace
}

// New registers the documentation tools for ws. The workspace is expected
// to be scanned already.
func New(ws *workspace.Workspace, version string) *Server {
	s := &Server{
		mcp:       server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false)),
		workspace: ws,
	}
	s.mcp.AddTool(listModulesTool(), s.handleListModules)
	s.mcp.AddTool(describeModuleTool(), s.handleDescribeModule)
	s.mcp.AddTool(lookupItemTool(), s.handleLookupItem)
	s.mcp.AddTool(listProblemsTool(), s.handleListProblems)
	s.mcp.AddTool(checkSourceTool(), s.handleCheckSource)
	return s
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	log.Infof("serving %s over stdio", s.workspace.RootDir())
	return server.ServeStdio(s.mcp)
}
