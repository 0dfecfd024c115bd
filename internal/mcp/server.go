// Package mcp exposes panel control to MCP clients. Every tool forwards
// to the running daemon over the IPC socket, so the server is a thin
// stdio frontend with no windowing state of its own.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pindeck/pindeck/internal/ipc"
)

const (
	ServerName    = "pindeck"
	ServerVersion = "0.5.0"
)

// Server is the MCP server for pindeck panel control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server backed by the daemon's IPC socket.
func NewServer() (*Server, error) {
	client := ipc.NewClient()
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("pindeck daemon is not running (start it with 'pindeck daemon'): %w", err)
	}

	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get daemon status: bootstrap phase, version, uptime, panel visibility and geometry, and the primary monitor.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reposition_panel",
		Description: "Recompute the panel placement against the primary monitor and apply size, position, and always-on-top.",
	}, s.handleReposition)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_panel",
		Description: "Change panel geometry or behavior at runtime. Omitted fields keep their current values. Changes are not persisted to the config file.",
	}, s.handleSetPanel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_panel_visibility",
		Description: "Show or hide the panel window.",
	}, s.handleSetPanelVisibility)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_link",
		Description: "Open a link with the system handler. Only http, https, and mailto links are allowed.",
	}, s.handleOpenLink)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "check_update",
		Description: "Check the configured update endpoint for a newer release. Fails when no update endpoint is configured.",
	}, s.handleCheckUpdate)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleReposition(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, Ack, error) {
	if err := s.client.Reposition(); err != nil {
		return nil, Ack{}, err
	}
	return nil, Ack{Done: true}, nil
}

func (s *Server) handleSetPanel(_ context.Context, _ *mcpsdk.CallToolRequest, args SetPanelInput) (*mcpsdk.CallToolResult, Ack, error) {
	err := s.client.SetPanel(ipc.SetPanelPayload{
		Width:          args.Width,
		Height:         args.Height,
		VerticalOffset: args.VerticalOffset,
		AlwaysOnTop:    args.AlwaysOnTop,
	})
	if err != nil {
		return nil, Ack{}, err
	}
	return nil, Ack{Done: true}, nil
}

func (s *Server) handleSetPanelVisibility(_ context.Context, _ *mcpsdk.CallToolRequest, args SetPanelVisibilityInput) (*mcpsdk.CallToolResult, Ack, error) {
	var err error
	if args.Visible {
		err = s.client.ShowPanel()
	} else {
		err = s.client.HidePanel()
	}
	if err != nil {
		return nil, Ack{}, err
	}
	return nil, Ack{Done: true}, nil
}

func (s *Server) handleOpenLink(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenLinkInput) (*mcpsdk.CallToolResult, Ack, error) {
	if args.URL == "" {
		return nil, Ack{}, fmt.Errorf("url is required")
	}
	if err := s.client.Open(args.URL); err != nil {
		return nil, Ack{}, err
	}
	return nil, Ack{Done: true}, nil
}

func (s *Server) handleCheckUpdate(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.UpdateData, error) {
	data, err := s.client.CheckUpdate()
	if err != nil {
		return nil, ipc.UpdateData{}, err
	}
	return nil, *data, nil
}
