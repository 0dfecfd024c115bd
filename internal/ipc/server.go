package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/pindeck/pindeck/internal/app"
	"github.com/pindeck/pindeck/internal/geometry"
	"github.com/pindeck/pindeck/internal/plugin/opener"
	"github.com/pindeck/pindeck/internal/plugin/updater"
	"github.com/pindeck/pindeck/internal/runtimepath"
)

// Control is a daemon lifecycle request raised by an IPC handler and
// serviced on the daemon's control goroutine.
type Control int

const (
	ControlReload Control = iota
	ControlRestart
	ControlQuit
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	app          *app.App
	version      string
	updater      *updater.Updater
	opener       *opener.Opener
	ctrlChan     chan<- Control
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. ctrlChan receives lifecycle
// requests (reload, restart, quit) for the daemon goroutine to service.
func NewServer(a *app.App, version string, upd *updater.Updater, op *opener.Opener, ctrlChan chan<- Control) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		app:        a,
		version:    version,
		updater:    upd,
		opener:     op,
		ctrlChan:   ctrlChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp, after := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}

	// RESTART and QUIT defer their control signal until the response is
	// on the wire, so the client hears back before the daemon goes away.
	if after != nil {
		after()
	}
}

// handleCommand processes an IPC command. The second return value, if
// non-nil, runs after the response has been written.
func (s *Server) handleCommand(req *Request) (*Response, func()) {
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp, nil
	case CommandGetStatus:
		return s.handleGetStatus(), nil
	case CommandGetMonitors:
		return s.handleGetMonitors(), nil
	case CommandReposition:
		return s.handleReposition(), nil
	case CommandSetPanel:
		return s.handleSetPanel(req.Payload), nil
	case CommandShowPanel:
		return s.fromError(s.app.ShowPanel()), nil
	case CommandHidePanel:
		return s.fromError(s.app.HidePanel()), nil
	case CommandOpen:
		return s.handleOpen(req.Payload), nil
	case CommandCheckUpdate:
		return s.handleCheckUpdate(), nil
	case CommandReload:
		return s.handleReload(), nil
	case CommandRestart:
		log.Println("IPC: Received RESTART command")
		resp, _ := NewOKResponse(nil)
		return resp, func() { s.notify(ControlRestart) }
	case CommandQuit:
		log.Println("IPC: Received QUIT command")
		resp, _ := NewOKResponse(nil)
		return resp, func() { s.notify(ControlQuit) }
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command)), nil
	}
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		Phase:         s.app.Phase().String(),
		Version:       s.version,
		UptimeSeconds: int64(s.app.Uptime().Seconds()),
		DaemonRunning: true,
	}

	if win, ok := s.app.Panel(); ok {
		info := &PanelInfo{Visible: win.Visible()}
		if rect, err := win.Geometry(); err == nil {
			info.X, info.Y = rect.X, rect.Y
			info.Width, info.Height = rect.Width, rect.Height
		}
		status.Panel = info
	}

	if mon, err := s.app.PrimaryMonitor(); err == nil && mon != nil {
		info := monitorInfo(*mon)
		status.Monitor = &info
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	monitors, err := s.app.Monitors()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(monitors))
	for i, m := range monitors {
		monitorInfos[i] = monitorInfo(m)
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	return resp
}

func (s *Server) handleReposition() *Response {
	return s.fromError(s.app.Reposition())
}

func (s *Server) handleSetPanel(payload json.RawMessage) *Response {
	var p SetPanelPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set_panel payload: %v", err))
	}

	err := s.app.SetPanel(app.PanelSettings{
		Width:          p.Width,
		Height:         p.Height,
		VerticalOffset: p.VerticalOffset,
		AlwaysOnTop:    p.AlwaysOnTop,
	})
	return s.fromError(err)
}

func (s *Server) handleOpen(payload json.RawMessage) *Response {
	var p OpenPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	if p.URL == "" {
		return NewErrorResponse("url is required")
	}
	return s.fromError(s.opener.Open(p.URL))
}

func (s *Server) handleCheckUpdate() *Response {
	// Keep the check inside the client's 5s read deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	upd, err := s.updater.Check(ctx)
	if err != nil {
		if errors.Is(err, updater.ErrDisabled) {
			return NewErrorResponse("updater is disabled (no endpoint configured)")
		}
		return NewErrorResponse(fmt.Sprintf("Update check failed: %v", err))
	}

	data := UpdateData{}
	if upd != nil {
		data.Available = true
		data.Version = upd.Version
		data.Notes = upd.Notes
		data.URL = upd.URL
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	if err := s.app.ReloadConfig(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	// Notify the daemon goroutine so hotkeys and timers pick up the new
	// config (non-blocking).
	s.notify(ControlReload)

	resp, _ := NewOKResponse(nil)
	return resp
}

// notify sends a control request without blocking the handler.
func (s *Server) notify(c Control) {
	select {
	case s.ctrlChan <- c:
	default:
	}
}

// fromError maps an operation result to an OK or ERROR response.
func (s *Server) fromError(err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func monitorInfo(m geometry.Monitor) MonitorInfo {
	return MonitorInfo{
		ID:          m.ID,
		Name:        m.Name,
		X:           m.X,
		Y:           m.Y,
		Width:       m.Width,
		Height:      m.Height,
		ScaleFactor: m.ScaleFactor,
		Primary:     m.Primary,
	}
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
