package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing        CommandType = "PING"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandReposition  CommandType = "REPOSITION"
	CommandSetPanel    CommandType = "SET_PANEL"
	CommandShowPanel   CommandType = "SHOW_PANEL"
	CommandHidePanel   CommandType = "HIDE_PANEL"
	CommandOpen        CommandType = "OPEN"
	CommandCheckUpdate CommandType = "CHECK_UPDATE"
	CommandReload      CommandType = "RELOAD"
	CommandRestart     CommandType = "RESTART"
	CommandQuit        CommandType = "QUIT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// PanelInfo describes the live panel window in logical pixels.
type PanelInfo struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ScaleFactor float64 `json:"scale_factor"`
	Primary     bool    `json:"primary"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Phase         string       `json:"phase"`
	Version       string       `json:"version"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	DaemonRunning bool         `json:"daemon_running"`
	Panel         *PanelInfo   `json:"panel,omitempty"`
	Monitor       *MonitorInfo `json:"monitor,omitempty"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// SetPanelPayload carries optional panel overrides for SET_PANEL. Nil
// fields leave the current value untouched.
type SetPanelPayload struct {
	Width          *float64 `json:"width,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	VerticalOffset *float64 `json:"vertical_offset,omitempty"`
	AlwaysOnTop    *bool    `json:"always_on_top,omitempty"`
}

// OpenPayload represents the payload for the OPEN command
type OpenPayload struct {
	URL string `json:"url"`
}

// UpdateData represents the data returned by CHECK_UPDATE
type UpdateData struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Notes     string `json:"notes,omitempty"`
	URL       string `json:"url,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
