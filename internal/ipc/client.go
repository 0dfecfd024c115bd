package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/pindeck/pindeck/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends a payload-free command and discards any response data.
func (c *Client) call(cmd CommandType) error {
	_, err := c.sendRequest(&Request{Command: cmd})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	return c.call(CommandPing)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}

	return &monitors, nil
}

// Reposition asks the daemon to re-place the panel on the primary monitor.
func (c *Client) Reposition() error {
	return c.call(CommandReposition)
}

// SetPanel applies runtime panel overrides.
func (c *Client) SetPanel(p SetPanelPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal set_panel payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandSetPanel, Payload: payload})
	return err
}

// ShowPanel makes the panel visible.
func (c *Client) ShowPanel() error {
	return c.call(CommandShowPanel)
}

// HidePanel hides the panel.
func (c *Client) HidePanel() error {
	return c.call(CommandHidePanel)
}

// Open asks the daemon to open a link with the system handler.
func (c *Client) Open(url string) error {
	payload, err := json.Marshal(OpenPayload{URL: url})
	if err != nil {
		return fmt.Errorf("failed to marshal open payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandOpen, Payload: payload})
	return err
}

// CheckUpdate asks the daemon to run an update check.
func (c *Client) CheckUpdate() (*UpdateData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandCheckUpdate})
	if err != nil {
		return nil, err
	}

	var data UpdateData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse update data: %w", err)
	}

	return &data, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload)
}

// Restart asks the daemon to relaunch itself.
func (c *Client) Restart() error {
	return c.call(CommandRestart)
}

// Quit asks the daemon to shut down.
func (c *Client) Quit() error {
	return c.call(CommandQuit)
}
