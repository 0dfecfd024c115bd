package mcp

// SetPanelInput is the input for the set_panel tool. Omitted fields
// leave the current value untouched.
type SetPanelInput struct {
	Width          *float64 `json:"width,omitempty" jsonschema:"Panel width in logical pixels"`
	Height         *float64 `json:"height,omitempty" jsonschema:"Panel height in logical pixels"`
	VerticalOffset *float64 `json:"vertical_offset,omitempty" jsonschema:"Vertical offset from center in logical pixels (negative raises the panel)"`
	AlwaysOnTop    *bool    `json:"always_on_top,omitempty" jsonschema:"Keep the panel above normal windows"`
}

// SetPanelVisibilityInput is the input for the set_panel_visibility tool.
type SetPanelVisibilityInput struct {
	Visible bool `json:"visible" jsonschema:"required,true shows the panel and false hides it"`
}

// OpenLinkInput is the input for the open_link tool.
type OpenLinkInput struct {
	URL string `json:"url" jsonschema:"required,The link to open (http, https, or mailto)"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// Ack is the output for tools that only confirm completion.
type Ack struct {
	Done bool `json:"done"`
}
