// Package tui provides a textual user interface for a live push session.
package tui

// NewModel creates a new TUI model with default settings.
func NewModel() *Model {
	return &Model{
		Devices:    make([]*DeviceNode, 0),
		DeviceMap:  make(map[string]*DeviceNode),
		SpanMap:    make(map[string]*Activity),
		FollowMode: true,
	}
}
