package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	program := tea.NewProgram(model, opts...)
	return &Renderer{
		program: program,
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnSessionStart forwards the session header to the TUI.
func (r *Renderer) OnSessionStart(info ports.SessionInfo) {
	r.program.Send(MsgSessionStart{Info: info})
}

// OnActivityStart forwards activity start events to the TUI.
func (r *Renderer) OnActivityStart(spanID, name string, startTime time.Time) {
	r.program.Send(MsgActivityStart{
		SpanID:    spanID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnActivityComplete forwards activity completion events to the TUI.
func (r *Renderer) OnActivityComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgActivityComplete{
		SpanID:  spanID,
		EndTime: endTime,
		Err:     err,
	})
}

// OnPresence forwards presence changes to the TUI.
func (r *Renderer) OnPresence(event domain.PresenceEvent) {
	r.program.Send(MsgPresence{Event: event})
}

// OnDeviceLog forwards runtime console output to the TUI.
func (r *Renderer) OnDeviceLog(log domain.DeviceLog) {
	r.program.Send(MsgDeviceLog{Log: log})
}

// OnDeviceErrors forwards runtime errors to the TUI.
func (r *Renderer) OnDeviceErrors(errs []domain.DeviceError) {
	r.program.Send(MsgDeviceErrors{Errors: errs})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
