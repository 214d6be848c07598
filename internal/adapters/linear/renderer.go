// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/ui/output"
	"go.trai.ch/livepush/internal/ui/style"
)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// Runtime console output goes to stdout with a device prefix, session activity goes to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu         sync.Mutex
	activities map[string]*activityState // spanID -> activity state
}

type activityState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new LinearRenderer.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:     stdout,
		stderr:     stderr,
		output:     output.NewWithProfile(stderr, output.ColorProfileANSI),
		activities: make(map[string]*activityState),
	}
}

// Start is a no-op for linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop forgets activities that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.activities)
	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnSessionStart prints how to open the session.
func (r *Renderer) OnSessionStart(info ports.SessionInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := info.Name
	if name == "" {
		name = "Unnamed Snack"
	}
	_, _ = fmt.Fprintf(r.stderr, "Session %s started on channel %s (SDK %s)\n", name, info.Channel, info.SDKVersion)
	if info.User != "" {
		_, _ = fmt.Fprintf(r.stderr, "Signed in as %s\n", info.User)
	}
	url := r.output.String(info.URL).Underline().String()
	_, _ = fmt.Fprintf(r.stderr, "Open %s in a runtime to connect\n", url)
}

// OnActivityStart records when an activity started. Nothing is printed until it completes.
func (r *Renderer) OnActivityStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities[spanID] = &activityState{
		name:      name,
		startTime: startTime,
	}
}

// OnActivityComplete prints the outcome of an activity.
func (r *Renderer) OnActivityComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[spanID]
	if !ok {
		return
	}
	delete(r.activities, spanID)

	duration := endTime.Sub(a.startTime)
	prefix := r.output.String(fmt.Sprintf("[%s]", a.name)).Faint().String()

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}
	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
}

// OnPresence prints runtimes joining and leaving.
func (r *Renderer) OnPresence(event domain.PresenceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := deviceName(event.Device)
	if event.Device.Platform != "" {
		name += " (" + event.Device.Platform + ")"
	}
	if event.Status == domain.PresenceJoin {
		symbol := r.output.String(style.Dot).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s connected\n", symbol, name)
		return
	}
	symbol := r.output.String(style.Circle).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s disconnected\n", symbol, name)
}

// OnDeviceLog prints every line of a console call with the device prefix.
func (r *Renderer) OnDeviceLog(log domain.DeviceLog) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.stdout
	if log.Method == "error" || log.Method == "warn" {
		w = r.stderr
	}
	for line := range strings.Lines(log.Message) {
		printLine(w, deviceName(log.Device), line)
	}
}

// OnDeviceErrors prints the errors a runtime reported.
func (r *Renderer) OnDeviceErrors(errs []domain.DeviceError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
	for _, e := range errs {
		_, _ = fmt.Fprintf(r.stderr, "%s [%s] %s (%d:%d)\n",
			symbol, deviceName(e.Device), e.Message, e.StartLine, e.StartColumn)
	}
}

func deviceName(d domain.Device) string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// printLine prints a line with the device name prefix.
func printLine(w io.Writer, name, line string) {
	// Trim trailing newline for cleaner output
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	if line == "" {
		return
	}

	_, _ = fmt.Fprintf(w, "[%s] %s\n", name, line)
}
