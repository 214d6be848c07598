package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

const (
	deviceListWidthRatio = 0.3
	logPaneBorderWidth   = 4

	// maxLogLines bounds the log history kept in memory.
	maxLogLines = 1000
	// maxActivities bounds the finished activities shown below the device list.
	maxActivities = 5
)

// ActivityStatus represents the current state of a traced operation.
type ActivityStatus string

const (
	// StatusRunning indicates the operation is in progress.
	StatusRunning ActivityStatus = "Running"
	// StatusDone indicates the operation completed successfully.
	StatusDone ActivityStatus = "Done"
	// StatusError indicates the operation failed.
	StatusError ActivityStatus = "Error"
)

// DeviceNode represents a single runtime in the UI list.
type DeviceNode struct {
	ID        string
	Name      string
	Platform  string
	Connected bool
	Errors    []domain.DeviceError
}

// Activity is a traced operation such as a publish or a module resolution.
type Activity struct {
	Name     string
	Status   ActivityStatus
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Model represents the main TUI state.
type Model struct {
	Info       ports.SessionInfo
	Devices    []*DeviceNode
	DeviceMap  map[string]*DeviceNode
	Activities []*Activity
	SpanMap    map[string]*Activity
	Logs       []string
	LogOffset  int
	FollowMode bool
	ListHeight int
	LogWidth   int
	LogHeight  int
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // one case per message type
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.LogOffset > 0 {
				m.LogOffset--
				m.FollowMode = false
			}
		case "j", "down":
			if m.LogOffset < m.maxOffset() {
				m.LogOffset++
			}
		case "esc":
			m.FollowMode = true
			m.LogOffset = m.maxOffset()
		}

	case tea.WindowSizeMsg:
		// Split screen: 30% for devices, 70% for logs
		listWidth := int(float64(msg.Width) * deviceListWidthRatio)
		m.LogWidth = msg.Width - listWidth - logPaneBorderWidth

		headerHeight := lipgloss.Height(m.logHeader())
		m.LogHeight = msg.Height - headerHeight

		fullHeader := titleStyle.Render("DEVICES") + "\n\n"
		m.ListHeight = msg.Height - lipgloss.Height(fullHeader)
		m.follow()

	case MsgSessionStart:
		m.Info = msg.Info

	case MsgActivityStart:
		a := &Activity{Name: msg.Name, Status: StatusRunning, Started: msg.StartTime}
		m.SpanMap[msg.SpanID] = a
		m.Activities = append(m.Activities, a)
		if len(m.Activities) > maxActivities {
			m.Activities = m.Activities[len(m.Activities)-maxActivities:]
		}

	case MsgActivityComplete:
		if a, ok := m.SpanMap[msg.SpanID]; ok {
			a.Duration = msg.EndTime.Sub(a.Started)
			a.Err = msg.Err
			if msg.Err != nil {
				a.Status = StatusError
				m.appendLog(taskErrorStyle.Render(fmt.Sprintf("%s failed: %v", a.Name, msg.Err)))
			} else {
				a.Status = StatusDone
			}
			delete(m.SpanMap, msg.SpanID)
		}

	case MsgPresence:
		node := m.device(msg.Event.Device)
		node.Connected = msg.Event.Status == domain.PresenceJoin
		verb := "connected"
		if !node.Connected {
			verb = "disconnected"
		}
		m.appendLog(faintStyle.Render(node.Name + " " + verb))

	case MsgDeviceLog:
		node := m.device(msg.Log.Device)
		line := fmt.Sprintf("[%s] %s", node.Name, msg.Log.Message)
		switch msg.Log.Method {
		case "error":
			line = taskErrorStyle.Render(line)
		case "warn":
			line = warnStyle.Render(line)
		}
		m.appendLog(line)

	case MsgDeviceErrors:
		for _, node := range m.Devices {
			node.Errors = nil
		}
		for _, e := range msg.Errors {
			node := m.device(e.Device)
			node.Errors = append(node.Errors, e)
			m.appendLog(taskErrorStyle.Render(fmt.Sprintf("[%s] %s (%d:%d)", node.Name, e.Message, e.StartLine, e.StartColumn)))
		}
	}

	return m, nil
}

// device returns the node for d, adding it to the list on first sight.
func (m *Model) device(d domain.Device) *DeviceNode {
	if node, ok := m.DeviceMap[d.ID]; ok {
		return node
	}
	name := d.Name
	if name == "" {
		name = d.ID
	}
	node := &DeviceNode{ID: d.ID, Name: name, Platform: d.Platform}
	m.Devices = append(m.Devices, node)
	m.DeviceMap[d.ID] = node
	return node
}

func (m *Model) appendLog(text string) {
	for line := range strings.SplitSeq(WrapLog(text, m.LogWidth), "\n") {
		m.Logs = append(m.Logs, line)
	}
	if over := len(m.Logs) - maxLogLines; over > 0 {
		m.Logs = m.Logs[over:]
		m.LogOffset = max(m.LogOffset-over, 0)
	}
	m.follow()
}

func (m *Model) follow() {
	if m.FollowMode {
		m.LogOffset = m.maxOffset()
	}
}

func (m *Model) maxOffset() int {
	return max(len(m.Logs)-m.LogHeight, 0)
}

// WrapLog breaks text into lines no wider than width. A non-positive width leaves it unchanged.
func WrapLog(text string, width int) string {
	if width <= 0 || text == "" {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
