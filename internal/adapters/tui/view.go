package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.deviceList(),
		m.logPane(),
	)
}

func (m *Model) deviceList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DEVICES") + "\n\n")
	if len(m.Devices) == 0 {
		s.WriteString(faintStyle.Render("Waiting for devices...") + "\n")
	}
	for _, node := range m.Devices {
		s.WriteString(m.renderDeviceRow(node) + "\n")
	}

	if len(m.Activities) > 0 {
		s.WriteString("\n" + titleStyle.Render("ACTIVITY") + "\n\n")
		for _, a := range m.Activities {
			s.WriteString(m.renderActivityRow(a) + "\n")
		}
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderDeviceRow(node *DeviceNode) string {
	icon, style := "○", deviceOfflineStyle
	if node.Connected {
		icon, style = "●", taskDoneStyle
	}

	content := fmt.Sprintf("%s %s", icon, node.Name)
	if node.Platform != "" {
		content += " (" + node.Platform + ")"
	}
	row := style.Render(content)
	if n := len(node.Errors); n > 0 {
		row += " " + taskErrorStyle.Render(fmt.Sprintf("✗ %d", n))
	}
	return row
}

func (m *Model) renderActivityRow(a *Activity) string {
	switch a.Status {
	case StatusRunning:
		return taskRunningStyle.Render("● " + a.Name)
	case StatusError:
		return taskErrorStyle.Render("✗ " + a.Name)
	default:
		return taskDoneStyle.Render("✓ "+a.Name) + faintStyle.Render(" "+a.Duration.String())
	}
}

func (m *Model) logHeader() string {
	status := " (Manual)"
	if m.FollowMode {
		status = " (Following)"
	}
	name := m.Info.Name
	if name == "" {
		name = m.Info.Channel
	}
	header := titleStyle.Render("LOGS: " + name + status)
	if m.Info.URL != "" {
		header += "\n" + faintStyle.Render(m.Info.URL)
	}
	return header
}

func (m *Model) logPane() string {
	start := min(m.LogOffset, len(m.Logs))
	end := len(m.Logs)
	if m.LogHeight > 0 {
		end = min(start+m.LogHeight, len(m.Logs))
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			m.logHeader(),
			strings.Join(m.Logs[start:end], "\n"),
		),
	)
}
