package domain

import (
	"encoding/json"
	"strings"

	"go.trai.ch/zerr"
)

// DeviceLog is a console call forwarded from a runtime.
type DeviceLog struct {
	Device    Device
	Method    string
	Message   string
	Arguments []any
}

// NewDeviceLog joins the console arguments the way the runtime console prints them.
func NewDeviceLog(device Device, method string, payload []any) DeviceLog {
	parts := make([]string, 0, len(payload))
	for _, arg := range payload {
		parts = append(parts, formatArgument(arg))
	}
	return DeviceLog{
		Device:    device,
		Method:    method,
		Message:   strings.Join(parts, " "),
		Arguments: payload,
	}
}

func formatArgument(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// DeviceError is a runtime error positioned in the project source.
type DeviceError struct {
	Message     string
	Device      Device
	Stack       string
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
}

type rawDeviceError struct {
	Message string `json:"message"`
	Stack   string `json:"stack"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Loc     *struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"loc"`
}

// DecodeDeviceErrors parses the JSON error a runtime embeds in an ERROR message.
// An empty payload yields no errors.
func DecodeDeviceErrors(device Device, payload string) ([]DeviceError, error) {
	if payload == "" {
		return []DeviceError{}, nil
	}
	var raw rawDeviceError
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, zerr.With(zerr.Wrap(ErrInvalidErrorPayload, err.Error()), "device", device.ID)
	}
	out := DeviceError{
		Message:     raw.Message,
		Device:      device,
		Stack:       raw.Stack,
		StartLine:   raw.Line,
		EndLine:     raw.Line,
		StartColumn: raw.Column,
		EndColumn:   raw.Column,
	}
	if raw.Loc != nil {
		out.StartLine, out.EndLine = raw.Loc.Line, raw.Loc.Line
		out.StartColumn, out.EndColumn = raw.Loc.Column, raw.Loc.Column
	}
	return []DeviceError{out}, nil
}

// PresenceStatus is the kind of presence change a runtime went through.
type PresenceStatus string

const (
	// PresenceJoin is sent when a runtime subscribes to the channel.
	PresenceJoin PresenceStatus = "join"
	// PresenceLeave is sent when a runtime unsubscribes or times out.
	PresenceLeave PresenceStatus = "leave"
)

// PresenceEvent reports a runtime joining or leaving the channel.
type PresenceEvent struct {
	Device Device
	Status PresenceStatus
}
