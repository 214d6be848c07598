package domain

import (
	"strings"

	"github.com/oklog/ulid/v2"
	"go.trai.ch/zerr"
)

// MinChannelLength is the shortest channel id accepted from callers.
const MinChannelLength = 6

// NewChannelID returns a fresh, unguessable channel id.
func NewChannelID() string {
	return strings.ToLower(ulid.Make().String())
}

// ValidateChannel rejects channel ids that are too short.
func ValidateChannel(channel string) error {
	if len(channel) < MinChannelLength {
		return zerr.With(zerr.Wrap(ErrChannelEntropy, "channel id is too short"), "min_length", MinChannelLength)
	}
	return nil
}
