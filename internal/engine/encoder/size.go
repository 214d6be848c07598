package encoder

import (
	"bytes"
	"encoding/json"
)

const (
	// MaxPayloadSize is the largest message the channel accepts.
	MaxPayloadSize = 31500
	// metadataOverhead approximates the analytics metadata sent alongside the code.
	metadataOverhead = 5000
)

type sizedPayload struct {
	Diff  map[string]string `json:"diff"`
	S3URL map[string]string `json:"s3url"`
}

// PayloadSize estimates the wire size of a CODE message for the channel.
// It counts the URI-encoded length of the channel id followed by the JSON of both maps.
func PayloadSize(channel string, diff, s3url map[string]string) int {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sizedPayload{Diff: diff, S3URL: s3url}); err != nil {
		return MaxPayloadSize + 1
	}
	body := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return uriComponentLength(channel) + uriComponentLength(string(body)) + metadataOverhead
}

// uriComponentLength returns the length s would have after encodeURIComponent.
func uriComponentLength(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if isUnreserved(s[i]) {
			n++
		} else {
			n += 3
		}
	}
	return n
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
