// internal/model/message.go
package model

import "strings"

// MessageKind is the closed set of outbound message types.
type MessageKind int

const (
	KindText MessageKind = iota
	KindForm
	KindAudio
	KindImage
	KindVideo
)

func (k MessageKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindForm:
		return "form"
	case KindAudio:
		return "audio"
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	}
	return "unknown"
}

// ParseMessageKind maps a stored type string onto a MessageKind. Matching is
// case-insensitive and accepts the Spanish names the CRM uses. Empty input
// means text. Unrecognized input returns ok=false so callers can skip the
// message instead of guessing.
func ParseMessageKind(s string) (MessageKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "texto":
		return KindText, true
	case "form", "formulario":
		return KindForm, true
	case "audio":
		return KindAudio, true
	case "image", "imagen":
		return KindImage, true
	case "video":
		return KindVideo, true
	}
	return 0, false
}

// Message describes one outbound message: what kind it is and the template
// (or media URL template) to render against the lead.
type Message struct {
	Kind    MessageKind `json:"kind"`
	Content string      `json:"content"`
}
