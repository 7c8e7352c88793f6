// internal/channel/channel.go
package channel

import "context"

// Connection is a live messaging-channel session able to deliver messages to
// a channel address (digits + domain suffix, see internal/phone).
type Connection interface {
	SendText(ctx context.Context, address, text string) error
	// SendAudio delivers the audio at url; ptt marks it as a voice note.
	SendAudio(ctx context.Context, address, url string, ptt bool) error
	SendImage(ctx context.Context, address, url string) error
	SendVideo(ctx context.Context, address, url string) error
}

// Channel owns the connection lifecycle. ActiveConnection returns nil while
// the channel is not paired or the socket is down; senders must treat nil as
// "skip, try next tick".
type Channel interface {
	ActiveConnection() Connection
	Status() Status
}

// Status reports the channel's connection state for the HTTP shim.
type Status struct {
	Connected bool   `json:"connected"`
	LoggedIn  bool   `json:"logged_in"`
	Device    string `json:"device,omitempty"`
}
