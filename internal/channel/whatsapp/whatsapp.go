// internal/channel/whatsapp/whatsapp.go
package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/leadflow/sequencer-backend/internal/channel"
	"github.com/leadflow/sequencer-backend/internal/media"
)

const downloadTimeout = 60 * time.Second

// Client wraps a whatsmeow session behind the channel.Channel capability.
// The device state lives in a local sqlite store so pairing survives restarts.
type Client struct {
	wm         *whatsmeow.Client
	container  *sqlstore.Container
	transcoder media.Transcoder
	http       *http.Client
}

// New opens (or creates) the device store at dbPath and builds the client.
// It does not connect; call Connect for that.
func New(ctx context.Context, dbPath string, transcoder media.Transcoder) (*Client, error) {
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", dbPath), waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}

	c := &Client{
		wm:         whatsmeow.NewClient(device, waLog.Noop),
		container:  container,
		transcoder: transcoder,
		http:       &http.Client{Timeout: downloadTimeout},
	}
	c.wm.AddEventHandler(c.handleEvent)
	return c, nil
}

func (c *Client) handleEvent(evt any) {
	switch e := evt.(type) {
	case *events.Connected:
		logrus.Info("whatsapp connected")
	case *events.Disconnected:
		logrus.Warn("whatsapp disconnected, auto-reconnect pending")
	case *events.LoggedOut:
		logrus.WithField("reason", e.Reason).Warn("whatsapp logged out, pairing required")
	}
}

// Connect brings the socket up. On a fresh device it prints a pairing QR to
// the terminal and blocks until the phone scans it or the code stream ends.
func (c *Client) Connect(ctx context.Context) error {
	if c.wm.Store.ID != nil {
		return c.wm.Connect()
	}

	qrChan, err := c.wm.GetQRChannel(ctx)
	if err != nil {
		return err
	}
	if err := c.wm.Connect(); err != nil {
		return err
	}
	for evt := range qrChan {
		if evt.Event == "code" {
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			logrus.Info("scan the QR code above to pair")
			continue
		}
		logrus.WithField("event", evt.Event).Info("whatsapp pairing")
	}
	return nil
}

// Disconnect tears the socket down. The device store stays paired.
func (c *Client) Disconnect() {
	c.wm.Disconnect()
}

// ActiveConnection returns the live session, or nil while unpaired or
// disconnected.
func (c *Client) ActiveConnection() channel.Connection {
	if c.wm.IsConnected() && c.wm.IsLoggedIn() {
		return c
	}
	return nil
}

func (c *Client) Status() channel.Status {
	s := channel.Status{
		Connected: c.wm.IsConnected(),
		LoggedIn:  c.wm.IsLoggedIn(),
	}
	if c.wm.Store.ID != nil {
		s.Device = c.wm.Store.ID.String()
	}
	return s
}

// parseJID accepts either a full JID string or bare digits.
func parseJID(address string) (types.JID, error) {
	if !strings.Contains(address, "@") {
		return types.NewJID(address, types.DefaultUserServer), nil
	}
	return types.ParseJID(address)
}

func (c *Client) SendText(ctx context.Context, address, text string) error {
	jid, err := parseJID(address)
	if err != nil {
		return err
	}
	_, err = c.wm.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)})
	return err
}

func (c *Client) SendAudio(ctx context.Context, address, url string, ptt bool) error {
	jid, err := parseJID(address)
	if err != nil {
		return err
	}
	data, _, err := c.download(ctx, url)
	if err != nil {
		return err
	}
	// WhatsApp voice notes must be ogg/opus; the transcoder black-boxes that.
	ogg, err := c.transcoder.ToOggOpus(ctx, data)
	if err != nil {
		return err
	}
	up, err := c.wm.Upload(ctx, ogg, whatsmeow.MediaAudio)
	if err != nil {
		return err
	}
	_, err = c.wm.SendMessage(ctx, jid, &waE2E.Message{AudioMessage: &waE2E.AudioMessage{
		URL:           proto.String(up.URL),
		DirectPath:    proto.String(up.DirectPath),
		MediaKey:      up.MediaKey,
		Mimetype:      proto.String("audio/ogg; codecs=opus"),
		FileEncSHA256: up.FileEncSHA256,
		FileSHA256:    up.FileSHA256,
		FileLength:    proto.Uint64(uint64(len(ogg))),
		PTT:           proto.Bool(ptt),
	}})
	return err
}

func (c *Client) SendImage(ctx context.Context, address, url string) error {
	jid, err := parseJID(address)
	if err != nil {
		return err
	}
	data, mime, err := c.download(ctx, url)
	if err != nil {
		return err
	}
	up, err := c.wm.Upload(ctx, data, whatsmeow.MediaImage)
	if err != nil {
		return err
	}
	_, err = c.wm.SendMessage(ctx, jid, &waE2E.Message{ImageMessage: &waE2E.ImageMessage{
		URL:           proto.String(up.URL),
		DirectPath:    proto.String(up.DirectPath),
		MediaKey:      up.MediaKey,
		Mimetype:      proto.String(mime),
		FileEncSHA256: up.FileEncSHA256,
		FileSHA256:    up.FileSHA256,
		FileLength:    proto.Uint64(uint64(len(data))),
	}})
	return err
}

func (c *Client) SendVideo(ctx context.Context, address, url string) error {
	jid, err := parseJID(address)
	if err != nil {
		return err
	}
	data, mime, err := c.download(ctx, url)
	if err != nil {
		return err
	}
	up, err := c.wm.Upload(ctx, data, whatsmeow.MediaVideo)
	if err != nil {
		return err
	}
	_, err = c.wm.SendMessage(ctx, jid, &waE2E.Message{VideoMessage: &waE2E.VideoMessage{
		URL:           proto.String(up.URL),
		DirectPath:    proto.String(up.DirectPath),
		MediaKey:      up.MediaKey,
		Mimetype:      proto.String(mime),
		FileEncSHA256: up.FileEncSHA256,
		FileSHA256:    up.FileSHA256,
		FileLength:    proto.Uint64(uint64(len(data))),
	}})
	return err
}

func (c *Client) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}
	return data, mime, nil
}
