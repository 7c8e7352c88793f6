// internal/service/dispatcher.go
package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/leadflow/sequencer-backend/internal/channel"
	"github.com/leadflow/sequencer-backend/internal/model"
	"github.com/leadflow/sequencer-backend/internal/phone"
	"github.com/leadflow/sequencer-backend/internal/template"
)

// Outcome classifies what a dispatch attempt did.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// DispatchResult is the explicit soft-fail carrier: dispatch never returns an
// error, it reports what happened and the caller decides how loudly to log.
type DispatchResult struct {
	Outcome Outcome
	Reason  string
}

func sent() DispatchResult                 { return DispatchResult{Outcome: OutcomeSent} }
func skipped(reason string) DispatchResult { return DispatchResult{Outcome: OutcomeSkipped, Reason: reason} }
func failed(err error) DispatchResult      { return DispatchResult{Outcome: OutcomeFailed, Reason: err.Error()} }

// Dispatcher resolves a lead's contact address, renders the message for its
// kind and hands it to the channel. At most one outbound send per call. Every
// failure mode degrades to a skipped or failed result so a bad job can never
// abort the batch it is part of.
type Dispatcher struct {
	Channel channel.Channel
}

// DispatchRaw parses the stored type string and delegates to Dispatch.
// Unrecognized types are a soft skip, not an error.
func (d *Dispatcher) DispatchRaw(ctx context.Context, lead *model.Lead, msgType, content string) DispatchResult {
	kind, ok := model.ParseMessageKind(msgType)
	if !ok {
		return skipped("unrecognized message type: " + msgType)
	}
	return d.Dispatch(ctx, lead, model.Message{Kind: kind, Content: content})
}

// Dispatch sends one message to one lead.
func (d *Dispatcher) Dispatch(ctx context.Context, lead *model.Lead, msg model.Message) DispatchResult {
	conn := d.Channel.ActiveConnection()
	if conn == nil {
		return skipped("channel connection unavailable")
	}

	e164 := phone.ToE164(lead.Phone(), phone.DefaultCountry)
	if e164 == "" {
		return skipped("lead has no usable phone number")
	}
	address := phone.ToChannelAddress(e164)

	switch msg.Kind {
	case model.KindText:
		body := strings.TrimSpace(template.Render(msg.Content, lead))
		if body == "" {
			return skipped("rendered text is empty")
		}
		if err := conn.SendText(ctx, address, body); err != nil {
			return failed(err)
		}
		return sent()

	case model.KindForm:
		body := strings.TrimSpace(renderForm(msg.Content, e164, lead.Name()))
		if body == "" {
			return skipped("rendered form link is empty")
		}
		if err := conn.SendText(ctx, address, body); err != nil {
			return failed(err)
		}
		return sent()

	case model.KindAudio:
		mediaURL := strings.TrimSpace(template.Render(msg.Content, lead))
		if mediaURL == "" {
			return skipped("audio URL is empty")
		}
		if err := conn.SendAudio(ctx, address, mediaURL, true); err != nil {
			return failed(err)
		}
		return sent()

	case model.KindImage:
		mediaURL := strings.TrimSpace(template.Render(msg.Content, lead))
		if mediaURL == "" {
			return skipped("image URL is empty")
		}
		if err := conn.SendImage(ctx, address, mediaURL); err != nil {
			return failed(err)
		}
		return sent()

	case model.KindVideo:
		mediaURL := strings.TrimSpace(template.Render(msg.Content, lead))
		if mediaURL == "" {
			return skipped("video URL is empty")
		}
		if err := conn.SendVideo(ctx, address, mediaURL); err != nil {
			return failed(err)
		}
		return sent()
	}

	return skipped("unrecognized message kind")
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// renderForm builds a form link. Unlike the general renderer it substitutes
// exactly two placeholders: {{telefono}} with the bare digits and {{nombre}}
// with the URL-encoded name, so lead data cannot break the URL.
func renderForm(tpl, e164, name string) string {
	out := strings.ReplaceAll(tpl, "{{telefono}}", phone.Digits(e164))
	out = strings.ReplaceAll(out, "{{nombre}}", url.QueryEscape(name))
	return newlines.Replace(out)
}
