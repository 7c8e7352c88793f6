package service

import (
	"context"
	"errors"
	"testing"

	"github.com/leadflow/sequencer-backend/internal/channel"
	"github.com/leadflow/sequencer-backend/internal/model"
)

// mockConn counts sends so tests can assert "exactly zero or one".
type mockConn struct {
	texts  []string
	audios []string
	images []string
	videos []string

	lastAddress string
	lastPTT     bool
	err         error
}

func (m *mockConn) SendText(_ context.Context, address, text string) error {
	m.lastAddress = address
	m.texts = append(m.texts, text)
	return m.err
}

func (m *mockConn) SendAudio(_ context.Context, address, url string, ptt bool) error {
	m.lastAddress = address
	m.lastPTT = ptt
	m.audios = append(m.audios, url)
	return m.err
}

func (m *mockConn) SendImage(_ context.Context, address, url string) error {
	m.lastAddress = address
	m.images = append(m.images, url)
	return m.err
}

func (m *mockConn) SendVideo(_ context.Context, address, url string) error {
	m.lastAddress = address
	m.videos = append(m.videos, url)
	return m.err
}

func (m *mockConn) sends() int {
	return len(m.texts) + len(m.audios) + len(m.images) + len(m.videos)
}

type mockChannel struct {
	conn *mockConn
}

func (m *mockChannel) ActiveConnection() channel.Connection {
	if m.conn == nil {
		return nil
	}
	return m.conn
}

func (m *mockChannel) Status() channel.Status {
	return channel.Status{Connected: m.conn != nil, LoggedIn: m.conn != nil}
}

func testLead(fields map[string]string) *model.Lead {
	return &model.Lead{ID: "lead-1", Fields: fields}
}

func TestDispatchText(t *testing.T) {
	conn := &mockConn{}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}

	lead := testLead(map[string]string{"telefono": "5512345678", "nombre": "Juan Perez"})
	res := d.DispatchRaw(context.Background(), lead, "texto", "Hola {{nombre}}")

	if res.Outcome != OutcomeSent {
		t.Fatalf("outcome = %s, reason = %q", res.Outcome, res.Reason)
	}
	if len(conn.texts) != 1 || conn.texts[0] != "Hola Juan" {
		t.Errorf("texts = %v, want [Hola Juan]", conn.texts)
	}
	if conn.lastAddress != "5215512345678@s.whatsapp.net" {
		t.Errorf("address = %q", conn.lastAddress)
	}
}

func TestDispatchEmptyRenderedText(t *testing.T) {
	conn := &mockConn{}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}

	lead := testLead(map[string]string{"telefono": "5512345678"})
	res := d.DispatchRaw(context.Background(), lead, "text", "  {{missing}}  ")

	if res.Outcome != OutcomeSkipped {
		t.Fatalf("outcome = %s, want skipped", res.Outcome)
	}
	if conn.sends() != 0 {
		t.Errorf("expected no sends, got %d", conn.sends())
	}
}

func TestDispatchUnrecognizedType(t *testing.T) {
	conn := &mockConn{}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}

	lead := testLead(map[string]string{"telefono": "5512345678"})
	res := d.DispatchRaw(context.Background(), lead, "sticker", "whatever")

	if res.Outcome != OutcomeSkipped {
		t.Fatalf("outcome = %s, want skipped", res.Outcome)
	}
	if conn.sends() != 0 {
		t.Errorf("expected no sends, got %d", conn.sends())
	}
}

func TestDispatchNoConnection(t *testing.T) {
	d := &Dispatcher{Channel: &mockChannel{}}

	lead := testLead(map[string]string{"telefono": "5512345678"})
	res := d.DispatchRaw(context.Background(), lead, "text", "Hola")

	if res.Outcome != OutcomeSkipped {
		t.Fatalf("outcome = %s, want skipped", res.Outcome)
	}
}

func TestDispatchNoPhone(t *testing.T) {
	conn := &mockConn{}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}

	lead := testLead(map[string]string{"nombre": "Juan"})
	res := d.DispatchRaw(context.Background(), lead, "text", "Hola")

	if res.Outcome != OutcomeSkipped {
		t.Fatalf("outcome = %s, want skipped", res.Outcome)
	}
	if conn.sends() != 0 {
		t.Errorf("expected no sends, got %d", conn.sends())
	}
}

func TestDispatchPhoneAliasPriority(t *testing.T) {
	conn := &mockConn{}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}

	lead := testLead(map[string]string{
		"whatsapp": "5500000000",
		"telefono": "5512345678", // telefono wins over whatsapp
	})
	d.DispatchRaw(context.Background(), lead, "text", "Hola")

	if conn.lastAddress != "5215512345678@s.whatsapp.net" {
		t.Errorf("address = %q, telefono alias should win", conn.lastAddress)
	}
}

func TestDispatchForm(t *testing.T) {
	conn := &mockConn{}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}

	lead := testLead(map[string]string{"telefono": "5512345678", "nombre": "Juan Perez", "producto": "x"})
	res := d.DispatchRaw(context.Background(), lead, "form",
		"https://forms.example.com/f?tel={{telefono}}\n&nombre={{nombre}}&p={{producto}}")

	if res.Outcome != OutcomeSent {
		t.Fatalf("outcome = %s, reason = %q", res.Outcome, res.Reason)
	}
	want := "https://forms.example.com/f?tel=525512345678 &nombre=Juan+Perez&p={{producto}}"
	if conn.texts[0] != want {
		t.Errorf("form body = %q, want %q", conn.texts[0], want)
	}
}

func TestDispatchAudioIsPTT(t *testing.T) {
	conn := &mockConn{}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}

	lead := testLead(map[string]string{"telefono": "5512345678"})
	res := d.DispatchRaw(context.Background(), lead, "audio", "https://cdn.example.com/a.mp3")

	if res.Outcome != OutcomeSent {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if len(conn.audios) != 1 || !conn.lastPTT {
		t.Errorf("audios = %v, ptt = %v", conn.audios, conn.lastPTT)
	}
}

func TestDispatchImageAndVideo(t *testing.T) {
	conn := &mockConn{}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}
	lead := testLead(map[string]string{"telefono": "5512345678"})

	if res := d.DispatchRaw(context.Background(), lead, "imagen", "https://cdn.example.com/i.jpg"); res.Outcome != OutcomeSent {
		t.Fatalf("image outcome = %s", res.Outcome)
	}
	if res := d.DispatchRaw(context.Background(), lead, "video", "https://cdn.example.com/v.mp4"); res.Outcome != OutcomeSent {
		t.Fatalf("video outcome = %s", res.Outcome)
	}
	if len(conn.images) != 1 || len(conn.videos) != 1 {
		t.Errorf("images = %v, videos = %v", conn.images, conn.videos)
	}
}

func TestDispatchSendErrorIsFailed(t *testing.T) {
	conn := &mockConn{err: errors.New("socket closed")}
	d := &Dispatcher{Channel: &mockChannel{conn: conn}}

	lead := testLead(map[string]string{"telefono": "5512345678"})
	res := d.DispatchRaw(context.Background(), lead, "text", "Hola")

	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %s, want failed", res.Outcome)
	}
	if res.Reason == "" {
		t.Error("expected a reason")
	}
}
