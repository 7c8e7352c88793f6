package model

import "testing"

func TestParseMessageKind(t *testing.T) {
	cases := []struct {
		in   string
		kind MessageKind
		ok   bool
	}{
		{"text", KindText, true},
		{"texto", KindText, true},
		{"TEXTO", KindText, true},
		{"", KindText, true},
		{"form", KindForm, true},
		{"formulario", KindForm, true},
		{"audio", KindAudio, true},
		{"image", KindImage, true},
		{"imagen", KindImage, true},
		{"video", KindVideo, true},
		{"sticker", 0, false},
		{"documento", 0, false},
	}
	for _, c := range cases {
		kind, ok := ParseMessageKind(c.in)
		if ok != c.ok {
			t.Errorf("ParseMessageKind(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && kind != c.kind {
			t.Errorf("ParseMessageKind(%q) = %v, want %v", c.in, kind, c.kind)
		}
	}
}

func TestLeadPhoneAliases(t *testing.T) {
	l := &Lead{Fields: map[string]string{"phone": "111", "whatsapp": "222"}}
	if got := l.Phone(); got != "111" {
		t.Errorf("Phone() = %q, want phone alias before whatsapp", got)
	}
	l.Fields["telefono"] = "333"
	if got := l.Phone(); got != "333" {
		t.Errorf("Phone() = %q, telefono should win", got)
	}
	empty := &Lead{Fields: map[string]string{}}
	if got := empty.Phone(); got != "" {
		t.Errorf("Phone() = %q, want empty", got)
	}
}
