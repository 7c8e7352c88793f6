package template

import (
	"testing"

	"github.com/leadflow/sequencer-backend/internal/model"
)

func lead(fields map[string]string) *model.Lead {
	return &model.Lead{ID: "l1", Fields: fields}
}

func TestRenderFirstNameOnly(t *testing.T) {
	got := Render("Hola {{nombre}}", lead(map[string]string{"nombre": "Juan Perez"}))
	if got != "Hola Juan" {
		t.Errorf("got %q, want %q", got, "Hola Juan")
	}
}

func TestRenderMissingField(t *testing.T) {
	got := Render("{{missing}}", lead(map[string]string{}))
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestRenderArbitraryFields(t *testing.T) {
	l := lead(map[string]string{
		"nombre":   "Ana Maria Lopez",
		"ciudad":   "Monterrey",
		"producto": "plan anual",
	})
	got := Render("{{nombre}}, tu {{producto}} en {{ciudad}} esta listo", l)
	want := "Ana, tu plan anual en Monterrey esta listo"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderNoRecursion(t *testing.T) {
	l := lead(map[string]string{"a": "{{b}}", "b": "x"})
	if got := Render("{{a}}", l); got != "{{b}}" {
		t.Errorf("got %q, want literal {{b}}", got)
	}
}

func TestRenderLeavesNonPlaceholderBraces(t *testing.T) {
	l := lead(map[string]string{"nombre": "Luis"})
	got := Render("{{nombre}} {not a placeholder} {{con espacio}}", l)
	want := "Luis {not a placeholder} {{con espacio}}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFirstName(t *testing.T) {
	cases := map[string]string{
		"Juan Perez":   "Juan",
		"  Juan  ":     "Juan",
		"":             "",
		"Maria":        "Maria",
		"Jose L. Ruiz": "Jose",
	}
	for in, want := range cases {
		if got := FirstName(in); got != want {
			t.Errorf("FirstName(%q) = %q, want %q", in, got, want)
		}
	}
}
