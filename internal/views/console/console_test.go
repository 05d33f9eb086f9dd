package console

import (
	"strings"
	"testing"

	"github.com/sitais/devon/internal/client"
)

func TestSetEventsRedraws(t *testing.T) {
	m := New()
	m.SetSize(40, 5)
	m.SetEvents([]client.Event{
		{Kind: client.KindEnvironmentRequest, Content: "ls"},
		{Kind: client.KindEnvironmentResponse, Content: "a.txt"},
	})

	v := m.View()
	if !strings.Contains(v, "> ls") {
		t.Errorf("view missing command line:\n%s", v)
	}
	if !strings.Contains(v, "a.txt") {
		t.Errorf("view missing output line:\n%s", v)
	}
}

func TestRedrawIsIdempotent(t *testing.T) {
	m := New()
	m.SetSize(40, 5)
	events := []client.Event{{Kind: client.KindEnvironmentRequest, Content: "pwd"}}

	m.SetEvents(events)
	first := m.View()
	m.SetEvents(events)
	second := m.View()
	if first != second {
		t.Error("re-rendering the same events changed the view")
	}
}

func TestEventsBeforeSizeAreDrawnOnceSized(t *testing.T) {
	m := New()
	m.SetEvents([]client.Event{{Kind: client.KindEnvironmentRequest, Content: "ls"}})

	if v := m.View(); v != "" {
		t.Errorf("unsized view = %q, want empty", v)
	}

	m.SetSize(40, 5)
	if v := m.View(); !strings.Contains(v, "> ls") {
		t.Errorf("view after sizing missing content:\n%s", v)
	}
}

func TestClearEmptiesSurface(t *testing.T) {
	m := New()
	m.SetSize(40, 5)
	m.SetEvents([]client.Event{{Kind: client.KindEnvironmentRequest, Content: "ls"}})
	m.Clear()

	if v := m.View(); strings.Contains(v, "> ls") {
		t.Errorf("cleared surface still shows content:\n%s", v)
	}
}
