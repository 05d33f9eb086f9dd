package sessions

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sitais/devon/internal/client"
)

func list(ids ...string) []client.Session {
	out := make([]client.Session, len(ids))
	for i, id := range ids {
		out[i] = client.Session{ID: id, Name: id, Status: "running"}
	}
	return out
}

func TestCursorFollowsSessionAcrossRefresh(t *testing.T) {
	m := New()
	m.SetSessions(list("a", "b", "c"))
	m.MoveDown()
	m.MoveDown() // on "c"

	m.SetSessions(list("b", "c", "d"))
	selected, ok := m.Selected()
	if !ok || selected.ID != "c" {
		t.Errorf("Selected = %+v, %v; want c", selected, ok)
	}
}

func TestCursorResetsWhenSessionGone(t *testing.T) {
	m := New()
	m.SetSessions(list("a", "b"))
	m.MoveDown() // on "b"

	m.SetSessions(list("x", "y"))
	selected, ok := m.Selected()
	if !ok || selected.ID != "x" {
		t.Errorf("Selected = %+v, want first entry", selected)
	}
}

func TestMoveBounds(t *testing.T) {
	m := New()
	m.SetSessions(list("a", "b"))

	m.MoveUp()
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after MoveUp at top", m.Cursor)
	}
	m.MoveDown()
	m.MoveDown()
	m.MoveDown()
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after MoveDown at bottom", m.Cursor)
	}
}

func TestSelectedOnEmptyList(t *testing.T) {
	m := New()
	if _, ok := m.Selected(); ok {
		t.Error("Selected ok on empty list")
	}
}

func TestNarrowViewKeepsRunesIntact(t *testing.T) {
	m := New()
	m.SetSessions(list("résumé-session"))
	m.Active = "résumé-session"

	// The rows carry multi-byte runes (●, •, é); squeezing the column
	// must never cut one in half.
	for width := 2; width <= 14; width++ {
		v := m.View(width, 10)
		if !utf8.ValidString(v) {
			t.Fatalf("width %d produced invalid UTF-8: %q", width, v)
		}
	}
}

func TestViewMarksActiveSession(t *testing.T) {
	m := New()
	m.SetSessions(list("a", "b"))
	m.Active = "b"

	v := m.View(30, 10)
	if !strings.Contains(v, "●") {
		t.Errorf("view missing active marker:\n%s", v)
	}
	if !strings.Contains(v, "SESSIONS") {
		t.Errorf("view missing header:\n%s", v)
	}
}
