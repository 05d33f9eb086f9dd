package ws

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sitais/devon/internal/session"
)

// testServer bundles the running HTTP server with its collaborators.
type testServer struct {
	*httptest.Server
	store       *session.Store
	broadcaster *Broadcaster
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := session.NewStore()
	broadcaster := NewBroadcaster(store)
	store.SetObserver(broadcaster.BroadcastEvent)
	t.Cleanup(broadcaster.CloseAll)

	srv := NewServer(store, broadcaster, nil)
	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, store: store, broadcaster: broadcaster}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCreateAndListSessions(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/sessions", map[string]interface{}{
		"id": "s1", "name": "fix-bug", "pid": 42,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	var created session.State
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID != "s1" || created.Status != session.StatusRunning {
		t.Errorf("created = %+v", created)
	}

	listResp, err := http.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var list []session.State
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "fix-bug" {
		t.Errorf("list = %+v", list)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/sessions", map[string]interface{}{"pid": 1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/sessions", map[string]interface{}{"id": "dup", "name": "a"})
	resp.Body.Close()
	resp = postJSON(t, ts.URL+"/api/sessions", map[string]interface{}{"id": "dup", "name": "b"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate id status = %d, want 409", resp.StatusCode)
	}
}

func TestAppendAndFetchEvents(t *testing.T) {
	ts := newTestServer(t)
	postJSON(t, ts.URL+"/api/sessions", map[string]interface{}{"id": "s1", "name": "n"}).Body.Close()

	for _, ev := range []map[string]string{
		{"kind": "EnvironmentRequest", "content": "ls"},
		{"kind": "EnvironmentResponse", "content": "a.txt"},
	} {
		resp := postJSON(t, ts.URL+"/api/sessions/s1/events", ev)
		resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("append status = %d, want 202", resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/api/sessions/s1/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var events []session.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Content != "ls" || events[1].Content != "a.txt" {
		t.Errorf("events = %+v", events)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("append did not stamp the event")
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/sessions/nope/events")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET events status = %d, want 404", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/sessions/nope/events", map[string]string{"kind": "Task"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("POST event status = %d, want 404", resp.StatusCode)
	}
}

func TestAppendValidation(t *testing.T) {
	ts := newTestServer(t)
	postJSON(t, ts.URL+"/api/sessions", map[string]interface{}{"id": "s1", "name": "n"}).Body.Close()

	resp := postJSON(t, ts.URL+"/api/sessions/s1/events", map[string]string{"content": "no kind"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("kindless append status = %d, want 400", resp.StatusCode)
	}

	resp, err := http.Post(ts.URL+"/api/sessions/s1/events", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", resp.StatusCode)
	}
}
