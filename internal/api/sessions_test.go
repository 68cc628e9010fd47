package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// postJSON fires a request with a JSON body at the router.
func postJSON(t *testing.T, router http.Handler, method, path string, v any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if v != nil {
		if err := json.NewEncoder(&body).Encode(v); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, data []byte) SessionState {
	t.Helper()
	var st SessionState
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode session state: %v", err)
	}
	return st
}

// openSession creates a note with the given content and opens a session on it.
func openSession(t *testing.T, router http.Handler, path, content string) SessionState {
	t.Helper()
	w := postJSON(t, router, http.MethodPost, "/notes", map[string]string{"path": path, "content": content})
	if w.Code != http.StatusCreated {
		t.Fatalf("create note = %d, body = %s", w.Code, w.Body.String())
	}
	w = postJSON(t, router, http.MethodPost, "/sessions", CreateSessionRequest{Path: path})
	if w.Code != http.StatusCreated {
		t.Fatalf("open session = %d, body = %s", w.Code, w.Body.String())
	}
	return decodeState(t, w.Body.Bytes())
}

func TestSessionLifecycle(t *testing.T) {
	_, router := testEnv(t, "")

	st := openSession(t, router, "life.md", "nothing to find here")
	if st.ID == "" {
		t.Fatal("session id is empty")
	}
	if st.Path != "life.md" {
		t.Errorf("path = %q", st.Path)
	}
	if st.CurrentIndex != 0 || len(st.Matches) != 0 {
		t.Errorf("fresh session: current = %d, matches = %d", st.CurrentIndex, len(st.Matches))
	}

	w := postJSON(t, router, http.MethodGet, "/sessions/"+st.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get session = %d", w.Code)
	}

	w = postJSON(t, router, http.MethodDelete, "/sessions/"+st.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete session = %d, want 204", w.Code)
	}
	w = postJSON(t, router, http.MethodGet, "/sessions/"+st.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get closed session = %d, want 404", w.Code)
	}
	// Closing twice is a no-op.
	w = postJSON(t, router, http.MethodDelete, "/sessions/"+st.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("second delete = %d, want 204", w.Code)
	}
}

func TestSessionCreate_MissingNote(t *testing.T) {
	_, router := testEnv(t, "")

	w := postJSON(t, router, http.MethodPost, "/sessions", CreateSessionRequest{Path: "ghost.md"})
	if w.Code != http.StatusNotFound {
		t.Errorf("session on missing note = %d, want 404", w.Code)
	}
}

func TestSessionFind_NavigationWraps(t *testing.T) {
	_, router := testEnv(t, "")
	st := openSession(t, router, "nav.md", "cat cat cat")

	w := postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "cat"})
	if w.Code != http.StatusOK {
		t.Fatalf("find = %d", w.Code)
	}
	got := decodeState(t, w.Body.Bytes())
	if len(got.Matches) != 3 || got.CurrentIndex != 1 {
		t.Fatalf("find: matches = %d, current = %d", len(got.Matches), got.CurrentIndex)
	}
	if got.Matches[1].Start != 4 {
		t.Errorf("second match start = %d, want 4", got.Matches[1].Start)
	}

	step := func(dir string) int {
		w := postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/"+dir, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s = %d", dir, w.Code)
		}
		return decodeState(t, w.Body.Bytes()).CurrentIndex
	}

	if got := step("next"); got != 2 {
		t.Errorf("next = %d, want 2", got)
	}
	if got := step("next"); got != 3 {
		t.Errorf("next = %d, want 3", got)
	}
	if got := step("next"); got != 1 {
		t.Errorf("next wraps to %d, want 1", got)
	}
	if got := step("previous"); got != 3 {
		t.Errorf("previous wraps to %d, want 3", got)
	}
	if got := step("previous"); got != 2 {
		t.Errorf("previous = %d, want 2", got)
	}
}

func TestSessionFind_Options(t *testing.T) {
	_, router := testEnv(t, "")
	st := openSession(t, router, "opts.md", "Go go GO gopher")

	w := postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "go"})
	got := decodeState(t, w.Body.Bytes())
	if len(got.Matches) != 4 {
		t.Errorf("insensitive matches = %d, want 4", len(got.Matches))
	}

	w = postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "go", CaseSensitive: true})
	got = decodeState(t, w.Body.Bytes())
	if len(got.Matches) != 2 {
		t.Errorf("sensitive matches = %d, want 2", len(got.Matches))
	}

	w = postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "go", WholeWord: true})
	got = decodeState(t, w.Body.Bytes())
	if len(got.Matches) != 3 {
		t.Errorf("whole-word matches = %d, want 3", len(got.Matches))
	}
	if !got.Options.WholeWord || got.Options.CaseSensitive {
		t.Errorf("options = %+v", got.Options)
	}
}

func TestSessionFind_BlankQueryClears(t *testing.T) {
	_, router := testEnv(t, "")
	st := openSession(t, router, "blank.md", "cat cat")

	postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "cat"})
	w := postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "   "})
	got := decodeState(t, w.Body.Bytes())
	if len(got.Matches) != 0 || got.CurrentIndex != 0 {
		t.Errorf("blank query: matches = %d, current = %d", len(got.Matches), got.CurrentIndex)
	}
}

func TestSessionReplace_PersistsAndRescans(t *testing.T) {
	_, router := testEnv(t, "")
	st := openSession(t, router, "swap.md", "cat dog cat")

	postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "cat"})
	w := postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/replace", ReplaceRequest{Text: "bird"})
	if w.Code != http.StatusOK {
		t.Fatalf("replace = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ReplaceResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Replaced {
		t.Fatal("replaced = false")
	}
	if len(resp.Session.Matches) != 1 || resp.Session.CurrentIndex != 1 {
		t.Errorf("after replace: matches = %d, current = %d", len(resp.Session.Matches), resp.Session.CurrentIndex)
	}

	// The new content is on disk and served by the notes API.
	req := httptest.NewRequest(http.MethodGet, "/notes/swap.md", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var note NoteDetail
	_ = json.Unmarshal(rec.Body.Bytes(), &note)
	if note.Content != "bird dog cat" {
		t.Errorf("persisted content = %q, want %q", note.Content, "bird dog cat")
	}
}

func TestSessionReplaceAll(t *testing.T) {
	_, router := testEnv(t, "")
	st := openSession(t, router, "all.md", "cat cat cat")

	postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "cat"})
	w := postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/replace-all", ReplaceRequest{Text: "dog"})
	if w.Code != http.StatusOK {
		t.Fatalf("replace-all = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ReplaceAllResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Replaced != 3 {
		t.Errorf("replaced = %d, want 3", resp.Replaced)
	}
	if len(resp.Session.Matches) != 0 || resp.Session.CurrentIndex != 0 {
		t.Errorf("after replace-all: matches = %d, current = %d", len(resp.Session.Matches), resp.Session.CurrentIndex)
	}

	req := httptest.NewRequest(http.MethodGet, "/notes/all.md", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var note NoteDetail
	_ = json.Unmarshal(rec.Body.Bytes(), &note)
	if note.Content != "dog dog dog" {
		t.Errorf("persisted content = %q, want %q", note.Content, "dog dog dog")
	}
}

func TestSessionReplace_NoCurrentMatch(t *testing.T) {
	_, router := testEnv(t, "")
	st := openSession(t, router, "idle.md", "plain text")

	w := postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/replace", ReplaceRequest{Text: "x"})
	if w.Code != http.StatusOK {
		t.Fatalf("replace = %d", w.Code)
	}
	var resp ReplaceResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Replaced {
		t.Error("replaced without a current match")
	}
}

func TestSessionReplace_DeletedNoteKeepsSession(t *testing.T) {
	_, router := testEnv(t, "")
	st := openSession(t, router, "doomed.md", "cat cat cat")
	postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "cat"})

	req := httptest.NewRequest(http.MethodDelete, "/notes/doomed.md", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete note = %d", rec.Code)
	}

	w := postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/replace", ReplaceRequest{Text: "dog"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("replace on deleted note = %d, want 404", w.Code)
	}

	// The session survives the failed persist with its matches intact.
	w = postJSON(t, router, http.MethodGet, "/sessions/"+st.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get session = %d", w.Code)
	}
	got := decodeState(t, w.Body.Bytes())
	if len(got.Matches) != 3 || got.CurrentIndex != 1 {
		t.Errorf("session state after failed replace: matches = %d, current = %d", len(got.Matches), got.CurrentIndex)
	}
}

func TestSessionSegments(t *testing.T) {
	_, router := testEnv(t, "")
	st := openSession(t, router, "seg.md", "a cat and a cat")

	postJSON(t, router, http.MethodPost, "/sessions/"+st.ID+"/find", FindRequest{Query: "cat"})
	w := postJSON(t, router, http.MethodGet, "/sessions/"+st.ID+"/segments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("segments = %d", w.Code)
	}
	var resp SegmentsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)

	var joined string
	var current, plain int
	for _, seg := range resp.Segments {
		joined += seg.Text
		switch seg.Tag {
		case "current_match":
			current++
		case "match":
		case "plain":
			plain++
		default:
			t.Errorf("unexpected tag %q", seg.Tag)
		}
	}
	if joined != "a cat and a cat" {
		t.Errorf("segments reassemble to %q", joined)
	}
	if current != 1 {
		t.Errorf("current_match segments = %d, want 1", current)
	}
	if plain == 0 {
		t.Error("no plain segments")
	}
}

func TestSessionUnknownID(t *testing.T) {
	_, router := testEnv(t, "")

	for _, probe := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/01JUNKJUNKJUNKJUNKJUNKJUNK"},
		{http.MethodPost, "/sessions/01JUNKJUNKJUNKJUNKJUNKJUNK/find"},
		{http.MethodPost, "/sessions/01JUNKJUNKJUNKJUNKJUNKJUNK/next"},
		{http.MethodPost, "/sessions/01JUNKJUNKJUNKJUNKJUNKJUNK/replace"},
		{http.MethodGet, "/sessions/01JUNKJUNKJUNKJUNKJUNKJUNK/segments"},
	} {
		w := postJSON(t, router, probe.method, probe.path, map[string]string{})
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", probe.method, probe.path, w.Code)
		}
	}
}
