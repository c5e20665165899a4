package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/avetisov/jobradar/internal/profile"
)

const remoteOKResponse = `[
  {"id": "0", "legal": "API terms of service"},
  {"id": 123, "position": "AI Engineer", "company": "Acme", "url": "/remote-jobs/123",
   "description": "<p>We use <b>python</b> and pytorch</p>", "date": "2025-05-01"},
  {"position": "Broken Record", "company": "NoID"},
  {"id": "456", "position": "ML Engineer", "company": "Globex", "url": "/remote-jobs/456",
   "description": "tensorflow role", "date": "2025-05-02"}
]`

func testProfile() *profile.Profile {
	return &profile.Profile{
		TargetRoles:      []string{"ai engineer"},
		Skills:           []string{"python", "pytorch"},
		ExperienceLevel:  "junior",
		RemotePreference: true,
	}
}

func newTestRemoteOK(t *testing.T, serverURL string, live bool) *RemoteOK {
	t.Helper()
	adapter := NewRemoteOK(NewClient(zap.NewNop()), time.Millisecond, live, zap.NewNop())
	if serverURL != "" {
		adapter.APIURL = serverURL
	}
	return adapter
}

func TestRemoteOKFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tags") != "ai engineer" {
			t.Errorf("expected tags=ai engineer, got %q", r.URL.Query().Get("tags"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(remoteOKResponse))
	}))
	defer server.Close()

	adapter := newTestRemoteOK(t, server.URL, true)

	items, outcome := adapter.Fetch(context.Background(), testProfile())

	if outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %s", outcome)
	}
	// The sentinel metadata entry and the record without an id are skipped.
	if len(items) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(items))
	}

	first := items[0]
	if first.Title != "AI Engineer" || first.Company != "Acme" {
		t.Fatalf("unexpected first listing: %+v", first)
	}
	if first.URL != "https://remoteok.com/remote-jobs/123" {
		t.Fatalf("unexpected url: %q", first.URL)
	}
	if strings.Contains(first.Description, "<") {
		t.Fatalf("description still contains html: %q", first.Description)
	}
	if first.Location != "Remote" {
		t.Fatalf("expected Remote location, got %q", first.Location)
	}
	if first.Platform != PlatformRemoteOK {
		t.Fatalf("unexpected platform: %q", first.Platform)
	}
	if first.Stub {
		t.Fatal("scraped listing must not be a stub")
	}

	found := false
	for _, skill := range first.RequiredSkills {
		if skill == "python" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected python in extracted skills, got %v", first.RequiredSkills)
	}
}

func TestRemoteOKBlockedFallsBackToSearchLinks(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := newTestRemoteOK(t, server.URL, true)

	p := testProfile()
	p.TargetRoles = []string{"ai engineer", "ml engineer"}

	items, outcome := adapter.Fetch(context.Background(), p)

	if outcome != OutcomeFallbackUsed {
		t.Fatalf("expected fallback_used, got %s", outcome)
	}
	// One stub per configured role.
	if len(items) != 2 {
		t.Fatalf("expected 2 stubs, got %d", len(items))
	}
	// Blocked once means blocked for the rest of the run.
	if requests != 1 {
		t.Fatalf("expected a single request after the block, got %d", requests)
	}
	for _, item := range items {
		if !item.Stub {
			t.Fatalf("expected a stub, got %+v", item)
		}
		if !strings.HasPrefix(item.URL, "https://remoteok.com/remote-") {
			t.Fatalf("unexpected fallback url: %q", item.URL)
		}
	}
}

func TestRemoteOKRoleFailureIsIsolated(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(remoteOKResponse))
	}))
	defer server.Close()

	adapter := newTestRemoteOK(t, server.URL, true)

	p := testProfile()
	p.TargetRoles = []string{"ai engineer", "ml engineer"}

	items, outcome := adapter.Fetch(context.Background(), p)

	if outcome != OutcomePartialSuccess {
		t.Fatalf("expected partial_success, got %s", outcome)
	}
	if len(items) != 2 {
		t.Fatalf("expected listings from the surviving role, got %d", len(items))
	}
	if requests != 2 {
		t.Fatalf("one failing role must not stop the others, got %d requests", requests)
	}
}

func TestRemoteOKOfflineGeneratesLinks(t *testing.T) {
	t.Parallel()

	adapter := newTestRemoteOK(t, "", false)

	items, outcome := adapter.Fetch(context.Background(), testProfile())

	if outcome != OutcomeFallbackUsed {
		t.Fatalf("expected fallback_used, got %s", outcome)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 stub, got %d", len(items))
	}
	if items[0].Company != "RemoteOK Search" {
		t.Fatalf("unexpected sentinel company: %q", items[0].Company)
	}
}

func TestRemoteOKTotalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := newTestRemoteOK(t, server.URL, true)

	items, outcome := adapter.Fetch(context.Background(), testProfile())

	if outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
	if len(items) != 0 {
		t.Fatalf("expected no listings, got %d", len(items))
	}
}
