package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cvintake/internal/config"
)

type stubProvider struct {
	client *http.Client
	err    error
}

func (p *stubProvider) Client(_ context.Context) (*http.Client, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.client != nil {
		return p.client, nil
	}
	return http.DefaultClient, nil
}

func testGoogleConfig() config.GoogleConfig {
	return config.GoogleConfig{
		CalendarID: "primary",
		Timezone:   "Europe/Paris",
		Calendar: config.RemoteCallConfig{
			Timeout:        5 * time.Second,
			CircuitBreaker: config.CircuitBreakerConfig{Enabled: false},
		},
		Mail: config.RemoteCallConfig{
			Timeout:        5 * time.Second,
			CircuitBreaker: config.CircuitBreakerConfig{Enabled: false},
		},
	}
}

func TestCreateConferenceEvent(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "evt-1",
			"conferenceData": {
				"entryPoints": [
					{"entryPointType": "phone", "uri": "tel:+33-1-23-45-67-89"},
					{"entryPointType": "video", "uri": "https://meet.google.com/abc-defg-hij"}
				]
			}
		}`))
	}))
	defer server.Close()

	c := NewCalendar(&stubProvider{}, testGoogleConfig(), nil)
	c.endpoint = server.URL

	start := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	link, err := c.CreateConferenceEvent(context.Background(), "Entretien RH", start, 45)
	if err != nil {
		t.Fatalf("CreateConferenceEvent failed: %v", err)
	}
	if link != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("link = %q, want the video entry point", link)
	}

	if !strings.Contains(gotPath, "/calendars/primary/events") {
		t.Errorf("unexpected request path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "conferenceDataVersion=1") {
		t.Errorf("query %q missing conferenceDataVersion=1", gotQuery)
	}
	if gotBody["summary"] != "Entretien RH" {
		t.Errorf("summary = %v", gotBody["summary"])
	}
	confData, _ := gotBody["conferenceData"].(map[string]any)
	createReq, _ := confData["createRequest"].(map[string]any)
	if createReq == nil || createReq["requestId"] == "" {
		t.Errorf("event body missing conference create request: %v", gotBody)
	}
	solutionKey, _ := createReq["conferenceSolutionKey"].(map[string]any)
	if solutionKey["type"] != conferenceSolution {
		t.Errorf("conference solution = %v, want %q", solutionKey["type"], conferenceSolution)
	}
}

func TestCreateConferenceEventNoVideoEntryPoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "evt-2", "conferenceData": {"entryPoints": [{"entryPointType": "phone", "uri": "tel:+331"}]}}`))
	}))
	defer server.Close()

	c := NewCalendar(&stubProvider{}, testGoogleConfig(), nil)
	c.endpoint = server.URL

	link, err := c.CreateConferenceEvent(context.Background(), "Entretien", time.Now(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link != "" {
		t.Errorf("link = %q, want empty when no video entry point", link)
	}
}

func TestCreateConferenceEventRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 500}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewCalendar(&stubProvider{}, testGoogleConfig(), nil)
	c.endpoint = server.URL

	if _, err := c.CreateConferenceEvent(context.Background(), "Entretien", time.Now(), 30); err == nil {
		t.Error("expected error on provider failure")
	}
}

func TestBusyIntervals(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"start": {"dateTime": "2026-09-14T10:00:00Z"}, "end": {"dateTime": "2026-09-14T10:30:00Z"}},
				{"start": {"date": "2026-09-14"}, "end": {"date": "2026-09-15"}},
				{"start": {"dateTime": "2026-09-14T14:00:00Z"}, "end": {"dateTime": "2026-09-14T15:00:00Z"}}
			]
		}`))
	}))
	defer server.Close()

	c := NewCalendar(&stubProvider{}, testGoogleConfig(), nil)
	c.endpoint = server.URL

	got, err := c.BusyIntervals(context.Background(), "2026-09-14")
	if err != nil {
		t.Fatalf("BusyIntervals failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 timed intervals (all-day skipped), got %d", len(got))
	}
	if got[0].Start.Hour() != 10 || got[0].End.Minute() != 30 {
		t.Errorf("first interval = %+v", got[0])
	}

	for _, want := range []string{
		"timeMin=2026-09-14T00%3A00%3A00Z",
		"timeMax=2026-09-14T23%3A59%3A59Z",
		"singleEvents=true",
		"orderBy=startTime",
	} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestBusyIntervalsRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 503}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewCalendar(&stubProvider{}, testGoogleConfig(), nil)
	c.endpoint = server.URL

	if _, err := c.BusyIntervals(context.Background(), "2026-09-14"); err == nil {
		t.Error("expected error on provider failure")
	}
}

func TestPlaceholderLink(t *testing.T) {
	link := PlaceholderLink()
	if !strings.HasPrefix(link, "https://meet.google.com/") {
		t.Errorf("unexpected placeholder prefix: %q", link)
	}
	suffix := strings.TrimPrefix(link, "https://meet.google.com/")
	if len(suffix) != 8 {
		t.Errorf("placeholder suffix %q should be 8 characters", suffix)
	}

	if PlaceholderLink() == link {
		t.Error("placeholder links should not repeat")
	}
}
