package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMailSend(t *testing.T) {
	var gotRaw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Raw string `json:"raw"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotRaw = body.Raw

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "msg-1"}`))
	}))
	defer server.Close()

	m := NewMail(&stubProvider{}, testGoogleConfig(), nil)
	m.endpoint = server.URL

	ok := m.Send(context.Background(), "jean.dupont@example.com", "Invitation à un entretien", "Bonjour,\n\nMerci.")
	if !ok {
		t.Fatal("Send should report success")
	}

	decoded, err := base64.URLEncoding.DecodeString(gotRaw)
	if err != nil {
		t.Fatalf("raw payload is not base64url: %v", err)
	}
	msg := string(decoded)
	if !strings.Contains(msg, "To: jean.dupont@example.com") {
		t.Errorf("message missing To header:\n%s", msg)
	}
	if !strings.Contains(msg, "Subject: ") {
		t.Errorf("message missing Subject header:\n%s", msg)
	}
	if !strings.Contains(msg, "Bonjour,") {
		t.Errorf("message missing body:\n%s", msg)
	}
	if !strings.Contains(msg, "text/plain") {
		t.Errorf("message missing plain-text content type:\n%s", msg)
	}
}

func TestMailSendRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 500}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	m := NewMail(&stubProvider{}, testGoogleConfig(), nil)
	m.endpoint = server.URL

	if m.Send(context.Background(), "a@example.com", "subject", "body") {
		t.Error("Send should report failure when the provider errors")
	}
}

func TestMailSendNoSession(t *testing.T) {
	m := NewMail(&stubProvider{err: context.DeadlineExceeded}, testGoogleConfig(), nil)
	if m.Send(context.Background(), "a@example.com", "subject", "body") {
		t.Error("Send should report failure when no client is available")
	}
}

func TestEncodeMessageSubjectEncoding(t *testing.T) {
	raw := encodeMessage("a@example.com", "Résumé reçu", "corps")
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("not base64url: %v", err)
	}
	// Non-ASCII subjects must be RFC 2047 encoded.
	if !strings.Contains(string(decoded), "=?utf-8?") {
		t.Errorf("subject should be RFC 2047 encoded:\n%s", decoded)
	}
}
