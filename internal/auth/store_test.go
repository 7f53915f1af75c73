package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestStateStoreLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".oauth_state")
	store := NewStateStore(path)

	first, err := store.LoadOrCreate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != StateLength {
		t.Errorf("state length = %d, want %d", len(first), StateLength)
	}
	for _, r := range first {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			t.Errorf("state contains non-alphanumeric rune %q", r)
		}
	}

	// The same value must come back while the file exists.
	second, err := store.LoadOrCreate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("LoadOrCreate returned %q after %q, want stable value", second, first)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if value, err := store.Load(); err != nil || value != "" {
		t.Errorf("Load after Clear = (%q, %v), want empty", value, err)
	}
}

func TestStateStoreClearMissingFile(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "absent"))
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on missing file should be a no-op, got %v", err)
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewTokenStore(path)

	if tok, err := store.Load(); err != nil || tok != nil {
		t.Fatalf("Load on missing file = (%v, %v), want (nil, nil)", tok, err)
	}

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("token file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
	if !got.Expiry.Equal(want.Expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, want.Expiry)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if tok, err := store.Load(); err != nil || tok != nil {
		t.Errorf("Load after Clear = (%v, %v), want (nil, nil)", tok, err)
	}
}

func TestTokenStoreSaveOverwrites(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

	if err := store.Save(&oauth2.Token{AccessToken: "old"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(&oauth2.Token{AccessToken: "new"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.AccessToken != "new" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "new")
	}
}

func TestLoadClientCredentials(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ClientCredentials
		wantErr bool
	}{
		{
			name:    "flat object",
			content: `{"client_id":"id","client_secret":"secret"}`,
			want:    ClientCredentials{ClientID: "id", ClientSecret: "secret"},
		},
		{
			name:    "web download format",
			content: `{"web":{"client_id":"wid","client_secret":"wsecret"}}`,
			want:    ClientCredentials{ClientID: "wid", ClientSecret: "wsecret"},
		},
		{
			name:    "installed download format",
			content: `{"installed":{"client_id":"iid","client_secret":"isecret"}}`,
			want:    ClientCredentials{ClientID: "iid", ClientSecret: "isecret"},
		},
		{
			name:    "missing secret",
			content: `{"client_id":"id"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: `nope`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "credentials.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			got, err := LoadClientCredentials(path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LoadClientCredentials = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadClientCredentialsMissingFile(t *testing.T) {
	if _, err := LoadClientCredentials(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
