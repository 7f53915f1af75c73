// Package auth manages the single-operator OAuth 2.0 session: the
// anti-forgery state round-trip, the token exchange, lazy refresh and
// the persisted credential files.
package auth

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"cvintake/internal/errors"
)

// State is the session's position in the sign-in lifecycle.
type State string

const (
	StateNoSession       State = "no_session"
	StatePendingRedirect State = "pending_redirect"
	StateAuthenticated   State = "authenticated"
	StateExpired         State = "expired"
)

// Scopes requested from the provider.
var Scopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/gmail.send",
}

// Config carries the OAuth client settings and file locations.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// AuthURL and TokenURL override the provider endpoints; both empty
	// means Google.
	AuthURL  string
	TokenURL string

	TokenFile string
	StateFile string
}

// Session is the OAuth session state machine. All operations are safe
// for the single-operator deployment this serves; the mutex only guards
// against overlapping HTTP handlers.
type Session struct {
	mu      sync.Mutex
	oauth   *oauth2.Config
	tokens  *TokenStore
	states  *StateStore
	logger  *errors.Logger
	current State
}

// NewSession builds a Session from cfg. The logger may be nil.
func NewSession(cfg Config, logger *errors.Logger) *Session {
	endpoint := google.Endpoint
	if cfg.AuthURL != "" || cfg.TokenURL != "" {
		endpoint = oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL}
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = Scopes
	}

	return &Session{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		tokens:  NewTokenStore(cfg.TokenFile),
		states:  NewStateStore(cfg.StateFile),
		logger:  logger,
		current: StateNoSession,
	}
}

// SetClient swaps the OAuth client credentials, e.g. after the
// credentials file changed on disk.
func (s *Session) SetClient(clientID, clientSecret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oauth.ClientID = clientID
	s.oauth.ClientSecret = clientSecret
}

// Status evaluates the session lazily: it inspects the persisted token,
// refreshes an expired one when a refresh token is available, and
// reports the resulting state. A failed refresh discards the cached
// token and falls back to NoSession.
func (s *Session) Status(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluate(ctx)
}

// evaluate must be called with the mutex held.
func (s *Session) evaluate(ctx context.Context) State {
	tok, err := s.tokens.Load()
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to load cached token", "error", err)
		}
		s.current = StateNoSession
		return s.current
	}
	if tok == nil {
		if s.current != StatePendingRedirect {
			s.current = StateNoSession
		}
		return s.current
	}
	if tok.Valid() {
		s.current = StateAuthenticated
		return s.current
	}

	// Expired; try a silent refresh when possible.
	s.current = StateExpired
	if tok.RefreshToken == "" {
		s.discardToken()
		return s.current
	}
	fresh, err := s.oauth.TokenSource(ctx, tok).Token()
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("token refresh failed, sign-in required", "error", err)
		}
		s.discardToken()
		return s.current
	}
	if err := s.tokens.Save(fresh); err != nil && s.logger != nil {
		s.logger.Warn("failed to persist refreshed token", "error", err)
	}
	s.current = StateAuthenticated
	return s.current
}

func (s *Session) discardToken() {
	if err := s.tokens.Clear(); err != nil && s.logger != nil {
		s.logger.Warn("failed to discard cached token", "error", err)
	}
	s.current = StateNoSession
}

// AuthURL returns the provider authorization URL embedding the
// persisted anti-forgery state, creating one when needed, and moves the
// session to PendingRedirect.
func (s *Session) AuthURL() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.states.LoadOrCreate()
	if err != nil {
		return "", err
	}
	url := s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
	s.current = StatePendingRedirect
	return url, nil
}

// CompleteExchange finishes the redirect round-trip: it verifies the
// received state against the persisted one, exchanges the authorization
// code for a token, persists it and deletes the state file. A state
// mismatch or a failed exchange returns the session to NoSession.
func (s *Session) CompleteExchange(ctx context.Context, code, receivedState string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expected, err := s.states.Load()
	if err != nil {
		return err
	}
	if expected == "" || receivedState != expected {
		s.current = StateNoSession
		return errors.NewAuthError(errors.ErrCodeStateMismatch,
			"anti-forgery state mismatch, restart sign-in", nil)
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.current = StateNoSession
		return errors.NewAuthError(errors.ErrCodeTokenExchange,
			"authorization code exchange failed", err)
	}
	if err := s.tokens.Save(tok); err != nil {
		s.current = StateNoSession
		return err
	}
	if err := s.states.Clear(); err != nil && s.logger != nil {
		s.logger.Warn("failed to remove state file", "error", err)
	}
	s.current = StateAuthenticated
	return nil
}

// Logout deletes the persisted token and state files and returns the
// session to NoSession.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		return err
	}
	if err := s.states.Clear(); err != nil {
		return err
	}
	s.current = StateNoSession
	return nil
}

// Client returns an HTTP client whose requests carry the session's
// credentials; refreshed tokens are written back to the token file. It
// fails when the session is not authenticated.
func (s *Session) Client(ctx context.Context) (*http.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.evaluate(ctx) != StateAuthenticated {
		return nil, errors.NewAuthError(errors.ErrCodeNotAuthenticated,
			"no authenticated session, sign-in required", nil)
	}
	tok, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	src := &persistingTokenSource{
		src:    s.oauth.TokenSource(ctx, tok),
		tokens: s.tokens,
		last:   tok.AccessToken,
	}
	return oauth2.NewClient(ctx, src), nil
}

// persistingTokenSource writes tokens back to the store whenever the
// wrapped source hands out a new access token.
type persistingTokenSource struct {
	mu     sync.Mutex
	src    oauth2.TokenSource
	tokens *TokenStore
	last   string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := p.tokens.Save(tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}
