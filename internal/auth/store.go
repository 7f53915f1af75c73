package auth

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"

	"cvintake/internal/errors"
)

// TokenStore persists OAuth credentials as a single JSON file,
// overwritten on every exchange or refresh.
type TokenStore struct {
	path string
}

// NewTokenStore returns a store backed by the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the persisted token. A missing file is not an error; it
// returns (nil, nil).
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to read token file %s", s.path), err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("token file %s is not valid JSON", s.path), err)
	}
	return &tok, nil
}

// Save overwrites the token file with tok.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeEncodingFailed, "failed to encode token", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("failed to create token directory %s", dir), err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to write token file %s", s.path), err)
	}
	return nil
}

// Clear removes the token file. Missing files are ignored.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to remove token file %s", s.path), err)
	}
	return nil
}

// StateLength is the size of a generated anti-forgery state value.
const StateLength = 16

const stateAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// StateStore persists the anti-forgery state used during the OAuth
// redirect round-trip. One active value at a time.
type StateStore struct {
	path string
}

// NewStateStore returns a store backed by the given file path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// LoadOrCreate returns the persisted state value, generating and
// persisting a fresh one when none exists.
func (s *StateStore) LoadOrCreate() (string, error) {
	if value, err := s.Load(); err == nil && value != "" {
		return value, nil
	} else if err != nil {
		return "", err
	}

	value, err := randomState(StateLength)
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeStateGeneration, "failed to generate anti-forgery state", err)
	}
	if err := os.WriteFile(s.path, []byte(value), 0o600); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to write state file %s", s.path), err)
	}
	return value, nil
}

// Load returns the persisted state value, or "" when no file exists.
func (s *StateStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to read state file %s", s.path), err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the state file. Missing files are ignored.
func (s *StateStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to remove state file %s", s.path), err)
	}
	return nil
}

func randomState(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = stateAlphabet[int(b)%len(stateAlphabet)]
	}
	return string(buf), nil
}
