package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cvintake/internal/errors"
)

// ClientCredentials is the on-disk shape of the OAuth client file. It
// accepts both a flat object and the provider console's "web"/"installed"
// download format.
type ClientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type clientCredentialsFile struct {
	ClientCredentials
	Web       *ClientCredentials `json:"web"`
	Installed *ClientCredentials `json:"installed"`
}

// LoadClientCredentials reads and parses an OAuth client file.
func LoadClientCredentials(path string) (ClientCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientCredentials{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to read credentials file %s", path), err)
	}

	var f clientCredentialsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return ClientCredentials{}, errors.NewIOError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("credentials file %s is not valid JSON", path), err)
	}
	creds := f.ClientCredentials
	if f.Web != nil {
		creds = *f.Web
	} else if f.Installed != nil {
		creds = *f.Installed
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return ClientCredentials{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("credentials file %s is missing client_id or client_secret", path), nil)
	}
	return creds, nil
}

// CredentialsWatcher watches the OAuth client-credentials file and
// invokes a callback with the freshly parsed credentials after changes,
// debounced so editor save sequences produce one reload.
type CredentialsWatcher struct {
	mu sync.RWMutex

	path        string
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(ClientCredentials)
	logger   *errors.Logger

	running bool
}

// NewCredentialsWatcher creates a watcher over path. onReload receives
// the parsed credentials after every detected change.
func NewCredentialsWatcher(path string, debounceDelay time.Duration, onReload func(ClientCredentials), logger *errors.Logger) *CredentialsWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}
	return &CredentialsWatcher{
		path:          path,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching the credentials file.
func (cw *CredentialsWatcher) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return fmt.Errorf("credentials watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cw.fsWatcher = watcher

	if stat, err := os.Stat(cw.path); err == nil {
		cw.lastModTime = stat.ModTime()
	}

	if err := cw.addWatches(); err != nil {
		if closeErr := watcher.Close(); closeErr != nil && cw.logger != nil {
			cw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return err
	}

	cw.running = true
	go cw.watchLoop()

	if cw.logger != nil {
		cw.logger.Info("Credentials file watcher started",
			"file", cw.path,
			"debounce_delay", cw.debounceDelay)
	}
	return nil
}

// addWatches registers the file and its directory so atomic writes
// (write to temp, rename over) are still observed.
func (cw *CredentialsWatcher) addWatches() error {
	if err := cw.fsWatcher.Add(cw.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to watch file %s: %w", cw.path, err)
	}
	dir := filepath.Dir(cw.path)
	if err := cw.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	return nil
}

// Stop stops the watcher.
func (cw *CredentialsWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}

	close(cw.stopChan)
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	if err := cw.fsWatcher.Close(); err != nil {
		if cw.logger != nil {
			cw.logger.LogError(err, "Failed to close file system watcher")
		}
		return err
	}
	cw.running = false

	if cw.logger != nil {
		cw.logger.Info("Credentials file watcher stopped")
	}
	return nil
}

// IsRunning reports whether the watcher is active.
func (cw *CredentialsWatcher) IsRunning() bool {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.running
}

func (cw *CredentialsWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.fsWatcher.Events:
			if !ok {
				return
			}
			if cw.shouldProcessEvent(event) {
				cw.scheduleReload()
			}

		case err, ok := <-cw.fsWatcher.Errors:
			if !ok {
				return
			}
			if cw.logger != nil {
				cw.logger.LogError(err, "File watcher error")
			}

		case <-cw.reloadChan:
			if cw.hasFileChanged() {
				cw.reload()
			}

		case <-cw.stopChan:
			return
		}
	}
}

func (cw *CredentialsWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != cw.path && filepath.Base(event.Name) != filepath.Base(cw.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (cw *CredentialsWatcher) hasFileChanged() bool {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	stat, err := os.Stat(cw.path)
	if err != nil {
		return false
	}
	if stat.ModTime().After(cw.lastModTime) {
		cw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

func (cw *CredentialsWatcher) reload() {
	creds, err := LoadClientCredentials(cw.path)
	if err != nil {
		if cw.logger != nil {
			cw.logger.LogError(err, "Credentials file changed but could not be parsed")
		}
		return
	}
	if cw.logger != nil {
		cw.logger.Info("Credentials file changed, applying new OAuth client", "file", cw.path)
	}
	cw.onReload(creds)
}

func (cw *CredentialsWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debounceDelay, func() {
		select {
		case cw.reloadChan <- struct{}{}:
		default:
		}
	})
}
