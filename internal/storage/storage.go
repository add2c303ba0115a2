package storage

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// SavedCookie is the persisted form of a server session cookie. A cookie
// jar only hands back name and value, so cookies are restored scoped to the
// whole server and live until the server replaces or clears them.
type SavedCookie struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// SessionStore keeps the server session cookies between CLI invocations,
// keyed by server URL.
type SessionStore struct {
	path     string
	sessions map[string][]SavedCookie
	mu       sync.RWMutex
}

// New opens the store at path. A missing file yields an empty store.
func New(path string) (*SessionStore, error) {
	s := &SessionStore{
		path:     path,
		sessions: make(map[string][]SavedCookie),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session store: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.sessions); err != nil {
		return nil, fmt.Errorf("failed to parse session store %s: %w", path, err)
	}
	return s, nil
}

// Restore loads the saved cookies for server into jar.
func (s *SessionStore) Restore(server string, jar http.CookieJar) error {
	u, err := url.Parse(server)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	s.mu.RLock()
	saved := s.sessions[server]
	s.mu.RUnlock()

	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	jar.SetCookies(u, cookies)
	return nil
}

// Capture records the jar's cookies for server and writes the store.
func (s *SessionStore) Capture(server string, jar http.CookieJar) error {
	u, err := url.Parse(server)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	var saved []SavedCookie
	for _, c := range jar.Cookies(u) {
		saved = append(saved, SavedCookie{Name: c.Name, Value: c.Value})
	}

	s.mu.Lock()
	if len(saved) == 0 {
		delete(s.sessions, server)
	} else {
		s.sessions[server] = saved
	}
	s.mu.Unlock()

	return s.save()
}

// Delete forgets the session for server.
func (s *SessionStore) Delete(server string) error {
	s.mu.Lock()
	delete(s.sessions, server)
	s.mu.Unlock()
	return s.save()
}

func (s *SessionStore) save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.sessions)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode session store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session store: %w", err)
	}
	return nil
}
