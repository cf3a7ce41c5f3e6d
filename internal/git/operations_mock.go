package git

import (
	"path/filepath"
	"sync"
)

// MockGitOps is a mock implementation of Operations for testing.
// Remotes maps a repository root to its origin url.
type MockGitOps struct {
	mu      sync.Mutex
	Remotes map[string]string
	Err     error
	Calls   int
}

// NewMockGitOps creates a mock with no repositories.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{Remotes: map[string]string{}}
}

// AddRepo registers a repository root with the given origin url.
func (m *MockGitOps) AddRepo(root, url string) *MockGitOps {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Remotes[filepath.Clean(root)] = url
	return m
}

func (m *MockGitOps) HasConfig(dir string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Remotes[filepath.Clean(dir)]
	return ok
}

func (m *MockGitOps) RemoteURL(dir, remote string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	url, ok := m.Remotes[filepath.Clean(dir)]
	if !ok || url == "" {
		return "", ErrNoRemote
	}
	return url, nil
}
