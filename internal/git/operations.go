package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

var (
	// ErrNoRepository indicates that no ancestor directory holds a usable git
	// configuration.
	ErrNoRepository = errors.New("no git repository found")

	// ErrNoRemote indicates that the git configuration has no url for the
	// requested remote.
	ErrNoRemote = errors.New("remote not configured")

	// ErrUnparsableRemote indicates a remote url that does not name an
	// owner/repository pair.
	ErrUnparsableRemote = errors.New("unable to parse remote url")
)

// Operations defines the git metadata lookups the resolver needs.
// This allows mocking the repository layout in tests.
type Operations interface {
	// HasConfig reports whether dir contains a .git/config file.
	HasConfig(dir string) bool

	// RemoteURL returns the url of the named remote configured in
	// dir/.git/config.
	RemoteURL(dir, remote string) (string, error)
}

// gitOps reads .git/config directly; no git binary is required.
type gitOps struct{}

// NewOperations returns the default file-based implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func configPath(dir string) string {
	return filepath.Join(dir, ".git", "config")
}

func (g *gitOps) HasConfig(dir string) bool {
	info, err := os.Stat(configPath(dir))
	return err == nil && !info.IsDir()
}

func (g *gitOps) RemoteURL(dir, remote string) (string, error) {
	cfg, err := ini.Load(configPath(dir))
	if err != nil {
		return "", fmt.Errorf("failed to read git config: %w", err)
	}

	section, err := cfg.GetSection(fmt.Sprintf("remote %q", remote))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoRemote, remote)
	}

	url := section.Key("url").String()
	if url == "" {
		return "", fmt.Errorf("%w: %s", ErrNoRemote, remote)
	}
	return url, nil
}
