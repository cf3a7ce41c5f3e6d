// Package git resolves the repository origin of source files by walking up
// to the nearest .git/config.
package git

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/maypok86/otter"
)

// Origin identifies where a source file lives in a hosted repository.
type Origin struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path" yaml:"path"` // slash-separated, relative to the repository root
	URL   string `json:"url" yaml:"url"`   // remote url as configured
}

// FileURL links to a line of the file on GitHub.
func (o *Origin) FileURL(line int) string {
	if o == nil {
		return ""
	}
	u := fmt.Sprintf("https://github.com/%s/%s/blob/HEAD/%s", o.Owner, o.Name, o.Path)
	if line > 0 {
		u += fmt.Sprintf("#L%d", line)
	}
	return u
}

var (
	hasScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
	// scheme://host[:port]/owner/repo
	schemeRemote = regexp.MustCompile(`://[^/]+/([A-Za-z0-9_\-]+)/([A-Za-z0-9_\-]+)`)
	// user@host:owner/repo
	scpRemote = regexp.MustCompile(`:([A-Za-z0-9_\-]+)/([A-Za-z0-9_\-]+)`)
)

// ParseRemote extracts the owner and repository name from a remote url.
func ParseRemote(url string) (owner, name string, err error) {
	var m []string
	if hasScheme.MatchString(url) {
		m = schemeRemote.FindStringSubmatch(url)
	} else {
		m = scpRemote.FindStringSubmatch(url)
	}
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrUnparsableRemote, url)
	}
	return m[1], m[2], nil
}

// repoLookup is the memoised answer for one directory.
type repoLookup struct {
	found bool
	root  string
	owner string
	name  string
	url   string
}

// Resolver finds the repository origin of files. Lookups are memoised per
// directory, so files sharing a tree only walk it once. Safe for concurrent
// use.
type Resolver struct {
	ops   Operations
	cache otter.Cache[string, repoLookup]
}

// NewResolver creates a resolver backed by ops. A nil ops uses the
// file-based implementation.
func NewResolver(ops Operations) (*Resolver, error) {
	if ops == nil {
		ops = NewOperations()
	}
	cache, err := otter.MustBuilder[string, repoLookup](10_000).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create origin cache: %w", err)
	}
	return &Resolver{ops: ops, cache: cache}, nil
}

// Reset forgets every memoised lookup, so repositories created or
// reconfigured since the last lookup are seen.
func (r *Resolver) Reset() {
	r.cache.Clear()
}

// Close releases the lookup cache.
func (r *Resolver) Close() {
	r.cache.Close()
}

// Resolve walks from the file's directory towards the filesystem root and
// returns the origin of the first repository whose "origin" remote parses.
// Directories with an unreadable config, no origin, or an unparsable url are
// skipped. Returns ErrNoRepository when the walk is exhausted.
func (r *Resolver) Resolve(path string) (*Origin, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	lookup := r.lookup(filepath.Dir(abs))
	if !lookup.found {
		return nil, fmt.Errorf("%w for %s", ErrNoRepository, path)
	}

	rel, err := filepath.Rel(lookup.root, abs)
	if err != nil {
		return nil, fmt.Errorf("failed to relativize %s: %w", path, err)
	}

	return &Origin{
		Owner: lookup.owner,
		Name:  lookup.name,
		Path:  filepath.ToSlash(rel),
		URL:   lookup.url,
	}, nil
}

// ResolveOrUnknown is Resolve with every failure mapped to a nil origin.
func (r *Resolver) ResolveOrUnknown(path string) *Origin {
	origin, err := r.Resolve(path)
	if err != nil {
		return nil
	}
	return origin
}

func (r *Resolver) lookup(start string) repoLookup {
	var visited []string
	result := repoLookup{}

	dir := start
	for {
		if cached, ok := r.cache.Get(dir); ok {
			result = cached
			break
		}
		visited = append(visited, dir)

		if found, ok := r.probe(dir); ok {
			result = found
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	for _, d := range visited {
		r.cache.Set(d, result)
	}
	return result
}

func (r *Resolver) probe(dir string) (repoLookup, bool) {
	if !r.ops.HasConfig(dir) {
		return repoLookup{}, false
	}
	url, err := r.ops.RemoteURL(dir, "origin")
	if err != nil {
		return repoLookup{}, false
	}
	owner, name, err := ParseRemote(url)
	if err != nil {
		return repoLookup{}, false
	}
	return repoLookup{found: true, root: dir, owner: owner, name: name, url: url}, true
}
