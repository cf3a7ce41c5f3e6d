package generator

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// rooted is the pattern with a leading "**/" removed, so that
	// "**/node_modules/**" also matches "node_modules/x.js".
	rooted glob.Glob
}

// FileDiscovery finds source files with include and ignore glob patterns.
type FileDiscovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, includePatterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir: rootDir,
	}

	var err error
	if fd.includePatterns, err = compilePatterns(includePatterns); err != nil {
		return nil, err
	}
	if fd.ignorePatterns, err = compilePatterns(ignorePatterns); err != nil {
		return nil, err
	}
	return fd, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	var compiled []compiledPattern
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if cp.rooted, err = glob.Compile(rest, '/'); err != nil {
				return nil, err
			}
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// DiscoverFiles walks the directory tree and returns matching files in
// lexical walk order. Ignored directories are not descended into.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(fd.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if fd.ShouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.ShouldIgnore(relPath) {
			return nil
		}

		if fd.Matches(relPath) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// Matches reports whether a slash-separated relative path is included.
func (fd *FileDiscovery) Matches(relPath string) bool {
	return fd.matchesAnyPattern(relPath, fd.includePatterns)
}

// ShouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) ShouldIgnore(relPath string) bool {
	// Always ignore version control metadata
	if relPath == ".git" || strings.HasPrefix(relPath, ".git/") {
		return true
	}

	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "node_modules" should match pattern "node_modules/**"
	pathWithSuffix := relPath + "/**"
	return fd.matchesAnyPattern(pathWithSuffix, fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.rooted != nil && cp.rooted.Match(path) {
			return true
		}
	}
	return false
}
