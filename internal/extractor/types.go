package extractor

import "github.com/mvp-joe/apidocs/internal/git"

// Method is a `self.<name> = function(...)` definition.
type Method struct {
	Name       string   `json:"name" yaml:"name"`
	Parameters []string `json:"parameters" yaml:"parameters"`
	Line       int      `json:"line" yaml:"line"`
	Docs       string   `json:"docs" yaml:"docs"`
}

// Endpoint is a `self.app.<verb>('<route>', ...)` registration.
type Endpoint struct {
	Route string `json:"route" yaml:"route"`
	Verb  string `json:"method" yaml:"method"`
	Line  int    `json:"line" yaml:"line"`
	Docs  string `json:"docs" yaml:"docs"`
}

// Helper is a template-local `<prefix>Name: function(...)` declaration.
type Helper struct {
	Name       string   `json:"name" yaml:"name"`
	Parameters []string `json:"parameters" yaml:"parameters"`
	Line       int      `json:"line" yaml:"line"`
	Docs       string   `json:"docs" yaml:"docs"`
}

// FileReport is everything extracted from one source file.
// Methods and Helpers are sorted by name, Endpoints by route.
// Repo is nil when the file's repository origin is unknown.
type FileReport struct {
	Name        string      `json:"name" yaml:"name"`
	Path        string      `json:"path" yaml:"path"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Methods     []Method    `json:"methods" yaml:"methods"`
	Endpoints   []Endpoint  `json:"endpoints" yaml:"endpoints"`
	Helpers     []Helper    `json:"locals" yaml:"locals"`
	Repo        *git.Origin `json:"repo,omitempty" yaml:"repo,omitempty"`
	HasErrors   bool        `json:"has_errors,omitempty" yaml:"has_errors,omitempty"`
}

// MemberCount returns the total number of extracted members.
func (r *FileReport) MemberCount() int {
	return len(r.Methods) + len(r.Endpoints) + len(r.Helpers)
}
