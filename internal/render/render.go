// Package render serializes FileReports and the cross-file index.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvp-joe/apidocs/internal/extractor"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.html
var templateFS embed.FS

// Index lists every generated report in discovery order.
type Index struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Files       []IndexEntry `json:"files" yaml:"files"`
}

// IndexEntry points at one report.
type IndexEntry struct {
	Report  string `json:"report" yaml:"report"`   // slash path relative to the output directory
	Source  string `json:"source" yaml:"source"`   // slash path relative to the project root
	Members int    `json:"members" yaml:"members"` // extracted member count
}

// Renderer writes reports and indexes in one output format.
type Renderer interface {
	// Format is the configuration name of the format ("html", "json", "yaml").
	Format() string
	// Ext is the file extension including the leading dot.
	Ext() string
	RenderReport(w io.Writer, report *extractor.FileReport, reportPath string) error
	RenderIndex(w io.Writer, index *Index) error
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{"html", "json", "yaml"}
}

// New returns the renderer for a format name.
func New(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "html":
		return NewHTMLRenderer()
	case "json":
		return &jsonRenderer{}, nil
	case "yaml", "yml":
		return &yamlRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// ReportPath maps a source path relative to the project root onto the report
// path relative to the output directory: files/<dir>/<name><ext>.
func ReportPath(relSource, ext string) string {
	rel := filepath.ToSlash(relSource)
	rel = strings.TrimSuffix(rel, path.Ext(rel)) + ext
	return path.Join("files", rel)
}

// htmlRenderer renders pages from the embedded templates.
type htmlRenderer struct {
	report *template.Template
	index  *template.Template
}

// NewHTMLRenderer parses the embedded page templates.
func NewHTMLRenderer() (Renderer, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
		// Docs are produced by the markdown converter.
		"trusted": func(s string) template.HTML { return template.HTML(s) },
	}

	report, err := template.New("report.html").Funcs(funcs).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	index, err := template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	return &htmlRenderer{report: report, index: index}, nil
}

func (r *htmlRenderer) Format() string { return "html" }
func (r *htmlRenderer) Ext() string    { return ".html" }

type reportPage struct {
	*extractor.FileReport
	IndexLink string
}

func (r *htmlRenderer) RenderReport(w io.Writer, report *extractor.FileReport, reportPath string) error {
	page := reportPage{FileReport: report, IndexLink: indexLink(reportPath, ".html")}
	return r.report.Execute(w, page)
}

func (r *htmlRenderer) RenderIndex(w io.Writer, index *Index) error {
	return r.index.Execute(w, index)
}

// indexLink is the relative link from a report back to the index.
func indexLink(reportPath, ext string) string {
	depth := strings.Count(path.Clean(reportPath), "/")
	return strings.Repeat("../", depth) + "index" + ext
}

type jsonRenderer struct{}

func (r *jsonRenderer) Format() string { return "json" }
func (r *jsonRenderer) Ext() string    { return ".json" }

func (r *jsonRenderer) RenderReport(w io.Writer, report *extractor.FileReport, reportPath string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (r *jsonRenderer) RenderIndex(w io.Writer, index *Index) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(index)
}

type yamlRenderer struct{}

func (r *yamlRenderer) Format() string { return "yaml" }
func (r *yamlRenderer) Ext() string    { return ".yaml" }

func (r *yamlRenderer) RenderReport(w io.Writer, report *extractor.FileReport, reportPath string) error {
	return encodeYAML(w, report)
}

func (r *yamlRenderer) RenderIndex(w io.Writer, index *Index) error {
	return encodeYAML(w, index)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
