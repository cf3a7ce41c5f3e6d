// Package search provides in-memory full-text search over extracted API
// members.
package search

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/mvp-joe/apidocs/internal/extractor"
)

// Member kinds stored in the "kind" field.
const (
	KindMethod   = "method"
	KindEndpoint = "endpoint"
	KindHelper   = "helper"
)

// DefaultLimit is used when Search is called with a non-positive limit.
const DefaultLimit = 15

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Result is a single matched member.
type Result struct {
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	Verb       string   `json:"verb,omitempty"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// Index is a memory-only bleve index with one document per member.
type Index struct {
	index bleve.Index
	size  int
	mu    sync.RWMutex
}

// NewIndex indexes every member of reports.
func NewIndex(ctx context.Context, reports []*extractor.FileReport) (*Index, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	n, err := indexReports(ctx, index, reports)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to index members: %w", err)
	}

	return &Index{index: index, size: n}, nil
}

// buildMapping indexes name and docs for text search and keeps kind and verb
// as exact keywords so "kind:endpoint" style filters work.
func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	text := bleve.NewTextFieldMapping()
	text.Analyzer = "standard"
	text.Store = true
	text.IncludeTermVectors = true

	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"
	keyword.Store = true

	line := bleve.NewNumericFieldMapping()
	line.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("kind", keyword)
	docMapping.AddFieldMappingsAt("verb", keyword)
	docMapping.AddFieldMappingsAt("name", text)
	docMapping.AddFieldMappingsAt("file", text)
	docMapping.AddFieldMappingsAt("docs", text)
	docMapping.AddFieldMappingsAt("line", line)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

type document struct {
	id     string
	fields map[string]interface{}
}

// documents maps a report's members to index documents. Ids carry the
// member's position in the report, so members sharing a route, verb or line
// never overwrite each other.
func documents(report *extractor.FileReport) []document {
	var docs []document
	add := func(kind, name, verb string, line int, body string) {
		docs = append(docs, document{
			id: fmt.Sprintf("%s#%d:%s:%s:%s:%d", report.Path, len(docs), kind, verb, name, line),
			fields: map[string]interface{}{
				"kind": kind,
				"name": name,
				"verb": verb,
				"file": report.Path,
				"line": line,
				"docs": StripTags(body),
			},
		})
	}

	for _, m := range report.Methods {
		add(KindMethod, m.Name, "", m.Line, m.Docs)
	}
	for _, e := range report.Endpoints {
		add(KindEndpoint, e.Route, e.Verb, e.Line, e.Docs)
	}
	for _, h := range report.Helpers {
		add(KindHelper, h.Name, "", h.Line, h.Docs)
	}
	return docs
}

func indexReports(ctx context.Context, index bleve.Index, reports []*extractor.FileReport) (int, error) {
	const batchSize = 1000

	count := 0
	batch := index.NewBatch()
	for _, report := range reports {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		for _, doc := range documents(report) {
			if err := batch.Index(doc.id, doc.fields); err != nil {
				return 0, fmt.Errorf("failed to add %s to batch: %w", doc.id, err)
			}
			count++

			if batch.Size() >= batchSize {
				if err := index.Batch(batch); err != nil {
					return 0, fmt.Errorf("failed to execute batch: %w", err)
				}
				batch = index.NewBatch()
			}
		}
	}

	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return 0, fmt.Errorf("failed to execute final batch: %w", err)
		}
	}
	return count, nil
}

// Len returns the number of indexed members.
func (ix *Index) Len() int {
	return ix.size
}

// Search runs a bleve query-string query, e.g. "page", "kind:endpoint move",
// or "+name:insert". Results are ordered by score.
func (ix *Index) Search(ctx context.Context, queryStr string, limit int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	request := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(queryStr), limit, 0, false)
	style := "html"
	request.Highlight = bleve.NewHighlight()
	request.Highlight.Style = &style
	request.Highlight.Fields = []string{"docs"}
	request.Fields = []string{"kind", "name", "verb", "file", "line"}

	found, err := ix.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	results := make([]Result, 0, len(found.Hits))
	for _, hit := range found.Hits {
		r := Result{Score: hit.Score}
		r.Kind, _ = hit.Fields["kind"].(string)
		r.Name, _ = hit.Fields["name"].(string)
		r.Verb, _ = hit.Fields["verb"].(string)
		r.File, _ = hit.Fields["file"].(string)
		if line, ok := hit.Fields["line"].(float64); ok {
			r.Line = int(line)
		}
		for _, fragments := range hit.Fragments {
			r.Highlights = append(r.Highlights, fragments...)
		}
		results = append(results, r)
	}
	return results, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.index != nil {
		err := ix.index.Close()
		ix.index = nil
		return err
	}
	return nil
}

// StripTags reduces rendered documentation to searchable plain text.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}
