// Package docs holds the embedded instruction documents that drive scaffold
// generation. The setup documents form a fixed, ordered sequence; patterns
// are an unordered catalog installed on demand.
package docs

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed *.md patterns/*.md
var content embed.FS

// Document is a single instruction document from the embedded corpus.
type Document struct {
	// Name is the stable identifier used on the command line, e.g.
	// "01-monorepo" or "auth".
	Name string
	// Title is the document's top-level heading.
	Title string
	// Path is the document's location inside the corpus.
	Path string
	// Body is the full markdown text.
	Body string
}

// setupOrder fixes the execution order of the setup sequence. The runner
// executes these in slice order regardless of document content.
var setupOrder = []string{
	"01-monorepo.md",
	"02-backend.md",
	"03-frontend.md",
	"04-shared-packages.md",
	"05-tooling.md",
}

var patternOrder = []string{
	"patterns/auth.md",
	"patterns/crud.md",
	"patterns/testing.md",
}

var (
	shared   string
	setup    []Document
	patterns []Document
)

func init() {
	shared = mustRead("shared.md")

	for _, path := range setupOrder {
		setup = append(setup, mustDocument(path))
	}
	for _, path := range patternOrder {
		patterns = append(patterns, mustDocument(path))
	}
}

func mustRead(path string) string {
	data, err := content.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("embedded document missing: %s: %v", path, err))
	}
	return string(data)
}

func mustDocument(path string) Document {
	body := mustRead(path)

	name := path
	name = strings.TrimPrefix(name, "patterns/")
	name = strings.TrimSuffix(name, ".md")

	return Document{
		Name:  name,
		Title: firstHeading(body),
		Path:  path,
		Body:  body,
	}
}

// firstHeading returns the text of the first markdown H1, or an empty string
// if the document has none.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// Shared returns the shared preamble prepended to every step prompt.
func Shared() string {
	return shared
}

// SetupSteps returns the setup documents in their fixed execution order.
func SetupSteps() []Document {
	out := make([]Document, len(setup))
	copy(out, setup)
	return out
}

// Patterns returns the pattern documents.
func Patterns() []Document {
	out := make([]Document, len(patterns))
	copy(out, patterns)
	return out
}

// All returns every document in the corpus, setup steps first.
func All() []Document {
	out := make([]Document, 0, len(setup)+len(patterns))
	out = append(out, SetupSteps()...)
	out = append(out, Patterns()...)
	return out
}

// Lookup finds a document by name across the whole corpus.
func Lookup(name string) (Document, bool) {
	for _, doc := range All() {
		if doc.Name == name {
			return doc, true
		}
	}
	return Document{}, false
}
