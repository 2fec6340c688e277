package document

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/mempirate/advisor/util"
)

// Type is the kind of page a document was made from.
type Type = string

const frontMatterDelimiter = "---\n"

type Metadata struct {
	Title         string `yaml:"title"`
	Source        string `yaml:"source"`
	Type          Type   `yaml:"type"`
	ProcessedTime string `yaml:"processedTime"`
}

// Document is an archived page: markdown content with YAML front matter.
type Document struct {
	// Name is the file name without extension. Falls back to the title when empty.
	Name string
	// The markdown content of the scraped page.
	Content string
	// Metadata about the document.
	Metadata Metadata
}

func (d *Document) HasTitle() bool {
	return d.Metadata.Title != ""
}

// FindTitle returns the metadata title, or the first level 1 heading of the content.
func (d *Document) FindTitle() string {
	// If the title is already set, return it.
	if d.Metadata.Title != "" {
		return d.Metadata.Title
	}

	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	content := []byte(d.Content)
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if heading, ok := n.(*ast.Heading); ok && entering && heading.Level == 1 {
			var titleBuilder strings.Builder
			for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
				if text, ok := child.(*ast.Text); ok {
					titleBuilder.Write(text.Segment.Value(content))
				}
			}
			title = titleBuilder.String()
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return title
}

// ToMarkdown converts the Document to a markdown string, with metadata as YAML front matter.
// It returns the filename and the markdown content, and an optional error.
func (d *Document) ToMarkdown() (string, string, error) {
	// Make sure title is set
	d.Metadata.Title = d.FindTitle()

	var builder strings.Builder
	frontMatter, err := yaml.Marshal(d.Metadata)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to marshal metadata to YAML")
	}

	builder.WriteString(frontMatterDelimiter)
	builder.Write(frontMatter)
	builder.WriteString(frontMatterDelimiter)
	builder.WriteString(d.Content)

	name := d.Name
	if name == "" {
		name = util.SanitizeFileName(d.Metadata.Title)
	}
	if name == "" {
		return "", "", errors.New("document has neither a name nor a title")
	}

	return name + ".md", builder.String(), nil
}

// Parse reads a document written by ToMarkdown.
func Parse(name, content string) (*Document, error) {
	if !strings.HasPrefix(content, frontMatterDelimiter) {
		return nil, errors.New("missing front matter")
	}

	rest := content[len(frontMatterDelimiter):]
	end := strings.Index(rest, frontMatterDelimiter)
	if end < 0 {
		return nil, errors.New("unterminated front matter")
	}

	var metadata Metadata
	if err := yaml.NewDecoder(bytes.NewBufferString(rest[:end])).Decode(&metadata); err != nil {
		return nil, errors.Wrap(err, "failed to parse front matter")
	}

	return &Document{
		Name:     strings.TrimSuffix(name, ".md"),
		Content:  rest[end+len(frontMatterDelimiter):],
		Metadata: metadata,
	}, nil
}
