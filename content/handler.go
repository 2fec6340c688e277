package content

import (
	"bytes"
	"io"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/mempirate/advisor/document"
	"github.com/mempirate/advisor/log"
	"github.com/mempirate/advisor/scrape"
	"github.com/mempirate/advisor/store"
	"github.com/mempirate/advisor/util"
)

// Archiver stores fetched pages as markdown documents.
type Archiver struct {
	log   zerolog.Logger
	store store.LocalStore

	now func() time.Time
}

func NewArchiver(s store.LocalStore) *Archiver {
	return &Archiver{
		log:   log.NewLogger("archive"),
		store: s,
		now:   time.Now,
	}
}

// Archive converts the page to markdown and stores it, replacing an earlier
// copy of the same page unless its content is unchanged.
func (a *Archiver) Archive(kind string, page *scrape.Page) error {
	doc, err := ToDocument(kind, page, a.now())
	if err != nil {
		return err
	}

	name, content, err := doc.ToMarkdown()
	if err != nil {
		return err
	}

	if !doc.HasTitle() {
		a.log.Debug().Str("url", page.URL.String()).Msg("Page has no title")
	}

	if a.unchanged(name, doc) {
		a.log.Debug().Str("name", name).Msg("Archived page unchanged, skipping")
		return nil
	}

	if err := a.store.Store(name, strings.NewReader(content)); err != nil {
		return errors.Wrapf(err, "failed to store %s", name)
	}

	a.log.Debug().Str("name", name).Str("url", page.URL.String()).Msg("Page archived")
	return nil
}

// unchanged reports whether the stored copy of name has the same source and
// content as doc. Unreadable copies count as changed.
func (a *Archiver) unchanged(name string, doc *document.Document) bool {
	ok, err := a.store.Contains(name)
	if err != nil || !ok {
		return false
	}

	f, err := a.store.Get(name)
	if err != nil {
		return false
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return false
	}

	stored, err := document.Parse(name, string(raw))
	if err != nil {
		a.log.Warn().Err(err).Str("name", name).Msg("Archived page is malformed, replacing it")
		return false
	}

	return stored.Content == doc.Content && stored.Metadata.Source == doc.Metadata.Source
}

// ToDocument converts the HTML page to a markdown document named after the
// page kind and URL.
func ToDocument(kind string, page *scrape.Page, processed time.Time) (*document.Document, error) {
	root, err := html.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse HTML")
	}

	title, _ := extractTitle(root)

	mdBody, err := md.ConvertReader(bytes.NewReader(page.Body), converter.WithDomain(page.URL.Host))
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert HTML to Markdown")
	}

	return &document.Document{
		Name:    kind + "-" + util.URLSlug(page.URL),
		Content: string(mdBody),
		Metadata: document.Metadata{
			Title:         title,
			Source:        page.URL.String(),
			Type:          kind,
			ProcessedTime: processed.UTC().Format(time.RFC3339),
		},
	}, nil
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func extractTitle(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild == nil {
			return "", false
		}
		return strings.TrimSpace(n.FirstChild.Data), true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, ok := extractTitle(c); ok {
			return result, ok
		}
	}

	return "", false
}
