package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Heading identifies a section heading by its tag and text.
type Heading struct {
	Tag  string
	Text string
	// Partial matches headings that contain Text instead of equaling it.
	Partial bool
}

func (h Heading) matches(s *goquery.Selection) bool {
	text := strings.TrimSpace(s.Text())
	if h.Partial {
		return strings.Contains(text, h.Text)
	}
	return text == h.Text
}

// Find returns the first heading under root that matches h. The selection is
// empty when there is none.
func (h Heading) Find(root *goquery.Selection) *goquery.Selection {
	return root.Find(h.Tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return h.matches(s)
	}).First()
}

// Section is the content that follows a heading up to the next heading of the
// same tag, e.g. everything between <h4>Overview</h4> and the next <h4>.
type Section struct {
	Heading Heading
	// Item renders a list item. Nil uses the item's text.
	Item func(li *goquery.Selection) string
	// Loose keeps the direct text of siblings that are neither paragraphs nor lists.
	Loose bool
}

// Collect returns the section text, one paragraph or list item per line, and
// whether the heading was found at all.
func (s Section) Collect(root *goquery.Selection) (string, bool) {
	heading := s.Heading.Find(root)
	if heading.Length() == 0 {
		return "", false
	}

	var lines []string
	add := func(text string) {
		if text = strings.TrimSpace(text); text != "" {
			lines = append(lines, text)
		}
	}

	heading.NextUntil(s.Heading.Tag).Each(func(_ int, sibling *goquery.Selection) {
		switch goquery.NodeName(sibling) {
		case "p":
			add(sibling.Text())
		case "ul", "ol":
			sibling.Find("li").Each(func(_ int, li *goquery.Selection) {
				if s.Item != nil {
					add(s.Item(li))
				} else {
					add(li.Text())
				}
			})
		default:
			if s.Loose {
				add(ownText(sibling))
			}
		}
	})

	return strings.Join(lines, "\n"), true
}

// ownText returns the text of the direct text children of the selection's
// first node. When there is none and the node wraps a single element, that
// element's text is used instead, e.g. <div><strong>Pick one:</strong></div>.
// Nodes with several child elements and no direct text give an empty string.
func ownText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}

	for n := s.Get(0); n != nil; n = onlyChildElement(n) {
		if text := directText(n); strings.TrimSpace(text) != "" {
			return text
		}
	}

	return ""
}

func directText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// onlyChildElement returns the single child element of n, ignoring whitespace
// and comments, or nil if there is not exactly one.
func onlyChildElement(n *html.Node) *html.Node {
	var only *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if only != nil {
				return nil
			}
			only = c
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		}
	}
	return only
}

// findNext returns the first element matching selector that comes after from
// in document order, not only among its siblings.
func findNext(root, from *goquery.Selection, selector string) *goquery.Selection {
	if from.Length() == 0 {
		return from
	}

	target := from.Get(0)
	passed := false
	found := from.Slice(0, 0)

	root.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Get(0) == target {
			passed = true
			return true
		}
		if passed && s.Is(selector) {
			found = s
			return false
		}
		return true
	})

	return found
}
