package scrape

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mempirate/advisor/cache"
	"github.com/mempirate/advisor/log"
	"github.com/mempirate/advisor/util"
)

// Page is a downloaded HTML page.
type Page struct {
	URL  *url.URL
	Body []byte
}

// Document parses the page body. The document's Url is set to the page URL
// so relative links can be resolved.
func (p *Page) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse HTML of %s", p.URL)
	}

	doc.Url = p.URL
	return doc, nil
}

// Fetcher downloads pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

type FetcherOptions struct {
	UserAgent string
	// Timeout bounds a single request. Zero keeps the transport default.
	Timeout time.Duration
	// Cache, if set, is consulted before the network and filled after.
	Cache cache.Cache
}

// CollyFetcher fetches pages with a colly collector. Every fetch runs on its
// own clone, so it is safe for concurrent use.
type CollyFetcher struct {
	log       zerolog.Logger
	collector *colly.Collector
	cache     cache.Cache
}

func NewCollyFetcher(opts FetcherOptions) *CollyFetcher {
	c := colly.NewCollector(colly.AllowURLRevisit())
	if opts.UserAgent != "" {
		c.UserAgent = opts.UserAgent
	}
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	return &CollyFetcher{
		log:       log.NewLogger("fetcher"),
		collector: c,
		cache:     opts.Cache,
	}
}

// Fetch downloads the page at rawURL. Anything but a 200 response is an error.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid URL %q", rawURL)
	}

	if f.cache != nil {
		if body, ok := f.cache.Get(rawURL); ok {
			f.log.Debug().Str("url", rawURL).Msg("Page cache hit")
			return &Page{URL: u, Body: []byte(body)}, nil
		}
	}

	var (
		page     *Page
		fetchErr error
	)

	// Same collector but without old callbacks
	c := f.collector.Clone()
	c.Context = ctx

	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode != http.StatusOK {
			fetchErr = errors.Wrapf(ErrUnexpectedStatus, "failed to retrieve page %s: status %d", rawURL, r.StatusCode)
			return
		}
		page = &Page{URL: r.Request.URL, Body: r.Body}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = errors.Wrapf(ErrUnexpectedStatus, "failed to retrieve page %s: status %d", rawURL, r.StatusCode)
			return
		}
		fetchErr = errors.Wrapf(err, "failed to retrieve page %s", rawURL)
	})

	if err := c.Visit(rawURL); err != nil && fetchErr == nil {
		fetchErr = errors.Wrapf(err, "failed to retrieve page %s", rawURL)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if page == nil {
		return nil, errors.Errorf("no response for %s", rawURL)
	}

	f.log.Debug().Str("url", rawURL).Str("size", util.FormatBytes(int64(len(page.Body)))).Msg("Page fetched")

	if f.cache != nil {
		if err := f.cache.Put(rawURL, string(page.Body)); err != nil {
			f.log.Warn().Err(err).Str("url", rawURL).Msg("Failed to cache page")
		}
	}

	return page, nil
}
