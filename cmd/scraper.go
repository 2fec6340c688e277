package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mempirate/advisor/cache"
	"github.com/mempirate/advisor/content"
	"github.com/mempirate/advisor/scrape"
)

const pagesDir = "pages"

type scrapeFlags struct {
	cache   bool
	archive bool
}

func (f *scrapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.cache, "cache", false, "Reuse pages fetched within cache.ttl")
	cmd.Flags().BoolVar(&f.archive, "archive", false, "Keep a markdown copy of every fetched page under <data-dir>/pages")
}

// newScraper builds a scraper from the loaded config. The returned function
// releases the page cache.
func newScraper(flags scrapeFlags) (*scrape.Scraper, func(), error) {
	fetcherOpts := scrape.FetcherOptions{
		UserAgent: cfg.Scrape.UserAgent,
		Timeout:   cfg.Scrape.Timeout,
	}
	release := func() {}

	if flags.cache {
		path := cfg.CachePath()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, errors.Wrap(err, "failed to create cache directory")
		}

		c, err := cache.NewBoltCache(path, cfg.Cache.TTL)
		if err != nil {
			return nil, nil, err
		}

		logger.Debug().Str("path", path).Int("entries", c.Len()).Msg("Using page cache")

		fetcherOpts.Cache = c
		release = func() {
			if err := c.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close page cache")
			}
		}
	}

	opts := []scrape.Option{
		scrape.WithCoursesURL(cfg.CoursesURL),
		scrape.WithConcurrency(cfg.Scrape.Concurrency),
	}
	if flags.archive {
		opts = append(opts, scrape.WithArchiver(content.NewArchiver(dataStore().Sub(pagesDir))))
	}

	return scrape.NewScraper(scrape.NewCollyFetcher(fetcherOpts), opts...), release, nil
}
