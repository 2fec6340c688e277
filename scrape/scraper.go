package scrape

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mempirate/advisor/catalog"
	"github.com/mempirate/advisor/log"
)

var (
	ErrHeadingNotFound  = errors.New("heading not found")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Page kinds passed to an Archiver.
const (
	KindCourseList     = "course-list"
	KindCourse         = "course"
	KindSpecialization = "specialization"
)

// Archiver keeps a copy of every fetched page.
type Archiver interface {
	Archive(kind string, page *Page) error
}

// Scraper scrapes the OMSCS course and specialization pages.
type Scraper struct {
	log zerolog.Logger

	fetcher  Fetcher
	archiver Archiver

	coursesURL  string
	concurrency int
}

type Option func(*Scraper)

// WithCoursesURL overrides the course index page.
func WithCoursesURL(url string) Option {
	return func(s *Scraper) { s.coursesURL = url }
}

// WithConcurrency bounds the number of course pages fetched at once. Zero or
// less means no bound.
func WithConcurrency(n int) Option {
	return func(s *Scraper) { s.concurrency = n }
}

func WithArchiver(a Archiver) Option {
	return func(s *Scraper) { s.archiver = a }
}

func NewScraper(fetcher Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		log:        log.NewLogger("scraper"),
		fetcher:    fetcher,
		coursesURL: catalog.CurrentCoursesURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Scraper) document(ctx context.Context, kind, url string) (*goquery.Document, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(kind, page); err != nil {
			s.log.Warn().Err(err).Str("url", url).Msg("Failed to archive page")
		}
	}

	return page.Document()
}

// CourseList returns the current courses with only their name and URL set.
func (s *Scraper) CourseList(ctx context.Context) (catalog.Courses, error) {
	doc, err := s.document(ctx, KindCourseList, s.coursesURL)
	if err != nil {
		return nil, err
	}

	courses, err := ParseCourseList(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse course list %s", s.coursesURL)
	}

	s.log.Debug().Int("count", len(courses)).Msg("Course list scraped")
	return courses, nil
}

// CourseDetail returns the overview and suggested background of a course page.
func (s *Scraper) CourseDetail(ctx context.Context, url string) (overview, background string, err error) {
	doc, err := s.document(ctx, KindCourse, url)
	if err != nil {
		return "", "", err
	}

	overview, background, err = ParseCourseDetail(doc)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to parse course page %s", url)
	}

	return overview, background, nil
}

// CourseDetails fetches the detail page of every course concurrently and
// returns a copy of courses with the text fields filled in, in the same order.
// The first failure fails the whole batch and cancels the remaining fetches.
func (s *Scraper) CourseDetails(ctx context.Context, courses catalog.Courses) (catalog.Courses, error) {
	start := time.Now()

	results := make(catalog.Courses, len(courses))
	copy(results, courses)

	eg, ctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		eg.SetLimit(s.concurrency)
	}

	for i := range results {
		course := &results[i]
		eg.Go(func() error {
			overview, background, err := s.CourseDetail(ctx, course.URL)
			if err != nil {
				return errors.Wrapf(err, "course %q", course.Name)
			}

			course.Overview = overview
			course.SuggestedBackground = background
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug().Int("count", len(results)).Dur("duration", time.Since(start)).Msg("Course details scraped")
	return results, nil
}

// Specialization returns the core and elective course text of a specialization page.
func (s *Scraper) Specialization(ctx context.Context, url string) (core, electives string, err error) {
	doc, err := s.document(ctx, KindSpecialization, url)
	if err != nil {
		return "", "", err
	}

	core, electives = ParseSpecialization(doc)
	if core == "" && electives == "" {
		s.log.Warn().Str("url", url).Msg("No core or elective courses found")
	}

	return core, electives, nil
}

// Specializations scrapes the given specializations one after another.
func (s *Scraper) Specializations(ctx context.Context, sources []catalog.SpecializationSource) (catalog.Specializations, error) {
	specs := make(catalog.Specializations, 0, len(sources))
	for _, source := range sources {
		core, electives, err := s.Specialization(ctx, source.URL)
		if err != nil {
			return nil, errors.Wrapf(err, "specialization %q", source.Name)
		}

		specs = append(specs, catalog.Specialization{
			Name:            source.Name,
			CoreCourses:     core,
			ElectiveCourses: electives,
		})
	}

	return specs, nil
}
