package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/mempirate/advisor/catalog"
)

// Heading markers used on the OMSCS pages.
var (
	currentCoursesHeading = Heading{Tag: "h3", Text: "Current & Ongoing OMS Courses"}

	overviewSection = Section{
		Heading: Heading{Tag: "h4", Text: "Overview"},
	}
	backgroundHeading = Heading{Tag: "h4", Text: "Before Taking This Class..."}

	coreCoursesSection = Section{
		Heading: Heading{Tag: "h3", Text: "Core Courses", Partial: true},
		Loose:   true,
	}
	electivesSection = Section{
		Heading: Heading{Tag: "h3", Text: "Electives", Partial: true},
		Item:    electiveItem,
		Loose:   true,
	}
)

// ParseCourseList extracts the current courses from the course index page.
// Links are resolved against doc.Url when it is set; links without an href
// are skipped and the first link wins when a name repeats.
func ParseCourseList(doc *goquery.Document) (catalog.Courses, error) {
	heading := currentCoursesHeading.Find(doc.Selection)
	if heading.Length() == 0 {
		return nil, errors.Wrapf(ErrHeadingNotFound, "%q", currentCoursesHeading.Text)
	}

	list := findNext(doc.Selection, heading, "ul")
	if list.Length() == 0 {
		return nil, errors.Errorf("no course list after %q", currentCoursesHeading.Text)
	}

	courses := catalog.Courses{}
	seen := make(map[string]struct{})

	list.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		name := strings.TrimSpace(a.Text())
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}

		courses = append(courses, catalog.Course{
			Name: name,
			URL:  resolve(doc.Url, href),
		})
	})

	return courses, nil
}

// ParseCourseDetail extracts the overview and suggested background of a course
// page. Only a missing overview is an error.
func ParseCourseDetail(doc *goquery.Document) (overview, background string, err error) {
	overview, ok := overviewSection.Collect(doc.Selection)
	if !ok {
		return "", "", errors.Wrapf(ErrHeadingNotFound, "%q", overviewSection.Heading.Text)
	}

	heading := backgroundHeading.Find(doc.Selection)
	if heading.Length() > 0 {
		background = strings.TrimSpace(findNext(doc.Selection, heading, "p").Text())
	}

	return overview, background, nil
}

// ParseSpecialization extracts the core and elective course sections of a
// specialization page. Missing sections are empty.
func ParseSpecialization(doc *goquery.Document) (core, electives string) {
	core, _ = coreCoursesSection.Collect(doc.Selection)
	electives, _ = electivesSection.Collect(doc.Selection)
	return core, electives
}

// electiveItem renders a linked elective as "<name> [<href>]", using the
// item's <strong> text as the name when there is one.
func electiveItem(li *goquery.Selection) string {
	a := li.Find("a").First()
	if a.Length() == 0 {
		return li.Text()
	}

	href, _ := a.Attr("href")
	name := strings.TrimSpace(li.Find("strong").First().Text())
	if name == "" {
		name = strings.TrimSpace(a.Text())
	}

	return fmt.Sprintf("%s [%s]", name, href)
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
