package prompt

import (
	"fmt"
	"strings"

	"github.com/mempirate/advisor/catalog"
)

// Template placeholders.
const (
	PlaceholderResume          = "{{resume}}"
	PlaceholderInterests       = "{{interests}}"
	PlaceholderSpecializations = "{{specialization}}"
	PlaceholderCourses         = "{{courses}}"
)

const COURSE_TEMPLATE = `COURSE: %s
OVERVIEW:
%s
SUGGESTED BACKGROUND:
%s


`

const SPECIALIZATION_TEMPLATE = `SPECIALIZATION: %s

CORE/REQUIRED COURSES:
%s

ELECTIVES:
%s



`

// Inputs are the values substituted into a prompt template.
type Inputs struct {
	Resume          string
	Interests       string
	Specializations string
	Courses         string
}

// Render substitutes the placeholders in template. Substitution is a single
// pass, so placeholders inside the inserted text are left as they are.
func Render(template string, in Inputs) string {
	r := strings.NewReplacer(
		PlaceholderResume, in.Resume,
		PlaceholderInterests, in.Interests,
		PlaceholderSpecializations, in.Specializations,
		PlaceholderCourses, in.Courses,
	)

	return r.Replace(template)
}

// FormatCourses renders the courses as prompt text, in order.
func FormatCourses(courses catalog.Courses) string {
	var b strings.Builder
	for _, c := range courses {
		fmt.Fprintf(&b, COURSE_TEMPLATE, c.Name, c.Overview, c.SuggestedBackground)
	}

	return strings.TrimSpace(b.String())
}

// FormatSpecializations renders the specializations as prompt text, in order.
func FormatSpecializations(specs catalog.Specializations) string {
	var b strings.Builder
	for _, s := range specs {
		fmt.Fprintf(&b, SPECIALIZATION_TEMPLATE, s.Name, s.CoreCourses, s.ElectiveCourses)
	}

	return strings.TrimSpace(b.String())
}
