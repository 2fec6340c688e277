// Package catalog holds the scraped OMSCS course and specialization data.
package catalog

const CurrentCoursesURL = "https://omscs.gatech.edu/current-courses"

// File names of the persisted scrape output, relative to the data directory.
const (
	CoursesFile         = "omscs_courses.yaml"
	SpecializationsFile = "omscs_specializations.yaml"
)

// SpecializationSource names a specialization and the page that describes it.
type SpecializationSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DefaultSpecializations is the fixed set of specializations that get scraped.
// Computational Perception and Robotics is left out on purpose.
var DefaultSpecializations = []SpecializationSource{
	{Name: "Computing Systems", URL: "https://omscs.gatech.edu/specialization-computing-systems"},
	{Name: "Human Computer Interaction", URL: "https://omscs.gatech.edu/specialization-human-computer-interaction"},
	{Name: "Interactive Intelligence", URL: "https://omscs.gatech.edu/specialization-interactive-intelligence"},
	{Name: "Machine Learning", URL: "https://omscs.gatech.edu/specialization-machine-learning"},
}

// Course is a single course listing. URL is known after the course list is
// scraped; Overview and SuggestedBackground after its detail page is.
type Course struct {
	Name                string `yaml:"-"`
	URL                 string `yaml:"url"`
	Overview            string `yaml:"overview"`
	SuggestedBackground string `yaml:"suggested_background"`
}

// Courses is an ordered list of courses, keyed by name when serialized.
type Courses []Course

func (c Courses) Names() []string {
	names := make([]string, len(c))
	for i, course := range c {
		names[i] = course.Name
	}
	return names
}

type Specialization struct {
	Name            string `yaml:"-"`
	CoreCourses     string `yaml:"core_courses"`
	ElectiveCourses string `yaml:"elective_courses"`
}

// Specializations is an ordered list of specializations, keyed by name when serialized.
type Specializations []Specialization
