package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mempirate/advisor/catalog"
	"github.com/mempirate/advisor/store"
)

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/current-courses", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h3>Current &amp; Ongoing OMS Courses</h3><ul><li><a href="/cs-6200">CS 6200: Introduction to Operating Systems</a></li></ul>`)
	})
	mux.HandleFunc("/cs-6200", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h4>Overview</h4><p>Processes and threads.</p><h4>Before Taking This Class...</h4><p>C.</p>`)
	})
	mux.HandleFunc("/specialization-computing-systems", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h3>Core Courses</h3><p>CS 6210</p><h3>Electives</h3><ul><li>CS 6200</li></ul>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) error {
	t.Helper()

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestScrapeCommands(t *testing.T) {
	srv := newTestSite(t)
	dir := t.TempDir()

	configFile := filepath.Join(dir, "advisor.yaml")
	config := fmt.Sprintf(`courses_url: %[1]s/current-courses
specializations:
  - name: Computing Systems
    url: %[1]s/specialization-computing-systems
`, srv.URL)
	if err := os.WriteFile(configFile, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	data := filepath.Join(dir, "scraped")

	if err := run(t, "scrape-courses", "--config", configFile, "--data-dir", data, "--archive"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, "scrape-specializations", "--config", configFile, "--data-dir", data); err != nil {
		t.Fatal(err)
	}

	fs := store.NewFileStore(data)

	var courses catalog.Courses
	if err := fs.ReadYAML(catalog.CoursesFile, &courses); err != nil {
		t.Fatal(err)
	}

	expectedCourses := catalog.Courses{{
		Name:                "CS 6200: Introduction to Operating Systems",
		URL:                 srv.URL + "/cs-6200",
		Overview:            "Processes and threads.",
		SuggestedBackground: "C.",
	}}
	if diff := cmp.Diff(expectedCourses, courses); diff != "" {
		t.Errorf("unexpected courses (-want +got):\n%s", diff)
	}

	var specs catalog.Specializations
	if err := fs.ReadYAML(catalog.SpecializationsFile, &specs); err != nil {
		t.Fatal(err)
	}

	expectedSpecs := catalog.Specializations{{Name: "Computing Systems", CoreCourses: "CS 6210", ElectiveCourses: "CS 6200"}}
	if diff := cmp.Diff(expectedSpecs, specs); diff != "" {
		t.Errorf("unexpected specializations (-want +got):\n%s", diff)
	}

	archived, err := fs.Sub(pagesDir).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(archived) != 2 {
		t.Errorf("expected the course list and one course page archived, got %v", archived)
	}
}

func TestRecommendRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	err := run(t, "recommend", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error without OPENAI_API_KEY")
	}
}

func TestOrDefault(t *testing.T) {
	if orDefault("", "fallback") != "fallback" {
		t.Error("empty value should fall back")
	}
	if orDefault("value", "fallback") != "value" {
		t.Error("value should win over fallback")
	}
}
