package recommend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mempirate/advisor/backend"
	"github.com/mempirate/advisor/catalog"
	"github.com/mempirate/advisor/store"
)

type fakeCompleter struct {
	chunks []string
	err    error

	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, onChunk func(string)) (*backend.Completion, error) {
	f.prompt = prompt
	if f.err != nil {
		return nil, f.err
	}

	for _, c := range f.chunks {
		onChunk(c)
	}

	return &backend.Completion{
		Model:   "gpt-4-0125-preview",
		Content: strings.Join(f.chunks, ""),
		Usage:   backend.Pricing{Input: 10, Output: 30}.Usage(1000, 200),
	}, nil
}

type fakeNotifier struct {
	texts []string
}

func (n *fakeNotifier) Notify(ctx context.Context, text string) error {
	n.texts = append(n.texts, text)
	return errors.New("webhook unavailable")
}

func setup(t *testing.T) (*store.FileStore, Inputs) {
	t.Helper()

	dir := t.TempDir()
	data := store.NewFileStore(filepath.Join(dir, "scraped"))

	courses := catalog.Courses{
		{Name: "CS 6200", URL: "https://omscs.gatech.edu/cs-6200", Overview: "Operating systems.", SuggestedBackground: "C."},
	}
	specs := catalog.Specializations{
		{Name: "Computing Systems", CoreCourses: "CS 6210", ElectiveCourses: "CS 6200"},
	}

	if err := data.WriteYAML(catalog.CoursesFile, courses); err != nil {
		t.Fatal(err)
	}
	if err := data.WriteYAML(catalog.SpecializationsFile, specs); err != nil {
		t.Fatal(err)
	}

	contextDir := filepath.Join(dir, "context")
	files := map[string]string{
		"resume.txt":    "Backend engineer, Go.",
		"interests.txt": "Distributed systems.",
		"prompt.txt":    "R={{resume}}|I={{interests}}|S={{specialization}}|C={{courses}}",
	}
	if err := os.MkdirAll(contextDir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(contextDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	return data, Inputs{
		ResumePath:    filepath.Join(contextDir, "resume.txt"),
		InterestsPath: filepath.Join(contextDir, "interests.txt"),
		TemplatePath:  filepath.Join(contextDir, "prompt.txt"),
		OutputPath:    filepath.Join(contextDir, "recommendations.txt"),
	}
}

func TestRun(t *testing.T) {
	data, in := setup(t)

	completer := &fakeCompleter{chunks: []string{"Take ", "CS 6200."}}
	notifier := new(fakeNotifier)
	var out bytes.Buffer

	result, err := NewRecommender(data, completer, &out).WithNotifier(notifier).Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	expectedPrompt := "R=Backend engineer, Go.|I=Distributed systems.|" +
		"S=SPECIALIZATION: Computing Systems\n\nCORE/REQUIRED COURSES:\nCS 6210\n\nELECTIVES:\nCS 6200|" +
		"C=COURSE: CS 6200\nOVERVIEW:\nOperating systems.\nSUGGESTED BACKGROUND:\nC."
	if completer.prompt != expectedPrompt {
		t.Errorf("unexpected prompt:\n%s", completer.prompt)
	}
	if result.Prompt != expectedPrompt {
		t.Error("result prompt differs from the sent prompt")
	}

	if !strings.HasPrefix(out.String(), "Take CS 6200.\n\n---\n\n") {
		t.Errorf("unexpected console output:\n%s", out.String())
	}

	written, err := os.ReadFile(in.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != result.Report {
		t.Error("output file differs from the report")
	}
	if !strings.HasPrefix(result.Report, "Take CS 6200.\n\n---\n\n") {
		t.Errorf("unexpected report:\n%s", result.Report)
	}
	// 1000 * $10/M + 200 * $30/M
	if !strings.Contains(result.Report, "$0.01600") {
		t.Errorf("report is missing the cost:\n%s", result.Report)
	}

	// Notification failures are not fatal.
	if len(notifier.texts) != 1 || notifier.texts[0] != result.Report {
		t.Errorf("unexpected notifications: %v", notifier.texts)
	}
}

func TestRunMissingInput(t *testing.T) {
	data, in := setup(t)
	in.ResumePath = filepath.Join(t.TempDir(), "missing.txt")

	completer := new(fakeCompleter)
	if _, err := NewRecommender(data, completer, new(bytes.Buffer)).Run(context.Background(), in); err == nil {
		t.Fatal("expected an error for a missing resume")
	}
	if completer.prompt != "" {
		t.Error("completer was called without all inputs")
	}
}

func TestRunMissingCatalog(t *testing.T) {
	_, in := setup(t)
	empty := store.NewFileStore(t.TempDir())

	if _, err := NewRecommender(empty, new(fakeCompleter), new(bytes.Buffer)).Run(context.Background(), in); err == nil {
		t.Fatal("expected an error without scraped data")
	}
}

func TestRunCompletionError(t *testing.T) {
	data, in := setup(t)

	completer := &fakeCompleter{err: errors.New("rate limited")}
	_, err := NewRecommender(data, completer, new(bytes.Buffer)).Run(context.Background(), in)
	if err == nil {
		t.Fatal("expected the completion error")
	}

	if _, statErr := os.Stat(in.OutputPath); !os.IsNotExist(statErr) {
		t.Error("output file written despite the error")
	}
}

func TestRenderUsage(t *testing.T) {
	usage := backend.Usage{PromptTokens: 1000, ResponseTokens: 200, TotalTokens: 1200, Cost: 0.016}
	table := RenderUsage("gpt-4-0125-preview", usage)

	for _, want := range []string{"gpt-4-0125-preview", "Total Cost", "$0.01600", "1200", "1000", "200"} {
		if !strings.Contains(table, want) {
			t.Errorf("usage table is missing %q:\n%s", want, table)
		}
	}
}
