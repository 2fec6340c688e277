package recommend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mempirate/advisor/backend"
	"github.com/mempirate/advisor/catalog"
	"github.com/mempirate/advisor/log"
	"github.com/mempirate/advisor/prompt"
	"github.com/mempirate/advisor/store"
)

const separator = "\n\n---\n\n"

// Inputs are the files a recommendation is built from and written to.
type Inputs struct {
	ResumePath    string
	InterestsPath string
	TemplatePath  string
	OutputPath    string
}

type Result struct {
	Prompt     string
	Completion *backend.Completion
	// Report is what was written to the output file.
	Report string
}

// Notifier receives the final report.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Recommender turns the scraped catalog and the user's context into course
// recommendations.
type Recommender struct {
	log zerolog.Logger

	data      *store.FileStore
	completer backend.Completer
	out       io.Writer
	notifier  Notifier
}

// NewRecommender creates a recommender reading the scraped catalog from data.
// Streamed output is written to out.
func NewRecommender(data *store.FileStore, completer backend.Completer, out io.Writer) *Recommender {
	return &Recommender{
		log:       log.NewLogger("recommend"),
		data:      data,
		completer: completer,
		out:       out,
	}
}

// WithNotifier sets a notifier that receives the report after it is written.
func (r *Recommender) WithNotifier(n Notifier) *Recommender {
	r.notifier = n
	return r
}

// BuildPrompt loads the scraped catalog and the input files and renders the
// prompt template.
func (r *Recommender) BuildPrompt(in Inputs) (string, error) {
	var courses catalog.Courses
	if err := r.data.ReadYAML(catalog.CoursesFile, &courses); err != nil {
		return "", errors.Wrap(err, "failed to load courses, run scrape-courses first")
	}

	var specs catalog.Specializations
	if err := r.data.ReadYAML(catalog.SpecializationsFile, &specs); err != nil {
		return "", errors.Wrap(err, "failed to load specializations, run scrape-specializations first")
	}

	resume, err := readFile(in.ResumePath)
	if err != nil {
		return "", err
	}
	interests, err := readFile(in.InterestsPath)
	if err != nil {
		return "", err
	}
	template, err := readFile(in.TemplatePath)
	if err != nil {
		return "", err
	}

	r.log.Debug().Int("courses", len(courses)).Int("specializations", len(specs)).Msg("Catalog loaded")

	return prompt.Render(template, prompt.Inputs{
		Resume:          resume,
		Interests:       interests,
		Specializations: prompt.FormatSpecializations(specs),
		Courses:         prompt.FormatCourses(courses),
	}), nil
}

// Run builds the prompt, streams the completion to the output writer and
// writes the response with its usage report to in.OutputPath.
func (r *Recommender) Run(ctx context.Context, in Inputs) (*Result, error) {
	text, err := r.BuildPrompt(in)
	if err != nil {
		return nil, err
	}

	r.log.Info().Msg("Generating recommendations based on your resume and interests...")
	start := time.Now()

	completion, err := r.completer.Complete(ctx, text, func(chunk string) {
		io.WriteString(r.out, chunk)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate recommendations")
	}

	usage := RenderUsage(completion.Model, completion.Usage)
	fmt.Fprint(r.out, separator+usage+"\n")

	report := completion.Content + separator + usage + "\n"

	output := store.NewFileStore(filepath.Dir(in.OutputPath))
	if err := output.Store(filepath.Base(in.OutputPath), strings.NewReader(report)); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", in.OutputPath)
	}

	r.log.Info().
		Str("output", in.OutputPath).
		Dur("duration", time.Since(start)).
		Int64("tokens", completion.Usage.TotalTokens).
		Msg("Recommendations saved")

	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, report); err != nil {
			r.log.Warn().Err(err).Msg("Failed to send notification")
		}
	}

	return &Result{
		Prompt:     text,
		Completion: completion,
		Report:     report,
	}, nil
}

// RenderUsage renders the token and cost accounting of a completion as a table.
func RenderUsage(model string, usage backend.Usage) string {
	t := table.NewWriter()
	t.AppendRows([]table.Row{
		{"Model", model},
		{"Total Cost", fmt.Sprintf("$%.5f", usage.Cost)},
		{"Total Tokens", usage.TotalTokens},
		{"Prompt Tokens", usage.PromptTokens},
		{"Response Tokens", usage.ResponseTokens},
	})
	t.SetStyle(table.StyleRounded)

	return t.Render()
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	return string(data), nil
}
