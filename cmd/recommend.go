package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mempirate/advisor/backend"
	"github.com/mempirate/advisor/recommend"
	"github.com/mempirate/advisor/slack"
)

var recommendFlags struct {
	resume    string
	interests string
	template  string
	output    string
	model     string
	webhook   string
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate course recommendations from your resume and interests",
	Long: `Combines the scraped courses and specializations with your resume, your
interests and a prompt template, and streams the model's recommendations to
stdout. The response and its token usage are written to the output file.

Requires OPENAI_API_KEY. If SLACK_WEBHOOK_URL (or --slack-webhook) is set the
result is posted to Slack as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return errors.New("OPENAI_API_KEY is not set")
		}

		model := cfg.LLM.Model
		if recommendFlags.model != "" {
			model = recommendFlags.model
		}

		pricing, ok := cfg.Pricing(model)
		if !ok {
			logger.Warn().Str("model", model).Msg("No pricing known for model, cost will be reported as zero")
		}

		in := recommend.Inputs{
			ResumePath:    orDefault(recommendFlags.resume, cfg.ContextFile("resume.txt")),
			InterestsPath: orDefault(recommendFlags.interests, cfg.ContextFile("interests.txt")),
			TemplatePath:  orDefault(recommendFlags.template, cfg.ContextFile("prompt.txt")),
			OutputPath:    orDefault(recommendFlags.output, cfg.ContextFile("recommendations.txt")),
		}

		r := recommend.NewRecommender(dataStore(), backend.NewBackend(key, model, pricing), cmd.OutOrStdout())

		webhook := orDefault(recommendFlags.webhook, os.Getenv("SLACK_WEBHOOK_URL"))
		if webhook != "" {
			r.WithNotifier(slack.NewNotifier(webhook))
		}

		_, err := r.Run(cmd.Context(), in)
		return err
	},
}

func init() {
	f := recommendCmd.Flags()
	f.StringVar(&recommendFlags.resume, "resume", "", "Resume file (default <context-dir>/resume.txt)")
	f.StringVar(&recommendFlags.interests, "interests", "", "Interests file (default <context-dir>/interests.txt)")
	f.StringVar(&recommendFlags.template, "template", "", "Prompt template (default <context-dir>/prompt.txt)")
	f.StringVar(&recommendFlags.output, "output", "", "Output file (default <context-dir>/recommendations.txt)")
	f.StringVar(&recommendFlags.model, "model", "", "OpenAI chat model (default llm.model)")
	f.StringVar(&recommendFlags.webhook, "slack-webhook", "", "Slack incoming webhook URL (default $SLACK_WEBHOOK_URL)")

	rootCmd.AddCommand(recommendCmd)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
