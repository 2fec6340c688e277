package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mempirate/advisor/catalog"
)

var specializationsFlags scrapeFlags

var specializationsCmd = &cobra.Command{
	Use:   "scrape-specializations",
	Short: "Scrape the core and elective courses of each specialization",
	Long: `Scrapes the configured specialization pages one after another. The result
replaces <data-dir>/omscs_specializations.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		s, release, err := newScraper(specializationsFlags)
		if err != nil {
			return err
		}
		defer release()

		logger.Info().Int("specializations", len(cfg.Specializations)).Msg("Scraping OMSCS specializations...")
		specs, err := s.Specializations(cmd.Context(), cfg.Specializations)
		if err != nil {
			return err
		}

		logger.Info().Msg("Saving specialization data to file...")
		if err := dataStore().WriteYAML(catalog.SpecializationsFile, specs); err != nil {
			return err
		}

		logger.Info().
			Str("file", dataStore().Path(catalog.SpecializationsFile)).
			Msgf("Scraping completed in %.2f seconds.", time.Since(start).Seconds())
		return nil
	},
}

func init() {
	specializationsFlags.register(specializationsCmd)
	rootCmd.AddCommand(specializationsCmd)
}
