package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mempirate/advisor/catalog"
)

var coursesFlags scrapeFlags

var coursesCmd = &cobra.Command{
	Use:   "scrape-courses",
	Short: "Scrape the current OMSCS courses with their overviews",
	Long: `Scrapes the list of current OMSCS courses, then fetches every course page
concurrently for its overview and suggested background. The result replaces
<data-dir>/omscs_courses.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		ctx := cmd.Context()

		s, release, err := newScraper(coursesFlags)
		if err != nil {
			return err
		}
		defer release()

		logger.Info().Msg("Scraping OMSCS course list...")
		courses, err := s.CourseList(ctx)
		if err != nil {
			return err
		}

		logger.Info().Int("courses", len(courses)).Msg("Scraping course overviews and suggested background...")
		courses, err = s.CourseDetails(ctx, courses)
		if err != nil {
			return err
		}

		logger.Info().Msg("Saving course data to file...")
		if err := dataStore().WriteYAML(catalog.CoursesFile, courses); err != nil {
			return err
		}

		logger.Info().
			Str("file", dataStore().Path(catalog.CoursesFile)).
			Msgf("Scraping completed in %.2f seconds.", time.Since(start).Seconds())
		return nil
	},
}

func init() {
	coursesFlags.register(coursesCmd)
	rootCmd.AddCommand(coursesCmd)
}
