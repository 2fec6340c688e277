package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mempirate/advisor/config"
	"github.com/mempirate/advisor/log"
	"github.com/mempirate/advisor/store"
)

var logger = log.NewLogger("advisor")

var (
	configPath string
	dataDir    string
	verbose    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Recommends OMSCS courses based on your resume and interests",
	Long: `Scrapes the Georgia Tech OMSCS course and specialization listings into
YAML files, then asks an OpenAI model to recommend a specialization and
courses based on your resume and interests.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits non-zero on failure. It is called
// by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for scraped data (overrides data_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to load .env")
	}

	level := log.LevelFromEnv()
	if verbose {
		level = zerolog.DebugLevel
	}
	log.SetLevel(level)

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("data-dir") {
		c.DataDir = dataDir
	}
	c.DataDir = os.ExpandEnv(c.DataDir)
	c.ContextDir = os.ExpandEnv(c.ContextDir)

	cfg = c

	logger.Debug().Str("config", configPath).Str("dataDir", cfg.DataDir).Msg("Configuration loaded")
	return nil
}

func dataStore() *store.FileStore {
	return store.NewFileStore(cfg.DataDir)
}
