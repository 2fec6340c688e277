package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mempirate/advisor/backend"
	"github.com/mempirate/advisor/catalog"
)

const DefaultPath = "advisor.yaml"

type ScrapeConfig struct {
	// Concurrency bounds the number of course pages fetched at once. Zero means no bound.
	Concurrency int           `yaml:"concurrency"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	// Path of the page cache, relative to the data directory unless absolute.
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

type LLMConfig struct {
	Model string `yaml:"model"`
	// Pricing overrides or extends backend.DefaultPricing, keyed by model.
	Pricing map[string]backend.Pricing `yaml:"pricing"`
}

type Config struct {
	CoursesURL      string                         `yaml:"courses_url"`
	Specializations []catalog.SpecializationSource `yaml:"specializations"`

	DataDir    string `yaml:"data_dir"`
	ContextDir string `yaml:"context_dir"`

	Scrape ScrapeConfig `yaml:"scrape"`
	Cache  CacheConfig  `yaml:"cache"`
	LLM    LLMConfig    `yaml:"llm"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	specs := make([]catalog.SpecializationSource, len(catalog.DefaultSpecializations))
	copy(specs, catalog.DefaultSpecializations)

	return &Config{
		CoursesURL:      catalog.CurrentCoursesURL,
		Specializations: specs,
		DataDir:         "scraped",
		ContextDir:      "context",
		Scrape: ScrapeConfig{
			UserAgent: "advisor/1.0",
		},
		Cache: CacheConfig{
			Path: "pages.db",
			TTL:  12 * time.Hour,
		},
		LLM: LLMConfig{
			Model: backend.DefaultModel,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CoursesURL == "" {
		return errors.New("courses_url is empty")
	}
	if c.DataDir == "" {
		return errors.New("data_dir is empty")
	}
	if c.Scrape.Concurrency < 0 {
		return errors.Errorf("scrape.concurrency must not be negative, got %d", c.Scrape.Concurrency)
	}
	if c.Cache.TTL < 0 {
		return errors.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is empty")
	}

	for _, s := range c.Specializations {
		if s.Name == "" || s.URL == "" {
			return errors.Errorf("specialization %q needs both a name and a url", s.Name)
		}
	}

	return nil
}

// CachePath returns the page cache path, resolved against the data directory.
func (c *Config) CachePath() string {
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(c.DataDir, c.Cache.Path)
}

// ContextFile returns the path of a file in the context directory.
func (c *Config) ContextFile(name string) string {
	return filepath.Join(c.ContextDir, name)
}

// Pricing returns the price of model, with configured prices taking precedence
// over the built-in table.
func (c *Config) Pricing(model string) (backend.Pricing, bool) {
	if p, ok := c.LLM.Pricing[model]; ok {
		return p, true
	}

	p, ok := backend.DefaultPricing[model]
	return p, ok
}
