package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mungbai/rangecat/pkg/rangecat"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/logging"
)

// practicalLimitCap bounds how far the practical_limit override can be
// raised; block bookkeeping in the engine assumes ranges of this order.
const practicalLimitCap = 100_000_000

// Category is one (label, rule) pair from configuration.
type Category struct {
	Label string `koanf:"label"`
	Rule  string `koanf:"rule"`
}

// LimitsConfig overrides the default analysis limits.
type LimitsConfig struct {
	RangeWarning      int64 `koanf:"range_warning"`
	PracticalLimit    int64 `koanf:"practical_limit"`
	MaxRuleComplexity int   `koanf:"max_rule_complexity"`
	MaxEvalSteps      int   `koanf:"max_eval_steps"`
}

// OutputConfig controls where document output is written.
type OutputConfig struct {
	Dir string `koanf:"dir"`
}

// Config is the full configuration document. Category order is
// preserved and becomes the category order everywhere downstream.
type Config struct {
	Categories []Category   `koanf:"categories"`
	Limits     LimitsConfig `koanf:"limits"`
	Output     OutputConfig `koanf:"output"`
}

// Load reads configuration in layers: built-in defaults, then the
// config file, then RANGECAT_* environment overrides. An empty path
// triggers the search order: $RANGECAT_CONFIG, ./rangecat.{json,yaml,
// yml,toml}, then the XDG config directory.
func Load(path string) (*Config, error) {
	log := logging.GetLogger("config")

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default configuration")
	}

	if path == "" {
		found, err := findConfigFile()
		if err != nil {
			return nil, err
		}
		path = found
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigNotFound, "configuration file %s not found", path)
	}

	if err := k.Load(file.Provider(path), parserForPath(path)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse configuration file %s", path)
	}

	// Environment overrides use __ as the nesting separator so keys
	// containing underscores stay addressable, e.g.
	// RANGECAT_LIMITS__PRACTICAL_LIMIT -> limits.practical_limit.
	envProvider := env.Provider(".", env.Opt{
		Prefix: "RANGECAT_",
		TransformFunc: func(k, v string) (string, any) {
			// RANGECAT_LIMITS__MAX_EVAL_STEPS becomes limits.max_eval_steps.
			k = strings.TrimPrefix(k, "RANGECAT_")
			return strings.ReplaceAll(strings.ToLower(k), "__", "."), v
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to apply environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "configuration file %s has the wrong shape", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", path).
		Int("categories", len(cfg.Categories)).
		Msg("Loaded configuration")

	return &cfg, nil
}

// Validate rejects configurations the analyzer cannot run with.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New(errors.ErrConfigInvalid, "configuration must define at least one category")
	}
	for i, category := range c.Categories {
		if strings.TrimSpace(category.Label) == "" {
			return errors.Newf(errors.ErrConfigInvalid, "category %d has an empty label", i).
				WithDetail("index", i)
		}
		if strings.TrimSpace(category.Rule) == "" {
			return errors.Newf(errors.ErrConfigInvalid, "category %q has an empty rule", category.Label).
				WithDetail("label", category.Label)
		}
	}
	if c.Limits.RangeWarning <= 0 {
		return errors.New(errors.ErrConfigInvalid, "limits.range_warning must be positive")
	}
	if c.Limits.PracticalLimit <= 0 {
		return errors.New(errors.ErrConfigInvalid, "limits.practical_limit must be positive")
	}
	if c.Limits.PracticalLimit > practicalLimitCap {
		return errors.Newf(errors.ErrConfigInvalid, "limits.practical_limit above %d is not supported", practicalLimitCap)
	}
	if c.Limits.MaxRuleComplexity <= 0 {
		return errors.New(errors.ErrConfigInvalid, "limits.max_rule_complexity must be positive")
	}
	if c.Limits.MaxEvalSteps <= 0 {
		return errors.New(errors.ErrConfigInvalid, "limits.max_eval_steps must be positive")
	}
	return nil
}

// RuleSpecs converts the configured categories into compiler input,
// preserving order.
func (c *Config) RuleSpecs() []rangecat.RuleSpec {
	specs := make([]rangecat.RuleSpec, 0, len(c.Categories))
	for _, category := range c.Categories {
		specs = append(specs, rangecat.RuleSpec{Label: category.Label, Rule: category.Rule})
	}
	return specs
}

// AnalysisLimits merges the configured overrides onto the defaults.
func (c *Config) AnalysisLimits() rangecat.Limits {
	limits := rangecat.DefaultLimits()
	limits.RangeWarning = c.Limits.RangeWarning
	limits.PracticalLimit = c.Limits.PracticalLimit
	limits.MaxRuleComplexity = c.Limits.MaxRuleComplexity
	limits.MaxEvalSteps = c.Limits.MaxEvalSteps
	return limits
}

func defaultValues() map[string]interface{} {
	defaults := rangecat.DefaultLimits()
	return map[string]interface{}{
		"limits.range_warning":       defaults.RangeWarning,
		"limits.practical_limit":     defaults.PracticalLimit,
		"limits.max_rule_complexity": defaults.MaxRuleComplexity,
		"limits.max_eval_steps":      defaults.MaxEvalSteps,
		"output.dir":                 "output",
	}
}

func findConfigFile() (string, error) {
	if path := os.Getenv("RANGECAT_CONFIG"); path != "" {
		return path, nil
	}

	for _, name := range []string{"rangecat.json", "rangecat.yaml", "rangecat.yml", "rangecat.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	for _, name := range []string{"config.json", "config.yaml", "config.yml", "config.toml"} {
		path := filepath.Join(xdg.ConfigHome, "rangecat", name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", errors.New(errors.ErrConfigNotFound, "no configuration file found: create rangecat.json or pass --config")
}

func parserForPath(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".toml":
		return toml.Parser()
	default:
		return json.Parser()
	}
}
