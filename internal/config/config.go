package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/trainkit/pkg/trainconfig"
)

// EnvPrefix is shared with the training configuration. Only the keys of
// Config are read from it: TRAINKIT_OUTPUT__QUALITY=80 sets output.quality.
const EnvPrefix = trainconfig.EnvPrefix

// Config holds the settings of the trainkit command line tool
type Config struct {
	Debug   bool          `koanf:"debug" yaml:"debug"`
	Input   InputConfig   `koanf:"input" yaml:"input"`
	Output  OutputConfig  `koanf:"output" yaml:"output"`
	Overlay OverlayConfig `koanf:"overlay" yaml:"overlay"`
}

// InputConfig holds configuration for image loading
type InputConfig struct {
	SupportedFormats []string `koanf:"supported_formats" yaml:"supported_formats"`
	MinImageSize     int      `koanf:"min_image_size" yaml:"min_image_size"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `koanf:"format" yaml:"format"`
	Quality  int    `koanf:"quality" yaml:"quality"`
	Lossless bool   `koanf:"lossless" yaml:"lossless"`
	Prefix   string `koanf:"prefix" yaml:"prefix"`
	Suffix   string `koanf:"suffix" yaml:"suffix"`
}

// OverlayConfig holds configuration for the debug overlays of boxes
type OverlayConfig struct {
	Format string `koanf:"format" yaml:"format"`
	Suffix string `koanf:"suffix" yaml:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Debug: false,
		Input: InputConfig{
			SupportedFormats: []string{"jpg", "jpeg", "png", "webp"},
			MinImageSize:     1,
		},
		Output: OutputConfig{
			Format:   "png",
			Quality:  90,
			Lossless: false,
			Prefix:   "",
			Suffix:   "_preprocessed",
		},
		Overlay: OverlayConfig{
			Format: "png",
			Suffix: "_overlay",
		},
	}
}

// Load reads the settings from filename, when not empty, on top of the
// defaults, then applies the TRAINKIT_ environment variables
func Load(filename string) (*Config, error) {
	k := koanf.New(".")

	defaults, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if filename != "" {
		parser, err := trainconfig.Parser(filepath.Ext(filename))
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(filename), parser); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}

	var c Config
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	return &c, nil
}

func envKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
}

func toMap(c *Config) (map[string]interface{}, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	m := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return m, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return errors.New("output.quality must be between 1 and 100")
	}

	if c.Input.MinImageSize < 1 {
		return errors.New("input.min_image_size must be positive")
	}

	if len(c.Input.SupportedFormats) == 0 {
		return errors.New("input.supported_formats cannot be empty")
	}

	if !isImageFormat(c.Output.Format) {
		return errors.Errorf("output.format %q is not one of jpg, png, webp", c.Output.Format)
	}

	if !isImageFormat(c.Overlay.Format) {
		return errors.Errorf("overlay.format %q is not one of jpg, png, webp", c.Overlay.Format)
	}

	return nil
}

func isImageFormat(format string) bool {
	switch strings.ToLower(format) {
	case "jpg", "jpeg", "png", "webp":
		return true
	}
	return false
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./trainkit.yaml"
	}
	return filepath.Join(home, ".config", "trainkit", "config.yaml")
}
