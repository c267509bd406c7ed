package spokenform

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/shibukawa/spokenform/commandserver"
	"github.com/shibukawa/spokenform/grammar"
	"github.com/shibukawa/spokenform/lexicon"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = "spokenform.yaml"

// Config represents the spokenform configuration
type Config struct {
	Vocabulary      VocabularyConfig `yaml:"vocabulary"`
	VocabularyFiles []string         `yaml:"vocabulary_files"`
	Bridge          BridgeConfig     `yaml:"bridge"`
	Keyboard        KeyboardConfig   `yaml:"keyboard"`
	Cheatsheet      CheatsheetConfig `yaml:"cheatsheet"`

	// layers read from VocabularyFiles, in order
	layers []VocabularyConfig
}

// VocabularyConfig binds spoken phrases to canonical tokens, one map per
// list. An empty token removes a default phrase.
type VocabularyConfig struct {
	HeadTail  map[string]string `yaml:"head_tail"`
	Interior  map[string]string `yaml:"interior"`
	Swallowed map[string]string `yaml:"swallowed"`
	Marks     map[string]string `yaml:"marks"`
	Actions   map[string]string `yaml:"actions"`
}

// BridgeConfig configures the command server bridge
type BridgeConfig struct {
	Dir     string        `yaml:"dir"     env:"SPOKENFORM_BRIDGE_DIR"`
	Timeout time.Duration `yaml:"timeout" env:"SPOKENFORM_BRIDGE_TIMEOUT"`
	Trigger []string      `yaml:"trigger"`
}

// KeyboardConfig holds the argv prefixes used to type into the editor
type KeyboardConfig struct {
	Insert []string `yaml:"insert"`
	Key    []string `yaml:"key"`
}

// CheatsheetConfig configures where the rendered cheat sheet is written
type CheatsheetConfig struct {
	Output string `yaml:"output"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// strict mode rejects unknown keys
		err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&config.Bridge); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	expandConfigEnvVars(&config)

	if err := config.loadVocabularyFiles(filepath.Dir(configPath)); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

func (c *Config) loadVocabularyFiles(baseDir string) error {
	c.layers = make([]VocabularyConfig, 0, len(c.VocabularyFiles))

	for _, file := range c.VocabularyFiles {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrVocabularyFile, file, err)
		}

		var layer VocabularyConfig

		err = yaml.UnmarshalWithOptions(data, &layer, yaml.Strict())
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrVocabularyFile, file, err)
		}

		c.layers = append(c.layers, layer)
	}

	return nil
}

// Vocabularies merges the defaults, the vocabulary files in order and the
// inline vocabulary section.
func (c *Config) Vocabularies() grammar.Vocabularies {
	layers := make([]grammar.Vocabularies, 0, len(c.layers)+1)
	for _, layer := range c.layers {
		layers = append(layers, layer.vocabularies())
	}
	layers = append(layers, c.Vocabulary.vocabularies())

	return grammar.DefaultVocabularies().Merge(layers...)
}

func (v VocabularyConfig) vocabularies() grammar.Vocabularies {
	return grammar.Vocabularies{
		HeadTail:  lexicon.Vocabulary(v.HeadTail),
		Interior:  lexicon.Vocabulary(v.Interior),
		Swallowed: lexicon.Vocabulary(v.Swallowed),
		Marks:     lexicon.Vocabulary(v.Marks),
		Actions:   lexicon.Vocabulary(v.Actions),
	}
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Bridge.Timeout < 0 {
		return fmt.Errorf("%w: bridge.timeout must not be negative, got %s", ErrConfigValidation, config.Bridge.Timeout)
	}

	for name, argv := range map[string][]string{
		"bridge.trigger":  config.Bridge.Trigger,
		"keyboard.insert": config.Keyboard.Insert,
		"keyboard.key":    config.Keyboard.Key,
	} {
		if len(argv) > 0 && argv[0] == "" {
			return fmt.Errorf("%w: %s must start with a program name", ErrConfigValidation, name)
		}
	}

	// builds every lexicon, so phrase collisions surface here
	if _, err := grammar.New(config.Vocabularies()); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	return nil
}

// applyDefaults fills the values the file left empty
func applyDefaults(config *Config) {
	if config.Bridge.Dir == "" {
		config.Bridge.Dir = commandserver.DefaultDir()
	}

	if config.Bridge.Timeout == 0 {
		config.Bridge.Timeout = commandserver.DefaultTimeout
	}

	if len(config.Bridge.Trigger) == 0 {
		config.Bridge.Trigger = []string{"xdotool", "key", "ctrl+shift+F17"}
	}

	if len(config.Keyboard.Insert) == 0 {
		config.Keyboard.Insert = []string{"xdotool", "type", "--"}
	}

	if len(config.Keyboard.Key) == 0 {
		config.Keyboard.Key = []string{"xdotool", "key"}
	}

	if config.Cheatsheet.Output == "" {
		config.Cheatsheet.Output = filepath.Join(os.TempDir(), "cursorless-cheatsheet.html")
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}

	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	return nil
}

// expandConfigEnvVars expands ${VAR} and $VAR in paths and argv
func expandConfigEnvVars(config *Config) {
	config.Bridge.Dir = os.ExpandEnv(config.Bridge.Dir)
	config.Cheatsheet.Output = os.ExpandEnv(config.Cheatsheet.Output)

	for _, list := range [][]string{
		config.VocabularyFiles,
		config.Bridge.Trigger,
		config.Keyboard.Insert,
		config.Keyboard.Key,
	} {
		for i, s := range list {
			list[i] = os.ExpandEnv(s)
		}
	}
}
