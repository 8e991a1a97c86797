package gwbasic

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the interpreter settings read from a YAML file.
type Config struct {
	DoubleMath    bool   `yaml:"double_math"`
	TraceExec     bool   `yaml:"trace_exec"`
	TraceDump     bool   `yaml:"trace_dump"`
	PrintStats    bool   `yaml:"print_stats"`
	ForStackMax   int    `yaml:"for_stack_max"`
	GosubStackMax int    `yaml:"gosub_stack_max"`
	WhileStackMax int    `yaml:"while_stack_max"`
	LogLevel      string `yaml:"log_level"`
	TraceFile     string `yaml:"trace_file"`
	NoColor       bool   `yaml:"no_color"`
}

func DefaultConfig() Config {

	return Config{
		ForStackMax:   forStackMax,
		GosubStackMax: gosubStackMax,
		WhileStackMax: whileStackMax,
		LogLevel:      "info",
	}
}

// LoadConfig reads path over the defaults.  Unknown keys are an error.
func LoadConfig(path string) (Config, error) {

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return DecodeConfig(f)
}

func DecodeConfig(rd io.Reader) (Config, error) {

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {

	if c.ForStackMax < 1 || c.GosubStackMax < 1 || c.WhileStackMax < 1 {
		return errors.New("stack limits must be positive")
	}

	switch c.LogLevel {
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)

	case "debug", "info", "warn", "error":
	}

	return nil
}
