package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cruffinoni/regularfmt/internal/format"
	"github.com/cruffinoni/regularfmt/internal/fswalk"
)

const (
	DefaultFile       = ".regularfmt.yaml"
	DefaultPrintWidth = 80
	DefaultTabSize    = 2
)

// Config stores runtime options for one formatting run.
type Config struct {
	Paths []string `yaml:"paths"`

	PrintWidth int    `yaml:"print_width"`
	TabSize    int    `yaml:"tab_size"`
	Glob       string `yaml:"glob"`
	// Raw treats inputs as bare templates instead of host sources.
	Raw bool `yaml:"raw"`

	Write  bool   `yaml:"write"`
	Out    string `yaml:"out"`
	Verify bool   `yaml:"verify"`
	Jobs   int    `yaml:"jobs"`

	ReportJSON string `yaml:"report_json"`
	ReportCSV  string `yaml:"report_csv"`

	Verbose bool `yaml:"verbose"`
}

// Default returns baseline configuration values used by CLI flags.
func Default() Config {
	return Config{
		PrintWidth: DefaultPrintWidth,
		TabSize:    DefaultTabSize,
		Glob:       fswalk.DefaultPattern,
		Jobs:       runtime.GOMAXPROCS(0),
	}
}

// Load reads a YAML config file over the defaults. An empty path looks for
// DefaultFile in the working directory and reports found=false when it is
// absent; an explicit path must exist.
func Load(path string) (cfg Config, found bool, err error) {
	cfg = Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, false, fmt.Errorf("decode config %q: %w", path, err)
	}
	return cfg, true, nil
}

// Validate normalizes and checks the configuration before execution.
func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		return fmt.Errorf("at least one input path is required")
	}
	if c.PrintWidth <= 0 {
		return fmt.Errorf("--print-width must be > 0, got %d", c.PrintWidth)
	}
	if c.TabSize <= 0 || c.TabSize%2 != 0 {
		return fmt.Errorf("--tab-size must be a positive even number, got %d", c.TabSize)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("--jobs must be >= 1, got %d", c.Jobs)
	}
	if c.Write && strings.TrimSpace(c.Out) != "" {
		return fmt.Errorf("--write and --out cannot be combined")
	}

	if strings.TrimSpace(c.Glob) == "" {
		c.Glob = fswalk.DefaultPattern
	}
	for i, p := range c.Paths {
		c.Paths[i] = filepath.Clean(p)
		if _, err := os.Stat(c.Paths[i]); err != nil {
			return fmt.Errorf("input path %q is not accessible: %w", p, err)
		}
	}
	if c.Out != "" {
		c.Out = filepath.Clean(c.Out)
	}
	return nil
}

// FormatOptions returns the formatter options the configuration selects.
func (c Config) FormatOptions() format.Options {
	opts := format.DefaultOptions()
	opts.PrintWidth = c.PrintWidth
	opts.IndentWidth = c.TabSize
	return opts
}
