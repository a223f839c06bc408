package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "WILDSUB"

// Supported output formats
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type Config struct {
	// Core settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose"`

	// Target
	Domain   string `mapstructure:"domain" yaml:"domain"`
	Wordlist string `mapstructure:"wordlist" yaml:"wordlist"`

	// Output
	Output string `mapstructure:"output" yaml:"output"`
	Format string `mapstructure:"format" yaml:"format"`

	// Concurrency and timeouts
	Threads int `mapstructure:"threads" yaml:"threads"`
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	DNS  DNSConfig  `mapstructure:"dns" yaml:"dns"`
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`
}

type DNSConfig struct {
	// Resolver is host or host:port; empty means the system resolv.conf
	Resolver      string `mapstructure:"resolver" yaml:"resolver"`
	WildcardTests int    `mapstructure:"wildcard_tests" yaml:"wildcard_tests"`
	LabelLength   int    `mapstructure:"label_length" yaml:"label_length"`
}

type HTTPConfig struct {
	Verify       bool   `mapstructure:"verify" yaml:"verify"`
	UserAgent    string `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	MaxRedirects int    `mapstructure:"max_redirects" yaml:"max_redirects"`
}

// TimeoutDuration is the per-operation timeout shared by DNS and HTTP
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Validate checks the values a scan needs
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Domain) == "" {
		errs = append(errs, errors.New("domain is required"))
	}
	if strings.TrimSpace(c.Wordlist) == "" {
		errs = append(errs, errors.New("wordlist is required"))
	}
	if c.Threads <= 0 {
		errs = append(errs, fmt.Errorf("threads must be positive, got %d", c.Threads))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %d", c.Timeout))
	}
	if c.DNS.WildcardTests <= 0 {
		errs = append(errs, fmt.Errorf("dns.wildcard_tests must be positive, got %d", c.DNS.WildcardTests))
	}
	if c.DNS.LabelLength <= 0 {
		errs = append(errs, fmt.Errorf("dns.label_length must be positive, got %d", c.DNS.LabelLength))
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatCSV:
	default:
		errs = append(errs, fmt.Errorf("unsupported format %q", c.Format))
	}

	return errors.Join(errs...)
}

// Load reads configuration from defaults, an optional config file, the
// environment and the given flags, in increasing precedence.
// Without configFile, $HOME/.wildsub/config.{yaml,json,toml} is used if present.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".wildsub"))
		}
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file must exist; the search paths are optional
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("unable to bind flag %q: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(cfg.Domain), "."))
	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	return &cfg, nil
}

// FlagKeys maps config keys to the CLI flag names that override them
var FlagKeys = map[string]string{
	"domain":       "domain",
	"wordlist":     "wordlist",
	"threads":      "threads",
	"output":       "output",
	"format":       "format",
	"timeout":      "timeout",
	"verbose":      "verbose",
	"log_level":    "log-level",
	"log_file":     "log-file",
	"http.verify":  "http-verify",
	"dns.resolver": "resolver",
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Format:   FormatText,
		Threads:  10,
		Timeout:  5,
		DNS: DNSConfig{
			WildcardTests: 5,
			LabelLength:   10,
		},
		HTTP: HTTPConfig{
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			MaxBodyBytes: 1024 * 1024,
			MaxRedirects: 10,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	// Core
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("verbose", d.Verbose)

	// Target
	v.SetDefault("domain", d.Domain)
	v.SetDefault("wordlist", d.Wordlist)

	// Output
	v.SetDefault("output", d.Output)
	v.SetDefault("format", d.Format)

	// Concurrency
	v.SetDefault("threads", d.Threads)
	v.SetDefault("timeout", d.Timeout)

	// DNS
	v.SetDefault("dns.resolver", d.DNS.Resolver)
	v.SetDefault("dns.wildcard_tests", d.DNS.WildcardTests)
	v.SetDefault("dns.label_length", d.DNS.LabelLength)

	// HTTP
	v.SetDefault("http.verify", d.HTTP.Verify)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("http.max_redirects", d.HTTP.MaxRedirects)
}

// WriteDefault writes the default configuration as YAML to path.
// It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("unable to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("unable to encode default config: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("unable to create config file: %w", err)
	}
	defer f.Close()

	header := "# wildsub configuration\n# Keys may also be set with WILDSUB_<KEY> environment variables\n"
	if _, err := f.WriteString(header); err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}
