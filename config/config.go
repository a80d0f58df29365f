// Package config loads the deployer's settings from the Lambda environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
)

// Config represents the complete deployer configuration.
type Config struct {
	// GitHubAuth is "user:password", a base64 KMS ciphertext or a Secrets Manager ARN.
	GitHubAuth string `env:"GITHUB_AUTH"`

	// Debug is set by the mere presence of DEBUG in the environment.
	Debug bool `env:"-"`

	BlogcPath     string `env:"BLOGC"`
	MakePath      string `env:"MAKE" envDefault:"make"`
	OutputDir     string `env:"OUTPUT_DIR" envDefault:"_build_lambda"`
	PrimaryBranch string `env:"PRIMARY_BRANCH" envDefault:"master"`
	ScratchDir    string `env:"SCRATCH_DIR" envDefault:"/tmp"`
	GitHubAPIURL  string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`

	// S3Endpoint points the bucket client at an alternative endpoint such as LocalStack.
	S3Endpoint string `env:"AWS_ENDPOINT_URL_S3"`
}

type loadOptions struct {
	environ    map[string]string
	executable string
}

// Option configures Load.
type Option func(*loadOptions)

// WithEnvironment replaces the process environment as the source of settings.
func WithEnvironment(environ map[string]string) Option {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// WithExecutable sets the executable path used to derive the default BLOGC.
func WithExecutable(path string) Option {
	return func(o *loadOptions) {
		o.executable = path
	}
}

// Load parses the environment, applies defaults and validates the result.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.environ == nil {
		o.environ = env.ToMap(os.Environ())
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: o.environ}); err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInvalidConfig, "load config", err)
	}
	_, cfg.Debug = o.environ["DEBUG"]

	if err := cfg.applyDefaults(o.executable); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInvalidConfig, "load config", err)
	}

	return &cfg, nil
}

// applyDefaults fills in values that depend on the runtime.
func (c *Config) applyDefaults(executable string) error {
	if c.BlogcPath != "" {
		return nil
	}
	if executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return ferrors.Wrap(ferrors.CodeInvalidConfig, "load config",
				fmt.Errorf("BLOGC is unset and the executable path is unknown: %w", err))
		}
		executable = exe
	}
	c.BlogcPath = filepath.Join(filepath.Dir(executable), "blogc")
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.PrimaryBranch == "" {
		return fmt.Errorf("PRIMARY_BRANCH must not be empty")
	}
	if c.MakePath == "" {
		return fmt.Errorf("MAKE must not be empty")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	if filepath.IsAbs(c.OutputDir) {
		return fmt.Errorf("OUTPUT_DIR must be relative to the snapshot root: %s", c.OutputDir)
	}
	if clean := filepath.Clean(c.OutputDir); clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("OUTPUT_DIR must stay inside the snapshot root: %s", c.OutputDir)
	}

	if !filepath.IsAbs(c.ScratchDir) {
		return fmt.Errorf("SCRATCH_DIR must be an absolute path: %s", c.ScratchDir)
	}

	if err := validateURL("GITHUB_API_URL", c.GitHubAPIURL); err != nil {
		return err
	}
	if c.S3Endpoint != "" {
		if err := validateURL("AWS_ENDPOINT_URL_S3", c.S3Endpoint); err != nil {
			return err
		}
	}

	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL: %s", name, raw)
	}
	return nil
}

// PrimaryRef returns the git ref pushes must target to trigger a deployment.
func (c *Config) PrimaryRef() string {
	return "refs/heads/" + c.PrimaryBranch
}
