package secrets

import (
	"log/slog"
)

// resolverOptions holds configuration options for the Resolver.
type resolverOptions struct {
	logger *slog.Logger
	kms    KMSAPI
	sm     SecretsManagerAPI
}

// Option configures a Resolver.
type Option func(*resolverOptions)

// WithLogger sets a custom logger for the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolverOptions) {
		o.logger = logger
	}
}

// WithKMS sets the client used to decrypt KMS ciphertext.
func WithKMS(api KMSAPI) Option {
	return func(o *resolverOptions) {
		o.kms = api
	}
}

// WithSecretsManager sets the client used to read secrets by ARN.
func WithSecretsManager(api SecretsManagerAPI) Option {
	return func(o *resolverOptions) {
		o.sm = api
	}
}

func defaultOptions() *resolverOptions {
	return &resolverOptions{
		logger: slog.New(slog.DiscardHandler),
	}
}

func applyOptions(opts ...Option) *resolverOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.New(slog.DiscardHandler)
	}
	return options
}
