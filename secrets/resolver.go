package secrets

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
)

const secretARNPrefix = "arn:aws:secretsmanager:"

// Resolver turns a configured credential value into a Credential.
type Resolver struct {
	kms    KMSAPI
	sm     SecretsManagerAPI
	logger *slog.Logger
}

// NewResolver creates a Resolver. Backends not supplied through options
// cause values that need them to fail with ErrNoBackend.
func NewResolver(opts ...Option) *Resolver {
	options := applyOptions(opts...)
	return &Resolver{
		kms:    options.kms,
		sm:     options.sm,
		logger: options.logger,
	}
}

// NewResolverFromConfig creates a Resolver backed by KMS and Secrets Manager
// clients built from cfg. Explicit WithKMS or WithSecretsManager options win.
func NewResolverFromConfig(cfg aws.Config, opts ...Option) *Resolver {
	base := []Option{
		WithKMS(kms.NewFromConfig(cfg)),
		WithSecretsManager(secretsmanager.NewFromConfig(cfg)),
	}
	return NewResolver(append(base, opts...)...)
}

// Resolve returns the credential described by raw. An empty raw value
// means anonymous access and yields a nil Credential.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Credential, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		r.logger.Debug("no credential configured")
		return nil, nil
	case strings.HasPrefix(raw, secretARNPrefix):
		return r.fromSecretsManager(ctx, raw)
	case strings.Contains(raw, ":"):
		r.logger.Debug("using plaintext credential")
		return r.parse("resolve", raw)
	default:
		return r.fromKMS(ctx, raw)
	}
}

func (r *Resolver) fromKMS(ctx context.Context, raw string) (*Credential, error) {
	const op = "kms decrypt"
	if r.kms == nil {
		return nil, ferrors.Wrap(ferrors.CodeInvalidConfig, op, ErrNoBackend)
	}

	blob, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, ferrors.Newf(ferrors.CodeInvalidConfig, op, "credential is neither user:password nor base64: %w", err)
	}

	r.logger.Debug("decrypting credential with KMS", "ciphertext_bytes", len(blob))
	out, err := r.kms.Decrypt(ctx, &kms.DecryptInput{CiphertextBlob: blob})
	if err != nil {
		return nil, handleError(err, op)
	}
	if len(out.Plaintext) == 0 {
		return nil, ferrors.Wrap(ferrors.CodeInvalidConfig, op, ErrSecretEmpty)
	}
	return r.parse(op, string(out.Plaintext))
}

func (r *Resolver) fromSecretsManager(ctx context.Context, arn string) (*Credential, error) {
	const op = "get secret value"
	if r.sm == nil {
		return nil, ferrors.Wrap(ferrors.CodeInvalidConfig, op, ErrNoBackend)
	}

	r.logger.Debug("reading credential from Secrets Manager", "secret_id", arn)
	out, err := r.sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(arn)})
	if err != nil {
		return nil, handleError(err, op)
	}
	value := aws.ToString(out.SecretString)
	if value == "" {
		return nil, ferrors.Wrap(ferrors.CodeInvalidConfig, op, ErrSecretEmpty)
	}
	return r.parse(op, value)
}

func (r *Resolver) parse(op, value string) (*Credential, error) {
	cred, err := ParseCredential(value)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInvalidConfig, op, err)
	}
	r.logger.Info("resolved credential", "user", cred.User)
	return cred, nil
}
