package secrets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
)

type mockKMSAPI struct {
	decryptFunc func(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
	calls       int
}

func (m *mockKMSAPI) Decrypt(
	ctx context.Context,
	params *kms.DecryptInput,
	optFns ...func(*kms.Options),
) (*kms.DecryptOutput, error) {
	m.calls++
	if m.decryptFunc != nil {
		return m.decryptFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("Decrypt not implemented")
}

type mockSecretsManagerAPI struct {
	getSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	calls              int
}

func (m *mockSecretsManagerAPI) GetSecretValue(
	ctx context.Context,
	params *secretsmanager.GetSecretValueInput,
	optFns ...func(*secretsmanager.Options),
) (*secretsmanager.GetSecretValueOutput, error) {
	m.calls++
	if m.getSecretValueFunc != nil {
		return m.getSecretValueFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("GetSecretValue not implemented")
}

func TestResolve_Empty(t *testing.T) {
	k := &mockKMSAPI{}
	r := NewResolver(WithKMS(k))

	cred, err := r.Resolve(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, cred)
	assert.Zero(t, k.calls)
}

func TestResolve_Plaintext(t *testing.T) {
	k := &mockKMSAPI{}
	r := NewResolver(WithKMS(k))

	cred, err := r.Resolve(context.Background(), "octocat:s3cr3t:with:colons")
	require.NoError(t, err)
	assert.Equal(t, "octocat", cred.User)
	assert.Equal(t, "s3cr3t:with:colons", cred.Password)
	assert.Zero(t, k.calls, "plaintext credentials must not reach KMS")
}

func TestResolve_KMS(t *testing.T) {
	ciphertext := []byte{0x01, 0x02, 0x03}
	k := &mockKMSAPI{
		decryptFunc: func(_ context.Context, in *kms.DecryptInput, _ ...func(*kms.Options)) (*kms.DecryptOutput, error) {
			assert.Equal(t, ciphertext, in.CiphertextBlob)
			return &kms.DecryptOutput{Plaintext: []byte("bot:token\n")}, nil
		},
	}
	r := NewResolver(WithKMS(k))

	cred, err := r.Resolve(context.Background(), base64.StdEncoding.EncodeToString(ciphertext))
	require.NoError(t, err)
	assert.Equal(t, &Credential{User: "bot", Password: "token"}, cred)
	assert.Equal(t, 1, k.calls)
}

func TestResolve_KMSErrors(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("blob"))

	tests := []struct {
		name     string
		raw      string
		kms      KMSAPI
		wantCode ferrors.ErrorCode
		wantIs   error
	}{
		{
			name:     "no backend",
			raw:      encoded,
			wantCode: ferrors.CodeInvalidConfig,
			wantIs:   ErrNoBackend,
		},
		{
			name:     "not base64",
			raw:      "not*base64",
			kms:      &mockKMSAPI{},
			wantCode: ferrors.CodeInvalidConfig,
		},
		{
			name: "access denied",
			raw:  encoded,
			kms: &mockKMSAPI{decryptFunc: func(context.Context, *kms.DecryptInput, ...func(*kms.Options)) (*kms.DecryptOutput, error) {
				return nil, &smithy.GenericAPIError{Code: AccessDeniedException, Message: "nope"}
			}},
			wantCode: ferrors.CodeForbidden,
			wantIs:   ErrAccessDenied,
		},
		{
			name: "key not found",
			raw:  encoded,
			kms: &mockKMSAPI{decryptFunc: func(context.Context, *kms.DecryptInput, ...func(*kms.Options)) (*kms.DecryptOutput, error) {
				return nil, &smithy.GenericAPIError{Code: NotFoundException}
			}},
			wantCode: ferrors.CodeNotFound,
			wantIs:   ErrSecretNotFound,
		},
		{
			name: "bad ciphertext",
			raw:  encoded,
			kms: &mockKMSAPI{decryptFunc: func(context.Context, *kms.DecryptInput, ...func(*kms.Options)) (*kms.DecryptOutput, error) {
				return nil, &smithy.GenericAPIError{Code: InvalidCiphertextException}
			}},
			wantCode: ferrors.CodeInvalidConfig,
		},
		{
			name: "transport failure",
			raw:  encoded,
			kms: &mockKMSAPI{decryptFunc: func(context.Context, *kms.DecryptInput, ...func(*kms.Options)) (*kms.DecryptOutput, error) {
				return nil, fmt.Errorf("dial tcp: connection refused")
			}},
			wantCode: ferrors.CodeNetwork,
		},
		{
			name: "empty plaintext",
			raw:  encoded,
			kms: &mockKMSAPI{decryptFunc: func(context.Context, *kms.DecryptInput, ...func(*kms.Options)) (*kms.DecryptOutput, error) {
				return &kms.DecryptOutput{}, nil
			}},
			wantCode: ferrors.CodeInvalidConfig,
			wantIs:   ErrSecretEmpty,
		},
		{
			name: "plaintext with empty user",
			raw:  encoded,
			kms: &mockKMSAPI{decryptFunc: func(context.Context, *kms.DecryptInput, ...func(*kms.Options)) (*kms.DecryptOutput, error) {
				return &kms.DecryptOutput{Plaintext: []byte(":secret")}, nil
			}},
			wantCode: ferrors.CodeInvalidConfig,
			wantIs:   ErrMalformedCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.kms != nil {
				opts = append(opts, WithKMS(tt.kms))
			}
			r := NewResolver(opts...)

			cred, err := r.Resolve(context.Background(), tt.raw)
			require.Error(t, err)
			assert.Nil(t, cred)
			assert.Equal(t, tt.wantCode, ferrors.CodeOf(err))
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestResolve_KMSBareToken(t *testing.T) {
	k := &mockKMSAPI{
		decryptFunc: func(context.Context, *kms.DecryptInput, ...func(*kms.Options)) (*kms.DecryptOutput, error) {
			return &kms.DecryptOutput{Plaintext: []byte("ghp_abc123")}, nil
		},
	}
	r := NewResolver(WithKMS(k))

	cred, err := r.Resolve(context.Background(), base64.StdEncoding.EncodeToString([]byte("blob")))
	require.NoError(t, err)
	assert.Equal(t, "ghp_abc123", cred.User)
	assert.Empty(t, cred.Password)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("ghp_abc123")), cred.BasicAuth())
}

func TestResolve_SecretsManager(t *testing.T) {
	arn := "arn:aws:secretsmanager:eu-west-1:123456789012:secret:github-abc"

	t.Run("success", func(t *testing.T) {
		sm := &mockSecretsManagerAPI{
			getSecretValueFunc: func(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
				assert.Equal(t, arn, aws.ToString(in.SecretId))
				return &secretsmanager.GetSecretValueOutput{SecretString: aws.String("deployer:pat")}, nil
			},
		}
		k := &mockKMSAPI{}
		r := NewResolver(WithKMS(k), WithSecretsManager(sm))

		cred, err := r.Resolve(context.Background(), arn)
		require.NoError(t, err)
		assert.Equal(t, "deployer", cred.User)
		assert.Equal(t, 1, sm.calls)
		assert.Zero(t, k.calls)
	})

	t.Run("not found", func(t *testing.T) {
		sm := &mockSecretsManagerAPI{
			getSecretValueFunc: func(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
				return nil, &smithy.GenericAPIError{Code: ResourceNotFoundException}
			},
		}
		_, err := NewResolver(WithSecretsManager(sm)).Resolve(context.Background(), arn)
		require.Error(t, err)
		assert.True(t, ferrors.HasCode(err, ferrors.CodeNotFound))
		assert.ErrorIs(t, err, ErrSecretNotFound)
	})

	t.Run("empty", func(t *testing.T) {
		sm := &mockSecretsManagerAPI{
			getSecretValueFunc: func(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
				return &secretsmanager.GetSecretValueOutput{}, nil
			},
		}
		_, err := NewResolver(WithSecretsManager(sm)).Resolve(context.Background(), arn)
		assert.ErrorIs(t, err, ErrSecretEmpty)
	})

	t.Run("no backend", func(t *testing.T) {
		_, err := NewResolver().Resolve(context.Background(), arn)
		assert.ErrorIs(t, err, ErrNoBackend)
	})
}

func TestResolve_NeverLogsPassword(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	k := &mockKMSAPI{
		decryptFunc: func(context.Context, *kms.DecryptInput, ...func(*kms.Options)) (*kms.DecryptOutput, error) {
			return &kms.DecryptOutput{Plaintext: []byte("bot:hunter2")}, nil
		},
	}
	r := NewResolver(WithKMS(k), WithLogger(logger))

	cred, err := r.Resolve(context.Background(), base64.StdEncoding.EncodeToString([]byte("x")))
	require.NoError(t, err)
	logger.Info("credential ready", "credential", cred)

	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), "bot")
}

func TestNewResolver_NilLogger(t *testing.T) {
	r := NewResolver(WithLogger(nil))
	require.NotNil(t, r.logger)
	_, err := r.Resolve(context.Background(), "a:b")
	require.NoError(t, err)
}
