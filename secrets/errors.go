package secrets

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
)

// AWS error code constants
const (
	ResourceNotFoundException   = "ResourceNotFoundException"
	NotFoundException           = "NotFoundException"
	AccessDeniedException       = "AccessDeniedException"
	InvalidCiphertextException  = "InvalidCiphertextException"
	IncorrectKeyException       = "IncorrectKeyException"
	DisabledException           = "DisabledException"
	DecryptionFailureException  = "DecryptionFailure"
	KMSInvalidStateException    = "KMSInvalidStateException"
	InvalidParameterException   = "InvalidParameterException"
	InvalidRequestException     = "InvalidRequestException"
	UnrecognizedClientException = "UnrecognizedClientException"
)

var (
	// ErrSecretNotFound is returned when the referenced secret or key does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when a secret exists but holds no string value.
	ErrSecretEmpty = errors.New("secret value is empty")

	// ErrAccessDenied is returned when the caller may not decrypt or read the credential.
	ErrAccessDenied = errors.New("access denied to secret")

	// ErrMalformedCredential is returned when a resolved value has no user or token.
	ErrMalformedCredential = errors.New("credential must have the form user:password")

	// ErrNoBackend is returned when a value needs a KMS or Secrets Manager client that was not configured.
	ErrNoBackend = errors.New("no client configured for credential backend")
)

// handleError classifies errors from AWS SDK operations. Messages carry the
// AWS error code but never the credential material.
func handleError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return ferrors.Wrap(ferrors.CodeNetwork, operation, err)
	}

	switch apiErr.ErrorCode() {
	case AccessDeniedException, UnrecognizedClientException:
		return ferrors.Wrap(ferrors.CodeForbidden, operation,
			fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.ErrorCode()))
	case ResourceNotFoundException, NotFoundException:
		return ferrors.Wrap(ferrors.CodeNotFound, operation,
			fmt.Errorf("%w: %s", ErrSecretNotFound, apiErr.ErrorCode()))
	case InvalidCiphertextException, IncorrectKeyException, DisabledException,
		DecryptionFailureException, KMSInvalidStateException,
		InvalidParameterException, InvalidRequestException:
		return ferrors.Newf(ferrors.CodeInvalidConfig, operation,
			"%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	default:
		return ferrors.Newf(ferrors.CodeUnknown, operation,
			"%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
}
