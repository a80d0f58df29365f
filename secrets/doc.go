// Package secrets resolves the credential used to authenticate against the
// GitHub archive API.
//
// The configured value takes one of three forms:
//
//   - "user:password": used as is
//   - "arn:aws:secretsmanager:...": the secret string of that secret
//   - anything else: base64 KMS ciphertext whose plaintext is "user:password"
//     or a bare token
//
// # IAM Permissions
//
//   - kms:Decrypt - Required for encrypted values
//   - secretsmanager:GetSecretValue - Required for secret ARNs
//
// Credential values are never logged and Credential.String redacts them.
package secrets
