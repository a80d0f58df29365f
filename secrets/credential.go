package secrets

import (
	"encoding/base64"
	"log/slog"
	"strings"
)

// Credential is a user name and password pair for HTTP Basic authentication.
type Credential struct {
	User     string
	Password string

	// bare marks a value without a colon, such as a personal access token.
	bare bool
}

// ParseCredential splits "user:password" at the first colon. A value
// without a colon is a bare token and is sent verbatim.
func ParseCredential(s string) (*Credential, error) {
	s = strings.TrimSpace(s)
	user, password, ok := strings.Cut(s, ":")
	if user == "" {
		return nil, ErrMalformedCredential
	}
	return &Credential{User: user, Password: password, bare: !ok}, nil
}

// BasicAuth returns the value of an Authorization header.
func (c *Credential) BasicAuth() string {
	value := c.User + ":" + c.Password
	if c.bare {
		value = c.User
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(value))
}

// String implements fmt.Stringer without revealing the password.
func (c *Credential) String() string {
	if c == nil {
		return "<none>"
	}
	if c.bare {
		return "[REDACTED]"
	}
	return c.User + ":[REDACTED]"
}

// LogValue implements slog.LogValuer so the password stays out of structured logs.
func (c *Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}
