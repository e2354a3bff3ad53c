// Package credentials persists TeamSnap OAuth client settings and tokens in an
// INI file with a single [teamsnap] section:
//
//	[teamsnap]
//	client_id        = abc
//	client_secret    = def
//	redirect_uri     = urn:ietf:wg:oauth:2.0:oob
//	access_token     = ...
//	refresh_token    = ...
//	token_expires_at = 2025-01-15T16:00:00
package credentials

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// Section is the INI section holding the credential.
	Section = "teamsnap"

	// DefaultFile is the credentials file used when none is configured.
	DefaultFile = "config.ini"

	// DefaultRedirectURI is the out-of-band redirect used by the OAuth flow.
	DefaultRedirectURI = "urn:ietf:wg:oauth:2.0:oob"

	PlaceholderClientID     = "YOUR_CLIENT_ID_HERE"
	PlaceholderClientSecret = "YOUR_CLIENT_SECRET_HERE"
)

// Credential is the OAuth client registration plus the current token pair.
type Credential struct {
	ClientID     string `ini:"client_id" json:"client_id"`
	ClientSecret string `ini:"client_secret" json:"client_secret"`
	RedirectURI  string `ini:"redirect_uri" json:"redirect_uri"`
	AccessToken  string `ini:"access_token" json:"access_token"`
	RefreshToken string `ini:"refresh_token" json:"refresh_token"`

	// ExpiresAt is zero when the file records no expiry or an expiry that
	// could not be parsed.
	ExpiresAt time.Time `ini:"-" json:"-"`
}

// ConfigError reports a credentials file that cannot be used to authenticate.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid credentials: %s", e.Reason)
	}
	return fmt.Sprintf("invalid credentials in %s: %s", e.Path, e.Reason)
}

// Valid reports whether the access token can be used at time now. A
// credential without a token is never valid; one without an expiry always is.
func (c *Credential) Valid(now time.Time) bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(c.ExpiresAt)
}

// SetToken records a freshly issued token pair expiring after expiresIn.
func (c *Credential) SetToken(access, refresh string, now time.Time, expiresIn time.Duration) {
	c.AccessToken = access
	c.RefreshToken = refresh
	c.ExpiresAt = now.Add(expiresIn)
}

// Validate checks that the client registration is filled in.
func (c *Credential) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ClientID,
			validation.Required.Error("client_id must be set"),
			validation.NotIn(PlaceholderClientID).Error("replace the placeholder client_id with your actual credentials"),
		),
		validation.Field(&c.ClientSecret,
			validation.Required.Error("client_secret must be set"),
			validation.NotIn(PlaceholderClientSecret).Error("replace the placeholder client_secret with your actual credentials"),
		),
	); err != nil {
		return &ConfigError{Reason: err.Error()}
	}
	return nil
}
