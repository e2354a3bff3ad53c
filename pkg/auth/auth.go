// Package auth runs the TeamSnap OAuth 2.0 authorization-code flow using the
// out-of-band redirect: the user authorizes the application in a browser,
// TeamSnap displays a code, and the user pastes the code back into the CLI.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"github.com/teamsnap-tools/teamsnap/pkg/credentials"
)

const (
	DefaultAuthURL  = "https://auth.teamsnap.com/oauth/authorize"
	DefaultTokenURL = "https://auth.teamsnap.com/oauth/token"

	// DefaultExpiresIn is assumed when the token response has no expires_in.
	DefaultExpiresIn = 7200 * time.Second
)

// DefaultScopes are requested when no scopes are configured.
var DefaultScopes = []string{"read", "write"}

// ErrNoAuthorizationCode is returned when the user submits an empty code.
var ErrNoAuthorizationCode = errors.New("no authorization code provided")

// AuthError is returned when the token endpoint rejects a code exchange.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token exchange failed: %d - %s", e.StatusCode, e.Body)
}

// Options configures an Authenticator. Zero values select the TeamSnap
// defaults.
type Options struct {
	AuthURL  string
	TokenURL string
	Scopes   []string

	Logger     hclog.Logger
	UI         cli.Ui
	HTTPClient *http.Client

	// OpenBrowser opens the authorization URL. Defaults to browser.OpenURL.
	OpenBrowser func(url string) error

	Now func() time.Time
}

// Authenticator obtains access tokens and persists them in a credentials
// store.
type Authenticator struct {
	store  *credentials.Store
	cred   *credentials.Credential
	oauth  *oauth2.Config
	log    hclog.Logger
	ui     cli.Ui
	client *http.Client
	open   func(string) error
	now    func() time.Time
}

// New loads the credential from store and validates the client registration.
// Configuration errors are returned as *credentials.ConfigError.
func New(store *credentials.Store, opts Options) (*Authenticator, error) {
	cred, err := store.Load()
	if err != nil {
		return nil, err
	}
	if err := cred.Validate(); err != nil {
		var cfgErr *credentials.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = store.Path()
		}
		return nil, err
	}

	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if len(opts.Scopes) == 0 {
		opts.Scopes = DefaultScopes
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = browser.OpenURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Authenticator{
		store: store,
		cred:  cred,
		oauth: &oauth2.Config{
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			RedirectURL:  cred.RedirectURI,
			Scopes:       opts.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   opts.AuthURL,
				TokenURL:  opts.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		log:    opts.Logger,
		ui:     opts.UI,
		client: opts.HTTPClient,
		open:   opts.OpenBrowser,
		now:    opts.Now,
	}, nil
}

// AuthorizationURL returns the URL the user visits to authorize the
// application.
func (a *Authenticator) AuthorizationURL() string {
	return a.oauth.AuthCodeURL(uuid.NewString())
}

// Exchange trades an authorization code for a token pair and persists it.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*credentials.Credential, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNoAuthorizationCode
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)
	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, &AuthError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
			}
		}
		return nil, fmt.Errorf("error exchanging authorization code: %w", err)
	}

	a.cred.SetToken(tok.AccessToken, tok.RefreshToken, a.now(), expiresIn(tok))
	if err := a.store.Save(a.cred); err != nil {
		return nil, fmt.Errorf("error saving token: %w", err)
	}
	a.log.Info("access token saved",
		"path", a.store.Path(),
		"expires_at", a.cred.ExpiresAt.Format(time.RFC3339))

	return a.Credential(), nil
}

// Authenticate runs the interactive flow: open the browser, ask for the code
// and exchange it. Every call starts over from the browser step.
func (a *Authenticator) Authenticate(ctx context.Context) (string, error) {
	if a.ui == nil {
		return "", errors.New("interactive authentication requires a UI")
	}

	rule := strings.Repeat("=", 70)
	authURL := a.AuthorizationURL()

	a.ui.Output(rule)
	a.ui.Output("TeamSnap OAuth 2.0 Authentication (Out-of-Band)")
	a.ui.Output(rule)
	a.ui.Output(fmt.Sprintf("\nUsing redirect URI: %s", a.cred.RedirectURI))
	a.ui.Output("Opening browser for authorization...")
	a.ui.Output("TeamSnap will display an authorization code in your browser.")
	a.ui.Output("\nIf the browser doesn't open automatically, visit this URL:")
	a.ui.Output(fmt.Sprintf("  %s\n", authURL))

	if err := a.open(authURL); err != nil {
		a.log.Debug("error opening browser", "error", err)
		a.ui.Warn("Could not open browser automatically")
	}

	a.ui.Output(rule)
	a.ui.Output("After authorizing the application in your browser:")
	a.ui.Output("1. TeamSnap will display an authorization code")
	a.ui.Output("2. Copy the code from the browser")
	a.ui.Output("3. Paste it below")
	a.ui.Output(rule)

	code, err := a.ui.Ask("Enter the authorization code:")
	if err != nil {
		return "", fmt.Errorf("error reading authorization code: %w", err)
	}

	a.ui.Info("Exchanging authorization code for access token...")
	cred, err := a.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	a.ui.Output(rule)
	a.ui.Info("Authentication complete!")
	a.ui.Output(rule)
	a.ui.Output(fmt.Sprintf("Access token saved to: %s", a.store.Path()))

	return cred.AccessToken, nil
}

// Token returns a valid access token, running the interactive flow first
// when the stored one is missing or expired.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	if a.TokenValid() {
		return a.AccessToken(), nil
	}
	if a.ui != nil {
		a.ui.Warn("No valid access token found. Starting authentication...")
	}
	return a.Authenticate(ctx)
}

// AccessToken returns the stored access token, which may be empty or expired.
func (a *Authenticator) AccessToken() string {
	return a.cred.AccessToken
}

// TokenValid reports whether the stored access token is unexpired.
func (a *Authenticator) TokenValid() bool {
	return a.cred.Valid(a.now())
}

// Credential returns a copy of the current credential.
func (a *Authenticator) Credential() *credentials.Credential {
	c := *a.cred
	return &c
}

func expiresIn(tok *oauth2.Token) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return DefaultExpiresIn
}
