package base

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/teamsnap-tools/teamsnap/internal/config"
	"github.com/teamsnap-tools/teamsnap/pkg/auth"
	"github.com/teamsnap-tools/teamsnap/pkg/credentials"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

// EnvConfig names the HCL configuration file when -config is not given.
const EnvConfig = "TEAMSNAP_CONFIG"

// ClientFlags are the flags of commands that talk to the API.
type ClientFlags struct {
	ConfigPath      string
	CredentialsPath string
}

// Register adds the client flags to f.
func (cf *ClientFlags) Register(f *FlagSet) {
	f.StringVar(
		&cf.ConfigPath, "config", "",
		"[TEAMSNAP_CONFIG] Path to an HCL configuration file",
	)
	f.StringVar(
		&cf.CredentialsPath, "credentials", "",
		"Path to the credentials INI file (default: config.ini)",
	)
}

// LoadConfig loads .env, then the configuration named by the flags or
// TEAMSNAP_CONFIG, and applies the -credentials override.
func (c *Command) LoadConfig(cf *ClientFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	path := cf.ConfigPath
	if val, ok := os.LookupEnv(EnvConfig); ok && path == "" {
		path = val
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cf.CredentialsPath != "" {
		cfg.Auth.CredentialsFile = cf.CredentialsPath
	}

	return cfg, nil
}

// Authenticator returns an authenticator backed by the configured
// credentials file.
func (c *Command) Authenticator(cfg *config.Config) (*auth.Authenticator, error) {
	store := credentials.NewStore(afero.NewOsFs(), cfg.Auth.CredentialsFile)
	return auth.New(store, auth.Options{
		Scopes: cfg.Scopes(),
		Logger: c.Log.Named("auth"),
		UI:     c.UI,
	})
}

// AccessToken returns TEAMSNAP_ACCESS_TOKEN when set, otherwise a valid
// token from the credentials file. When interactive is true an expired or
// missing token starts the OAuth flow.
func (c *Command) AccessToken(ctx context.Context, cfg *config.Config, interactive bool) (string, error) {
	if tok := os.Getenv(teamsnap.EnvAccessToken); tok != "" {
		return tok, nil
	}

	a, err := c.Authenticator(cfg)
	if err != nil {
		return "", err
	}
	if interactive {
		return a.Token(ctx)
	}
	if !a.TokenValid() {
		return "", fmt.Errorf("no valid access token in %s; run \"teamsnap auth\" or set %s",
			cfg.Auth.CredentialsFile, teamsnap.EnvAccessToken)
	}
	return a.AccessToken(), nil
}

// Client returns an authenticated client, running the OAuth flow first when
// no valid token is stored. The API version is checked and logged.
func (c *Command) Client(ctx context.Context, cfg *config.Config) (*teamsnap.Client, error) {
	cc, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}

	cc.AccessToken, err = c.AccessToken(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	client, err := teamsnap.NewClient(cc, c.Log.Named("client"))
	if err != nil {
		return nil, err
	}

	if _, err := client.CheckAPIVersion(ctx); err != nil {
		c.Log.Warn("could not check API version", "error", err)
	}

	return client, nil
}
