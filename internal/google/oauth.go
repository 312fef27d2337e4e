package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

const oobRedirect = "urn:ietf:wg:oauth:2.0:oob"

// ErrNoClientCredentials is returned when the OAuth client id or
// secret is not configured in the environment.
var ErrNoClientCredentials = fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")

// getOAuthConfig returns the OAuth2 configuration. The client id and
// secret come from the environment; they are OAuth app credentials,
// not user credentials, but are still kept out of the binary.
func getOAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, ErrNoClientCredentials
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oobRedirect,
		Scopes: []string{
			gmail.GmailReadonlyScope,
		},
	}, nil
}

func tokenFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "mailsift", "google.json"), nil
}

// HasToken reports whether a stored OAuth token exists.
func HasToken() bool {
	path, err := tokenFilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// GetAuthURL returns the URL the user visits to authorize mailbox
// access.
func GetAuthURL() (string, error) {
	conf, err := getOAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// SaveToken exchanges an authorization code and stores the resulting
// token in the user cache directory with owner-only permissions.
func SaveToken(ctx context.Context, authCode string) error {
	conf, err := getOAuthConfig()
	if err != nil {
		return err
	}

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// GetTokenSource returns a refreshing token source backed by the
// stored token.
func GetTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	conf, err := getOAuthConfig()
	if err != nil {
		return nil, err
	}

	path, err := tokenFilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no stored Google OAuth token, run the auth command first")
	}

	var t oauth2.Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}

	return conf.TokenSource(ctx, &t), nil
}

// AccessToken returns a currently valid access token, refreshing the
// stored one if necessary.
func AccessToken(ctx context.Context) (string, error) {
	ts, err := GetTokenSource(ctx)
	if err != nil {
		return "", err
	}
	t, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	return t.AccessToken, nil
}
