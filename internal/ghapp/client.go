package ghapp

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v80/github"
)

// appTransport signs every request with a short-lived GitHub App JWT.
type appTransport struct {
	appID int64
	key   *rsa.PrivateKey
	base  http.RoundTripper
}

func (t *appTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer: fmt.Sprintf("%d", t.appID),
		// backdate to tolerate clock drift, GitHub allows at most 10 minutes
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(t.key)
	if err != nil {
		return nil, fmt.Errorf("signing app JWT: %w", err)
	}

	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+signed)
	return t.base.RoundTrip(cloned)
}

// NewClient builds a GitHub client authenticated as the App itself.
// serverURL is only set for GitHub Enterprise.
func NewClient(appID int64, privateKeyPEM []byte, serverURL string) (*github.Client, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing app private key: %w", err)
	}

	httpClient := &http.Client{
		Transport: &appTransport{
			appID: appID,
			key:   key,
			base:  http.DefaultTransport,
		},
	}

	client := github.NewClient(httpClient)
	if serverURL != "" {
		client, err = client.WithEnterpriseURLs(serverURL, serverURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URLs: %w", err)
		}
	}
	return client, nil
}

// InstallationTokenClient exchanges the App identity for an installation
// token and returns a client scoped to that installation.
func InstallationTokenClient(ctx context.Context, appClient *github.Client, installationID int64) (*github.Client, error) {
	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, fmt.Errorf("creating installation token: %w", err)
	}
	return github.NewClient(nil).WithAuthToken(token.GetToken()), nil
}
