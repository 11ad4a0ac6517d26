package graph

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultScope requests all application permissions granted to the app
// registration.
const DefaultScope = "https://graph.microsoft.com/.default"

// tokenURL returns the v2.0 client-credentials token endpoint for a tenant.
func tokenURL(tenantID string) string {
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenantID)
}

// NewTokenSource returns a token source that acquires app-only Graph tokens
// via the OAuth2 client-credentials flow. The returned source caches the
// current token and refreshes it under a single-writer lock, so concurrent
// chat turns share one valid token and never race to refresh; a token is
// only requested when none is cached or the cached one has expired.
func NewTokenSource(ctx context.Context, tenantID, clientID, clientSecret string) (oauth2.TokenSource, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("tenant ID, client ID and client secret are all required")
	}
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL(tenantID),
		Scopes:       []string{DefaultScope},
	}
	return conf.TokenSource(ctx), nil
}

// StaticTokenSource returns a source serving a fixed bearer token. Useful
// for tests and for environments that inject a pre-acquired token.
func StaticTokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}
