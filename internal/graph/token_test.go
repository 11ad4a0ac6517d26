package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenSourceValidation(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		clientID string
		secret   string
		wantErr  bool
	}{
		{"all set", "tenant", "client", "secret", false},
		{"missing tenant", "", "client", "secret", true},
		{"missing client", "tenant", "", "secret", true},
		{"missing secret", "tenant", "client", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTokenSource(context.Background(), tt.tenantID, tt.clientID, tt.secret)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, ts)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, ts)
			}
		})
	}
}

func TestTokenURL(t *testing.T) {
	assert.Equal(t,
		"https://login.microsoftonline.com/my-tenant/oauth2/v2.0/token",
		tokenURL("my-tenant"))
}

func TestStaticTokenSource(t *testing.T) {
	ts := StaticTokenSource("abc")
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
}
