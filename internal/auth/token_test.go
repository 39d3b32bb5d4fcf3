package auth_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/gmailtools/gmail-reader-mcp/internal/auth"
)

func testOauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/oauth",
	}
}

func writeTokenFile(t *testing.T, path string, tok *oauth2.Token) {
	t.Helper()

	data, err := json.Marshal(tok)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func TestTokenPersistRoundTrip(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "token.json")

	tok, err := auth.NewToken(testOauthCfg(), cachePath)
	require.NoError(t, err)

	_, err = tok.OAuthToken()
	assert.ErrorIs(t, err, auth.ErrTokenNotSet)

	// nothing to persist yet, still not an error
	require.NoError(t, tok.Persist())

	reloaded, err := auth.NewToken(testOauthCfg(), cachePath)
	require.NoError(t, err)
	_, err = reloaded.OAuthToken()
	assert.ErrorIs(t, err, auth.ErrTokenNotSet)
}

func TestTokenLoadsPersistedToken(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "token.json")

	seed := &oauth2.Token{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}

	writeTokenFile(t, cachePath, seed)

	tok, err := auth.NewToken(testOauthCfg(), cachePath)
	require.NoError(t, err)

	got, err := tok.OAuthToken()
	require.NoError(t, err)
	assert.Equal(t, seed.AccessToken, got.AccessToken)
	assert.Equal(t, seed.RefreshToken, got.RefreshToken)
}

func TestAuthorizeCodeRejectsUnknownState(t *testing.T) {
	tok, err := auth.NewToken(testOauthCfg(), "")
	require.NoError(t, err)

	err = tok.AuthorizeCode(context.Background(), "some-code", "bogus-state")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired state")

	err = tok.AuthorizeCode(context.Background(), "some-code", "")
	require.Error(t, err)
}

func TestRedirectURLCarriesState(t *testing.T) {
	tok, err := auth.NewToken(testOauthCfg(), "")
	require.NoError(t, err)

	url1, err := tok.RedirectURL()
	require.NoError(t, err)
	url2, err := tok.RedirectURL()
	require.NoError(t, err)

	assert.Contains(t, url1, "state=")
	assert.NotEqual(t, url1, url2, "each authorization URL gets a fresh state")
}
