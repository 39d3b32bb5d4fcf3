// Package auth manages the OAuth2 token: interactive grant, refresh via the
// oauth2 client, and persistence to a JSON cache file.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ErrTokenNotSet indicates no OAuth token is available yet; the caller has
// to go through the interactive grant first.
var ErrTokenNotSet = errors.New("no token defined")

const stateTTL = 5 * time.Minute

// Token holds the OAuth2 token for the authenticated Gmail session. Safe
// for concurrent use; the MCP transports may serve callers in parallel.
type Token struct {
	mu        sync.RWMutex
	cfg       *oauth2.Config
	token     *oauth2.Token
	cachePath string
	pending   map[string]time.Time
}

// NewToken creates a Token manager. A non-empty cachePath is read on
// startup and written back by Persist.
func NewToken(cfg *oauth2.Config, cachePath string) (*Token, error) {
	t := &Token{
		cfg:       cfg,
		cachePath: cachePath,
		pending:   make(map[string]time.Time),
	}

	if cachePath == "" {
		return t, nil
	}

	tok, err := readTokenFile(cachePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Token cache %s doesn't exist yet, will be created on shutdown", cachePath)
			return t, nil
		}
		return nil, err
	}
	t.token = tok

	return t, nil
}

func readTokenFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("json.NewDecoder.Decode failed: %w", err)
	}

	return tok, nil
}

// RedirectURL generates the authorization URL with a fresh random state.
func (t *Token) RedirectURL() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read failed: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.pending[state] = now.Add(stateTTL)

	for s, exp := range t.pending {
		if exp.Before(now) {
			delete(t.pending, s)
		}
	}

	return t.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// AuthorizeCode exchanges an authorization code for a token after checking
// the state parameter against the pending set.
func (t *Token) AuthorizeCode(ctx context.Context, code, state string) error {
	if !t.consumeState(state) {
		return errors.New("invalid or expired state parameter")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tok, err := t.cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("cfg.Exchange failed: %w", err)
	}
	t.token = tok

	return nil
}

func (t *Token) consumeState(state string) bool {
	if state == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	expiry, ok := t.pending[state]
	if !ok {
		return false
	}
	delete(t.pending, state)

	return !time.Now().After(expiry)
}

// OAuthToken returns the current token, or ErrTokenNotSet before the first
// grant.
func (t *Token) OAuthToken() (*oauth2.Token, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.token == nil {
		return nil, ErrTokenNotSet
	}

	return t.token, nil
}

// Persist writes the token back to the cache file, if any.
func (t *Token) Persist() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.cachePath == "" || t.token == nil {
		return nil
	}

	f, err := os.OpenFile(t.cachePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(t.token); err != nil {
		return fmt.Errorf("json.NewEncoder.Encode failed: %w", err)
	}

	return nil
}
