package credentials

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrSetupRequired = errors.New("no saved connection, run `rcctl setup` first")
	ErrSignedOut     = errors.New("signed out, run `rcctl setup` to sign in again")
)

// Session reads and writes the fixed credential keys on a Store.
type Session struct {
	store Store
}

func NewSession(store Store) *Session {
	return &Session{store: store}
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	v, _, err := s.store.Get(ctx, key)
	return v, err
}

func (s *Session) EndpointURL(ctx context.Context) (string, error) {
	return s.get(ctx, KeyEndpointURL)
}

func (s *Session) APIKey(ctx context.Context) (string, error) {
	return s.get(ctx, KeyAPIKey)
}

// HasCredentials reports whether both secrets are present and non-empty.
func (s *Session) HasCredentials(ctx context.Context) (bool, error) {
	url, err := s.EndpointURL(ctx)
	if err != nil {
		return false, err
	}
	key, err := s.APIKey(ctx)
	if err != nil {
		return false, err
	}
	return url != "" && key != "", nil
}

func (s *Session) SaveCredentials(ctx context.Context, endpointURL, apiKey string) error {
	if endpointURL == "" || apiKey == "" {
		return errors.New("endpoint URL and API key are both required")
	}
	if err := s.store.Set(ctx, KeyEndpointURL, endpointURL); err != nil {
		return err
	}
	return s.store.Set(ctx, KeyAPIKey, apiKey)
}

func (s *Session) IsSignedOut(ctx context.Context) (bool, error) {
	v, err := s.get(ctx, KeySignedOut)
	return v == "1", err
}

func (s *Session) SetSignedOut(ctx context.Context, signedOut bool) error {
	if signedOut {
		return s.store.Set(ctx, KeySignedOut, "1")
	}
	return s.store.Delete(ctx, KeySignedOut)
}

// ClearCredentials removes the two secrets and leaves the flag alone.
func (s *Session) ClearCredentials(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyEndpointURL); err != nil {
		return err
	}
	return s.store.Delete(ctx, KeyAPIKey)
}

func (s *Session) Reset(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Gate decides whether a command may run against the saved connection.
type Gate struct {
	session *Session
}

func NewGate(session *Session) *Gate {
	return &Gate{session: session}
}

// Require returns the saved endpoint and key, or ErrSetupRequired /
// ErrSignedOut.
func (g *Gate) Require(ctx context.Context) (endpointURL, apiKey string, err error) {
	ok, err := g.session.HasCredentials(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to read credentials: %w", err)
	}
	if !ok {
		return "", "", ErrSetupRequired
	}

	signedOut, err := g.session.IsSignedOut(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to read credentials: %w", err)
	}
	if signedOut {
		return "", "", ErrSignedOut
	}

	if endpointURL, err = g.session.EndpointURL(ctx); err != nil {
		return "", "", err
	}
	if apiKey, err = g.session.APIKey(ctx); err != nil {
		return "", "", err
	}
	return endpointURL, apiKey, nil
}
