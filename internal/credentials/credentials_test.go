package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite runs the same contract against every Store.
type StoreTestSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
}

func (s *StoreTestSuite) SetupTest() {
	s.store = s.newStore()
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{newStore: func() Store { return NewMemoryStore() }})
}

func TestFileStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{newStore: func() Store {
		return NewFileStore(filepath.Join(t.TempDir(), "nested", "credentials.yaml"))
	}})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &StoreTestSuite{newStore: func() Store {
		store := NewRedisStore(client, "rcctl:test:"+t.Name())
		_ = store.Clear(context.Background())
		return store
	}})
}

func (s *StoreTestSuite) TestGetMissing() {
	// Act
	v, ok, err := s.store.Get(context.Background(), KeyAPIKey)

	// Assert
	s.NoError(err)
	s.False(ok)
	s.Empty(v)
}

func (s *StoreTestSuite) TestSetGetDelete() {
	// Arrange
	ctx := context.Background()

	// Act
	s.Require().NoError(s.store.Set(ctx, KeyEndpointURL, "https://config.example.com"))
	v, ok, err := s.store.Get(ctx, KeyEndpointURL)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Delete(ctx, KeyEndpointURL))
	_, stillThere, _ := s.store.Get(ctx, KeyEndpointURL)

	// Assert
	s.True(ok)
	s.Equal("https://config.example.com", v)
	s.False(stillThere)
}

func (s *StoreTestSuite) TestDeleteMissingIsNoop() {
	s.NoError(s.store.Delete(context.Background(), KeySignedOut))
}

func (s *StoreTestSuite) TestClear() {
	// Arrange
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, KeyEndpointURL, "u"))
	s.Require().NoError(s.store.Set(ctx, KeyAPIKey, "k"))

	// Act
	err := s.store.Clear(ctx)

	// Assert
	s.NoError(err)
	_, ok, _ := s.store.Get(ctx, KeyAPIKey)
	s.False(ok)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	ctx := context.Background()

	if err := NewFileStore(path).Set(ctx, KeyAPIKey, "anon-123"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := NewFileStore(path).Get(ctx, KeyAPIKey)
	if err != nil || !ok || v != "anon-123" {
		t.Fatalf("got %q, %v, %v", v, ok, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600, got %v", info.Mode().Perm())
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := NewFileStore(path).Get(context.Background(), KeyAPIKey)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

type SessionTestSuite struct {
	suite.Suite
	store   *MemoryStore
	session *Session
	gate    *Gate
}

func (s *SessionTestSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.session = NewSession(s.store)
	s.gate = NewGate(s.session)
}

func TestSession(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) TestHasCredentials_RequiresBoth() {
	// Arrange
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, KeyEndpointURL, "https://config.example.com"))

	// Act
	partial, err := s.session.HasCredentials(ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Set(ctx, KeyAPIKey, "anon-123"))
	full, err := s.session.HasCredentials(ctx)

	// Assert
	s.NoError(err)
	s.False(partial)
	s.True(full)
}

func (s *SessionTestSuite) TestSaveCredentials_RejectsEmpty() {
	err := s.session.SaveCredentials(context.Background(), "https://config.example.com", "")
	s.Error(err)
}

func (s *SessionTestSuite) TestSignedOutFlag() {
	// Arrange
	ctx := context.Background()

	// Act
	s.Require().NoError(s.session.SetSignedOut(ctx, true))
	raw, _, _ := s.store.Get(ctx, KeySignedOut)
	out, _ := s.session.IsSignedOut(ctx)
	s.Require().NoError(s.session.SetSignedOut(ctx, false))
	_, present, _ := s.store.Get(ctx, KeySignedOut)

	// Assert
	s.Equal("1", raw)
	s.True(out)
	s.False(present)
}

func (s *SessionTestSuite) TestClearCredentials_KeepsFlag() {
	// Arrange
	ctx := context.Background()
	s.Require().NoError(s.session.SaveCredentials(ctx, "u", "k"))
	s.Require().NoError(s.session.SetSignedOut(ctx, true))

	// Act
	err := s.session.ClearCredentials(ctx)

	// Assert
	s.NoError(err)
	has, _ := s.session.HasCredentials(ctx)
	out, _ := s.session.IsSignedOut(ctx)
	s.False(has)
	s.True(out)
}

func (s *SessionTestSuite) TestReset_ClearsEverything() {
	// Arrange
	ctx := context.Background()
	s.Require().NoError(s.session.SaveCredentials(ctx, "u", "k"))
	s.Require().NoError(s.session.SetSignedOut(ctx, true))

	// Act
	err := s.session.Reset(ctx)

	// Assert
	s.NoError(err)
	has, _ := s.session.HasCredentials(ctx)
	out, _ := s.session.IsSignedOut(ctx)
	s.False(has)
	s.False(out)
}

func (s *SessionTestSuite) TestGate() {
	ctx := context.Background()

	s.Run("no credentials", func() {
		_, _, err := s.gate.Require(ctx)
		s.ErrorIs(err, ErrSetupRequired)
	})

	s.Require().NoError(s.session.SaveCredentials(ctx, "https://config.example.com", "anon-123"))

	s.Run("ready", func() {
		url, key, err := s.gate.Require(ctx)
		s.NoError(err)
		s.Equal("https://config.example.com", url)
		s.Equal("anon-123", key)
	})

	s.Require().NoError(s.session.SetSignedOut(ctx, true))

	s.Run("signed out", func() {
		_, _, err := s.gate.Require(ctx)
		s.ErrorIs(err, ErrSignedOut)
	})
}
