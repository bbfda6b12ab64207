package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/term"

	"github.com/kingrain94/remote-config-api/internal/client"
	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/credentials"
)

const requestTimeout = 15 * time.Second

// app carries what commands share; tests swap the store and prompt.
type app struct {
	cfg          *config.CLIConfig
	httpClient   *http.Client
	openStore    func() (credentials.Store, func(), error)
	promptSecret func(prompt string) (string, error)
}

func newApp(cfg *config.CLIConfig) *app {
	a := &app{cfg: cfg, httpClient: &http.Client{Timeout: requestTimeout}}
	a.openStore = a.defaultStore
	a.promptSecret = terminalPrompt
	return a
}

func (a *app) defaultStore() (credentials.Store, func(), error) {
	switch a.cfg.Store {
	case "", "file":
		path := a.cfg.CredentialsFile
		if path == "" {
			var err error
			if path, err = credentials.DefaultFilePath(); err != nil {
				return nil, nil, err
			}
		}
		return credentials.NewFileStore(path), func() {}, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		return credentials.NewRedisStore(rdb, a.cfg.RedisHash), func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown credential store %q (want file or redis)", a.cfg.Store)
	}
}

func terminalPrompt(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal to prompt on, pass the value as a flag")
	}
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

func (a *app) session() (*credentials.Session, func(), error) {
	store, closeFn, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	return credentials.NewSession(store), closeFn, nil
}

func (a *app) newClient(endpointURL, apiKey string) (*client.Client, error) {
	return client.New(endpointURL, apiKey, client.WithHTTPClient(a.httpClient))
}

// connect runs the credential gate and signs in with the operator pair.
// A rejected sign-in marks the session signed out, mirroring the console.
func (a *app) connect(ctx context.Context) (*client.Client, error) {
	session, closeFn, err := a.session()
	if err != nil {
		return nil, err
	}
	defer closeFn()

	endpointURL, apiKey, err := credentials.NewGate(session).Require(ctx)
	if err != nil {
		return nil, err
	}

	c, err := a.newClient(endpointURL, apiKey)
	if err != nil {
		return nil, err
	}
	if _, err := c.SignIn(ctx, a.cfg.OperatorEmail, a.cfg.OperatorPassword); err != nil {
		if client.IsCredentialsError(err) {
			_ = session.SetSignedOut(ctx, true)
			return nil, fmt.Errorf("sign-in rejected (%w), check the operator user and run `rcctl setup` again", err)
		}
		return nil, err
	}
	return c, nil
}
