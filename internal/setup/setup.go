// Package setup ships the schema script operators run for a manual install.
package setup

import (
	_ "embed"
	"errors"
)

//go:embed setup.sql
var script string

var ErrScriptUnavailable = errors.New("failed to load setup SQL script")

// Loader returns the setup script text.
type Loader func() (string, error)

// Script is the default Loader backed by the embedded file.
func Script() (string, error) {
	if script == "" {
		return "", ErrScriptUnavailable
	}
	return script, nil
}

// RequiredTables are the tables the console needs before it can sign in.
var RequiredTables = []string{"tenants", "app_configs", "users"}
