// Package migrations embeds the cart table schema for each supported backend.
package migrations

import (
	"embed"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

const (
	SQLite   = "sqlite/01_cart.up.sql"
	Postgres = "postgres/01_cart.up.sql"
)

// Schema returns the contents of the named schema file.
func Schema(name string) (string, error) {
	b, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
