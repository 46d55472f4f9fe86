// Package migrations embeds the goose SQL migrations of each service.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed users/*.sql orders/*.sql
var FS embed.FS

// Users returns the user-service migrations.
func Users() fs.FS {
	return sub("users")
}

// Orders returns the order-service migrations.
func Orders() fs.FS {
	return sub("orders")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(FS, dir)
	if err != nil {
		// dir is a compile-time constant matched by the embed pattern.
		panic(err)
	}
	return f
}
