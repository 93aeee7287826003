package database

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations, binary'ye gömülü migration dosyalarını kök dizinde sunar.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// Yol derleme zamanında sabit; buraya düşülmez.
		panic(err)
	}
	return sub
}
