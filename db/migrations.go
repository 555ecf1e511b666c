// Package db встраивает SQL-миграции каталога в бинарник, чтобы их не нужно было копировать рядом с ним.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
