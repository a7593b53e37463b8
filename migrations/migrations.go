// Package migrations embeds the SQL schema files applied by cmd/migrate.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Migration is one numbered schema step.
type Migration struct {
	Version string // e.g. "000002_persons"
	Up      string
	Down    string
}

// All returns the embedded migrations ordered by version.
func All() ([]Migration, error) {
	entries, err := fs.Glob(files, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)

	out := make([]Migration, 0, len(entries))
	for _, name := range entries {
		version := strings.TrimSuffix(name, ".up.sql")
		up, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		down, err := files.ReadFile(version + ".down.sql")
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Version: version, Up: string(up), Down: string(down)})
	}
	return out, nil
}
