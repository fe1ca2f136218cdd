package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	// Name is the store.driver value, e.g. "postgres".
	Name string
	// DriverName is the database/sql driver, e.g. "pgx".
	DriverName string
	// Schema creates the projects table and its indexes idempotently.
	Schema []string
	// Upsert inserts or replaces one (name, mtime) row.
	Upsert string
	// Placeholders rewrites ? placeholders into the driver's form.
	Placeholders func(string) string
	// MaxOpenConns is used when the configuration leaves it at zero.
	MaxOpenConns int
}

// Names compare bytewise in every dialect: sqlite's default BINARY
// collation, VARBINARY in mysql and COLLATE "C" in postgres.
var (
	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite3",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS projects (
				name  TEXT    NOT NULL PRIMARY KEY,
				mtime INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS projects_mtime_name ON projects (mtime, name)`,
			`CREATE INDEX IF NOT EXISTS projects_mtime_desc_name ON projects (mtime DESC, name)`,
		},
		Upsert:       `INSERT INTO projects (name, mtime) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET mtime = excluded.mtime`,
		Placeholders: question,
		MaxOpenConns: 1,
	}

	MySQL = Dialect{
		Name:       "mysql",
		DriverName: "mysql",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS projects (
				name  VARBINARY(255) NOT NULL PRIMARY KEY,
				mtime BIGINT         NOT NULL,
				INDEX projects_mtime_name (mtime, name),
				INDEX projects_mtime_desc_name (mtime DESC, name)
			)`,
		},
		Upsert:       `INSERT INTO projects (name, mtime) VALUES (?, ?) ON DUPLICATE KEY UPDATE mtime = VALUES(mtime)`,
		Placeholders: question,
	}

	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "pgx",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS projects (
				name  TEXT COLLATE "C" NOT NULL PRIMARY KEY,
				mtime BIGINT           NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS projects_mtime_name ON projects (mtime, name)`,
			`CREATE INDEX IF NOT EXISTS projects_mtime_desc_name ON projects (mtime DESC, name)`,
		},
		Upsert:       `INSERT INTO projects (name, mtime) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET mtime = excluded.mtime`,
		Placeholders: dollar,
	}
)

// Dialects lists the supported dialects by store.driver name.
var Dialects = map[string]Dialect{
	SQLite.Name:   SQLite,
	MySQL.Name:    MySQL,
	Postgres.Name: Postgres,
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	d, ok := Dialects[name]
	if !ok {
		return Dialect{}, fmt.Errorf("sqlstore: unknown dialect %q", name)
	}
	return d, nil
}

func question(q string) string { return q }

// dollar numbers ? placeholders as $1, $2, ...
func dollar(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
