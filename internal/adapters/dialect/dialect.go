// Package dialect resolves a dialect name to its grammar, translator,
// phraser and database connector.
package dialect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/adapters/database"
	mysqldb "github.com/satishbabariya/sqlphrase/internal/adapters/database/mysql"
	postgresdb "github.com/satishbabariya/sqlphrase/internal/adapters/database/postgres"
	sqlitedb "github.com/satishbabariya/sqlphrase/internal/adapters/database/sqlite"
	"github.com/satishbabariya/sqlphrase/internal/adapters/dialect/mysql"
	"github.com/satishbabariya/sqlphrase/internal/adapters/dialect/postgres"
	"github.com/satishbabariya/sqlphrase/internal/adapters/dialect/sqlite"
	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

// ErrUnknownDialect is returned for a name no dialect answers to.
var ErrUnknownDialect = errors.New("unknown dialect")

// Name is a canonical dialect name.
type Name string

const (
	// PostgreSQL dialect.
	PostgreSQL Name = "postgres"
	// MySQL dialect, also used for MariaDB.
	MySQL Name = "mysql"
	// SQLite dialect.
	SQLite Name = "sqlite"
)

// Connector opens a database for a dialect.
type Connector func(ctx context.Context, cfg database.Config) (*database.DB, error)

// Dialect bundles everything needed to compile and run SQL for one
// database.
type Dialect struct {
	Name       Name
	Grammar    grammar.Grammar
	Translator translator.Translator
	Phraser    phrasing.Phraser
	Connect    Connector
}

var aliases = map[string]Name{
	"postgres":   PostgreSQL,
	"postgresql": PostgreSQL,
	"pg":         PostgreSQL,
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
}

// New returns a fresh dialect for name. Names are case insensitive.
func New(name string) (*Dialect, error) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}

	switch canonical {
	case PostgreSQL:
		p := postgres.NewPhraser()
		return &Dialect{Name: canonical, Grammar: p.Grammar, Translator: p.Translator, Phraser: p, Connect: postgresdb.Connect}, nil
	case MySQL:
		p := mysql.NewPhraser()
		return &Dialect{Name: canonical, Grammar: p.Grammar, Translator: p.Translator, Phraser: p, Connect: mysqldb.Connect}, nil
	default:
		p := sqlite.NewPhraser()
		return &Dialect{Name: canonical, Grammar: p.Grammar, Translator: p.Translator, Phraser: p, Connect: sqlitedb.Connect}, nil
	}
}

// FromURL guesses the dialect from a connection URL scheme.
func FromURL(url string) (*Dialect, error) {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		switch {
		case strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"), url == ":memory:":
			return New(string(SQLite))
		}
		return nil, fmt.Errorf("%w: cannot infer from %q", ErrUnknownDialect, url)
	}
	return New(scheme)
}

// Names lists every accepted dialect name.
func Names() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
