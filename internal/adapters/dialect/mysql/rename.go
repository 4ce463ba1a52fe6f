package mysql

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	version "github.com/hashicorp/go-version"

	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/debug"
)

const primaryKeyName = "PRIMARY"

// RENAME INDEX exists from MySQL 5.7 and MariaDB 10.5.2.
var (
	renameIndexMySQL   = version.MustConstraints(version.NewConstraint(">= 5.7"))
	renameIndexMariaDB = version.MustConstraints(version.NewConstraint(">= 10.5.2"))
	versionCore        = regexp.MustCompile(`^\d+(\.\d+)*`)
)

// SupportsRenameIndex reports whether a server reporting the given
// VERSION() string understands ALTER TABLE ... RENAME INDEX.
func SupportsRenameIndex(serverVersion string) (bool, error) {
	core := versionCore.FindString(strings.TrimSpace(serverVersion))
	if core == "" {
		return false, fmt.Errorf("%w: %q", ErrServerVersion, serverVersion)
	}
	v, err := version.NewVersion(core)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrServerVersion, err)
	}
	if strings.Contains(strings.ToLower(serverVersion), "mariadb") {
		return renameIndexMariaDB.Check(v), nil
	}
	return renameIndexMySQL.Check(v), nil
}

// indexPart is one row of SHOW INDEX.
type indexPart struct {
	seq     int
	column  string
	subPart int
}

func (p *Phraser) renameIndex(d phrasing.RenameIndexData) procedure.Step {
	g := p.Grammar
	return func(ctx context.Context, q procedure.Queryer) error {
		rows, err := q.Raw(ctx, "SELECT VERSION() AS version")
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrServerVersion
		}
		native, err := SupportsRenameIndex(rows[0].String("version"))
		if err != nil {
			return err
		}
		if native {
			_, err := q.Raw(ctx, fmt.Sprintf("ALTER TABLE %s RENAME INDEX %s TO %s",
				g.Field(d.Table), g.Quote(d.From), g.Quote(d.To)))
			return err
		}

		debug.Debug("Recreating index for rename", "table", d.Table, "from", d.From, "to", d.To)
		rows, err = q.Raw(ctx, fmt.Sprintf("SHOW INDEX FROM %s WHERE Key_name = ?", g.Field(d.Table)), d.From)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("%w: %s on %s", ErrIndexNotFound, d.From, d.Table)
		}

		unique := rows[0].Int("Non_unique") == 0
		kind := strings.ToUpper(rows[0].String("Index_type"))
		parts := make([]indexPart, len(rows))
		for i, row := range rows {
			parts[i] = indexPart{
				seq:     row.Int("Seq_in_index"),
				column:  row.String("Column_name"),
				subPart: row.Int("Sub_part"),
			}
		}
		sort.Slice(parts, func(i, j int) bool { return parts[i].seq < parts[j].seq })

		columns := make([]string, len(parts))
		for i, part := range parts {
			columns[i] = g.Quote(part.column)
			if part.subPart > 0 {
				columns[i] += fmt.Sprintf("(%d)", part.subPart)
			}
		}

		head := "CREATE INDEX"
		switch {
		case kind == "FULLTEXT" || kind == "SPATIAL":
			head = "CREATE " + kind + " INDEX"
		case unique:
			head = "CREATE UNIQUE INDEX"
		}

		drop := fmt.Sprintf("DROP INDEX %s ON %s", g.Quote(d.From), g.Field(d.Table))
		create := fmt.Sprintf("%s %s ON %s (%s)", head, g.Quote(d.To), g.Field(d.Table), strings.Join(columns, ", "))
		for _, stmt := range []string{drop, create} {
			if _, err := q.Raw(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
