package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlphrase/internal/adapters/dialect"
	"github.com/satishbabariya/sqlphrase/internal/config"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/debug"
	"github.com/satishbabariya/sqlphrase/internal/document"
	"github.com/satishbabariya/sqlphrase/internal/ui"
)

// confirm is replaced in tests.
var confirm = ui.Confirm

func newApplyCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Run a file of statement documents against the database",
		Long: `Phrase every YAML document in a file and execute the results in order
against the configured database. Rows returned by a statement are printed
as a table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DatabaseURL == "" {
				return fmt.Errorf("no database URL configured; use --url, %s_DATABASE_URL or DATABASE_URL", config.EnvPrefix)
			}
			d, err := a.dialect(cmd)
			if err != nil {
				return err
			}
			list, err := phrases(d, args[0])
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			p.Header("sqlphrase", fmt.Sprintf("Apply %s (%s)", args[0], d.Name))
			if !yes {
				ok, err := confirm(fmt.Sprintf("Execute %d statement(s)?", len(list)))
				if err != nil {
					return err
				}
				if !ok {
					p.Warning("Cancelled")
					return nil
				}
			}

			db, err := d.Connect(cmd.Context(), a.cfg.Database())
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer db.Close()

			session, err := db.Pin(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			if err := applyAll(cmd.Context(), p, d, session, list); err != nil {
				return err
			}
			p.Success("Applied %d document(s)", len(list))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// ErrProcedureInTransaction is returned for a procedure document inside
// an open begin/commit block.
var ErrProcedureInTransaction = errors.New("procedures run in their own transaction; commit or roll back first")

// applyAll executes list in order on one connection, so begin, commit and
// rollback documents bracket the statements between them. A transaction
// left open, by the file or by a failure, is rolled back.
func applyAll(ctx context.Context, p *ui.Printer, d *dialect.Dialect, ex procedure.Executor, list []phrased) error {
	depth := 0
	defer func() {
		if depth == 0 {
			return
		}
		rollback, rbErr := d.Phraser.Rollback(0)
		if rbErr == nil {
			_, rbErr = rollback.Execute(ctx, ex)
		}
		if rbErr != nil {
			debug.Error("Rollback of open transaction failed", "error", rbErr)
			return
		}
		p.Warning("Rolled back the unfinished transaction")
	}()

	for i, ph := range list {
		if ph.IsEmpty() {
			continue
		}
		if ph.Procedure != nil && depth > 0 {
			return fmt.Errorf("document %d: %w", i, ErrProcedureInTransaction)
		}
		rows, err := ph.Execute(ctx, ex)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		switch ph.kind {
		case document.KindBegin:
			depth = ph.level + 1
		case document.KindCommit, document.KindRollback:
			depth = min(depth, ph.level)
		}

		if ph.Statement != nil {
			p.Statement(*ph.Statement)
		} else {
			p.Success("%s", ph.String())
		}
		if len(rows) > 0 {
			if err := p.Rows(rows); err != nil {
				return err
			}
		}
	}
	return nil
}
