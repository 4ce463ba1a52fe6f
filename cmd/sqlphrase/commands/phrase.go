package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlphrase/internal/adapters/dialect"
	"github.com/satishbabariya/sqlphrase/internal/config"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/document"
	"github.com/satishbabariya/sqlphrase/internal/ui"
	"github.com/satishbabariya/sqlphrase/internal/watch"
)

func newPhraseCommand(a *app) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "phrase <file>",
		Short: "Print the SQL for a file of statement documents",
		Long: `Phrase every YAML document in a file and print the SQL for the selected
dialect. Procedures are dry-run against an in-memory recorder and the
statements they would execute are printed.

With --watch the file is phrased again whenever it changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dialect(cmd)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			run := func() error {
				return printPhrases(cmd.Context(), p, d, args[0])
			}
			if !watchFile {
				return run()
			}

			w, err := watch.New(args[0], func() error {
				p.Header("sqlphrase", fmt.Sprintf("%s (%s)", args[0], d.Name))
				if err := run(); err != nil {
					p.Error("%v", err)
				}
				return nil
			})
			if err != nil {
				return err
			}
			err = w.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "phrase the file again on every change")
	return cmd
}

// phrased is one phrased document.
type phrased struct {
	kind  string
	level int
	phrasing.Phrase
}

// phrases decodes file and phrases every document in it.
func phrases(d *dialect.Dialect, file string) ([]phrased, error) {
	f, err := config.AppFs.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	docs, err := document.Decode(f)
	if err != nil {
		return nil, err
	}
	out := make([]phrased, 0, len(docs))
	for i, doc := range docs {
		ph, err := doc.Phrase(d.Phraser)
		if err != nil {
			return nil, fmt.Errorf("document %d (%s): %w", i, doc.Kind, err)
		}
		level, err := doc.Level()
		if err != nil {
			return nil, fmt.Errorf("document %d (%s): %w", i, doc.Kind, err)
		}
		out = append(out, phrased{kind: doc.Kind, level: level, Phrase: ph})
	}
	return out, nil
}

func printPhrases(ctx context.Context, p *ui.Printer, d *dialect.Dialect, file string) error {
	list, err := phrases(d, file)
	if err != nil {
		return err
	}
	for _, ph := range list {
		switch {
		case ph.Statement != nil:
			p.Statement(*ph.Statement)
		case ph.Procedure != nil:
			// Steps that inspect the database see no rows.
			rec := procedure.NewRecorder()
			p.Warning("%s", ph.String())
			if err := ph.Procedure.Run(ctx, rec); err != nil {
				p.Error("dry run stopped: %v", err)
			}
			for _, stmt := range rec.Queries() {
				p.Statement(stmt)
			}
		default:
			p.Warning("-- nothing to do")
		}
	}
	return nil
}
