package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlphrase/internal/core/condition/text"
)

func newWhereCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "where <condition>",
		Short: "Compile a textual condition to a WHERE clause",
		Long: `Compile a textual condition for the selected dialect and print the
resulting SQL and bound args.

Example:
  sqlphrase where "(status = 'open' or status = 'pending') and age$gte = 18"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dialect(cmd)
			if err != nil {
				return err
			}
			c, err := text.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			stmt, err := c.Build(d.Grammar, d.Translator)
			if err != nil {
				return err
			}
			a.printer(cmd).Statement(stmt)
			return nil
		},
	}
}
