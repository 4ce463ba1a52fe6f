package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

type registryOwner interface {
	Registry() *translator.Registry
}

func newPredicatesCommand(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "predicates",
		Short: "List the predicates the selected dialect understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dialect(cmd)
			if err != nil {
				return err
			}
			owner, ok := d.Translator.(registryOwner)
			if !ok {
				return fmt.Errorf("dialect %s does not expose its predicates", d.Name)
			}
			md := predicateTable(string(d.Name), owner.Registry().Rules())
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			return a.printer(cmd).Markdown(md)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering it")
	return cmd
}

func predicateTable(dialect string, rules []*translator.PredicateRule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Predicates (%s)\n\n", dialect)
	b.WriteString("| Predicate | Matches | Format |\n")
	b.WriteString("|---|---|---|\n")
	for _, r := range rules {
		fmt.Fprintf(&b, "| %s | `%s` | `%s` |\n", r.Name(), cell(r.Pattern()), cell(r.Format()))
	}
	return b.String()
}

// cell escapes pipes so a value stays inside its table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
