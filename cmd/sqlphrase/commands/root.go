// Package commands implements CLI commands.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/satishbabariya/sqlphrase/internal/adapters/dialect"
	"github.com/satishbabariya/sqlphrase/internal/config"
	"github.com/satishbabariya/sqlphrase/internal/debug"
	"github.com/satishbabariya/sqlphrase/internal/ui"
)

// app is the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

// NewRootCommand creates the sqlphrase command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "sqlphrase",
		Short:         "Compile conditions and statement documents to SQL",
		Long:          "sqlphrase compiles declarative conditions and YAML statement documents into parameterized SQL for PostgreSQL, MySQL and SQLite, and can run them against a database.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default .sqlphrase.yaml in the working or home directory)")
	flags.String("dialect", "", "SQL dialect: "+strings.Join(dialect.Names(), ", "))
	flags.String("url", "", "database connection URL")
	flags.Bool("debug", false, "log debug output to stderr")
	_ = a.v.BindPFlag("dialect", flags.Lookup("dialect"))
	_ = a.v.BindPFlag("database_url", flags.Lookup("url"))
	_ = a.v.BindPFlag("debug", flags.Lookup("debug"))

	root.AddCommand(
		newWhereCommand(a),
		newPhraseCommand(a),
		newApplyCommand(a),
		newPredicatesCommand(a),
		newInitCommand(a),
		NewVersionCommand(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.LoadFrom(config.AppFs, a.v, a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	debug.Init(cfg.Debug)
	debug.Debug("Loaded config", "dialect", cfg.Dialect)
	return nil
}

// dialect resolves the configured dialect. Without an explicit dialect it
// is inferred from the database URL when possible.
func (a *app) dialect(cmd *cobra.Command) (*dialect.Dialect, error) {
	explicit := cmd.Flags().Changed("dialect") ||
		a.v.InConfig("dialect") ||
		os.Getenv(config.EnvPrefix+"_DIALECT") != ""
	if !explicit && a.cfg.DatabaseURL != "" {
		if d, err := dialect.FromURL(a.cfg.DatabaseURL); err == nil {
			return d, nil
		}
	}
	return dialect.New(a.cfg.Dialect)
}

func (a *app) printer(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout())
}
